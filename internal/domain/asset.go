package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AssetKind represents the kind of asset moved by the ledger
type AssetKind string

const (
	AssetKindNative   AssetKind = "NATIVE"
	AssetKindFungible AssetKind = "FUNGIBLE"
)

// nativeKey is the canonical string form of the native asset
const nativeKey = "native"

// Asset identifies a disbursable asset: either the native currency or a
// fungible token identified by its token ID.
// The disbursement loop is written once and parameterized by Asset, so
// native and token transfers share a single code path.
type Asset struct {
	Kind    AssetKind
	TokenID uuid.UUID // zero for native
}

// NativeAsset returns the native currency asset
func NativeAsset() Asset {
	return Asset{Kind: AssetKindNative}
}

// FungibleAsset returns the asset for a fungible token
func FungibleAsset(tokenID uuid.UUID) Asset {
	return Asset{Kind: AssetKindFungible, TokenID: tokenID}
}

// IsNative reports whether the asset is the native currency
func (a Asset) IsNative() bool {
	return a.Kind == AssetKindNative
}

// Key returns the canonical string form of the asset, used as the storage
// key by ledger adapters: "native" for the native currency, the token UUID
// for fungible tokens.
func (a Asset) Key() string {
	if a.IsNative() {
		return nativeKey
	}
	return a.TokenID.String()
}

// String implements fmt.Stringer
func (a Asset) String() string {
	return a.Key()
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a Asset) Validate() error {
	switch a.Kind {
	case AssetKindNative:
		if a.TokenID != uuid.Nil {
			return errors.New("native asset must not carry a token ID")
		}
	case AssetKindFungible:
		if a.TokenID == uuid.Nil {
			return errors.New("fungible asset must carry a token ID")
		}
	default:
		return errors.New("asset kind must be NATIVE or FUNGIBLE")
	}
	return nil
}

// ParseAsset parses the canonical string form produced by Key:
// "native" for the native currency, a token UUID for fungible tokens.
func ParseAsset(s string) (Asset, error) {
	if s == nativeKey {
		return NativeAsset(), nil
	}

	tokenID, err := uuid.Parse(s)
	if err != nil {
		return Asset{}, fmt.Errorf("invalid asset %q: %w", s, err)
	}
	if tokenID == uuid.Nil {
		return Asset{}, errors.New("fungible asset must carry a non-zero token ID")
	}

	return FungibleAsset(tokenID), nil
}
