package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
	}{
		{
			name:    "valid native asset",
			asset:   NativeAsset(),
			wantErr: false,
		},
		{
			name:    "valid fungible asset",
			asset:   FungibleAsset(uuid.New()),
			wantErr: false,
		},
		{
			name:    "native asset with token ID",
			asset:   Asset{Kind: AssetKindNative, TokenID: uuid.New()},
			wantErr: true,
		},
		{
			name:    "fungible asset without token ID",
			asset:   Asset{Kind: AssetKindFungible},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			asset:   Asset{Kind: AssetKind("COMMODITY")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAsset_Key(t *testing.T) {
	assert.Equal(t, "native", NativeAsset().Key())

	tokenID := uuid.New()
	assert.Equal(t, tokenID.String(), FungibleAsset(tokenID).Key())
}

func TestParseAsset_RoundTrip(t *testing.T) {
	native, err := ParseAsset(NativeAsset().Key())
	require.NoError(t, err)
	assert.True(t, native.IsNative())

	token := FungibleAsset(uuid.New())
	parsed, err := ParseAsset(token.Key())
	require.NoError(t, err)
	assert.Equal(t, token, parsed)
}

func TestParseAsset_Invalid(t *testing.T) {
	_, err := ParseAsset("gold-bars")
	assert.Error(t, err)

	_, err = ParseAsset(uuid.Nil.String())
	assert.Error(t, err)

	_, err = ParseAsset("")
	assert.Error(t, err)
}
