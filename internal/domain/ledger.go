package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetLedger is the capability the engine uses to move assets. Asset
// movement itself is an external collaborator; this interface unifies the
// native currency and fungible tokens behind one set of operations.
type AssetLedger interface {
	// Begin starts a ledger transaction. All movements of one disbursement
	// happen inside a single transaction so that a failure at any point
	// rolls the whole call back to the pre-call state.
	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is a single atomic unit of ledger work. Implementations must
// guarantee that no concurrent caller can observe or spend funds between
// Begin and Commit/Rollback of a transaction touching the same balances.
type LedgerTx interface {
	// Balance returns the account's balance for the asset.
	// Accounts without a balance entry hold zero.
	Balance(ctx context.Context, asset Asset, account uuid.UUID) (decimal.Decimal, error)

	// Allowance returns the amount owner has pre-authorized spender to pull.
	// Always zero for the native asset.
	Allowance(ctx context.Context, asset Asset, owner, spender uuid.UUID) (decimal.Decimal, error)

	// Pull moves amount from "from" to "to". For fungible assets it consumes
	// the (from, to) allowance and fails with ErrInsufficientAllowance when
	// the allowance cannot cover the amount. For the native asset it models
	// value attached to a call and consumes no allowance.
	// Fails with ErrInsufficientBalance when "from" cannot cover the amount.
	Pull(ctx context.Context, asset Asset, from, to uuid.UUID, amount decimal.Decimal) error

	// Send moves amount from "from" to "to".
	// Fails with ErrRecipientRejected when "to" cannot accept the asset and
	// with ErrInsufficientBalance when "from" cannot cover the amount.
	Send(ctx context.Context, asset Asset, from, to uuid.UUID, amount decimal.Decimal) error

	// Commit applies every movement made in the transaction.
	Commit() error

	// Rollback discards the transaction. Calling Rollback after a successful
	// Commit is a no-op, so it is safe to defer.
	Rollback() error
}
