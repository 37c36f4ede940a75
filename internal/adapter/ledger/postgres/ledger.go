package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydrop/paydrop-backend/internal/domain"
)

// Single-line statements so the sqlmock expectations in the tests can match
// them verbatim.
const (
	selectBalanceQuery   = `SELECT amount FROM balances WHERE asset = $1 AND account_id = $2 FOR UPDATE`
	selectAllowanceQuery = `SELECT amount FROM allowances WHERE asset = $1 AND owner_id = $2 AND spender_id = $3 FOR UPDATE`
	selectBlockedQuery   = `SELECT blocked FROM accounts WHERE id = $1`
	debitBalanceQuery    = `UPDATE balances SET amount = amount - $3 WHERE asset = $1 AND account_id = $2 AND amount >= $3`
	creditBalanceQuery   = `INSERT INTO balances (asset, account_id, amount) VALUES ($1, $2, $3) ON CONFLICT (asset, account_id) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`
	consumeAllowanceStmt = `UPDATE allowances SET amount = amount - $4 WHERE asset = $1 AND owner_id = $2 AND spender_id = $3 AND amount >= $4`
)

// ledger implements domain.AssetLedger on PostgreSQL. Each LedgerTx is a
// database transaction; the guarded UPDATE statements make a debit that
// would overdraw a balance or allowance fail instead of going negative.
type ledger struct {
	db *DB
}

// NewLedger creates a new postgres-backed asset ledger
func NewLedger(db *DB) domain.AssetLedger {
	return &ledger{db: db}
}

// Begin starts a database transaction
func (l *ledger) Begin(ctx context.Context) (domain.LedgerTx, error) {
	dbTx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

// Balance returns the account's balance for the asset, locking the row for
// the remainder of the transaction. Accounts without a row hold zero.
func (t *ledgerTx) Balance(ctx context.Context, asset domain.Asset, account uuid.UUID) (decimal.Decimal, error) {
	var amountStr string

	err := t.tx.QueryRowContext(ctx, selectBalanceQuery, asset.Key(), account).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}

	return amount, nil
}

// Allowance returns the amount owner has pre-authorized spender to pull,
// locking the row for the remainder of the transaction
func (t *ledgerTx) Allowance(ctx context.Context, asset domain.Asset, owner, spender uuid.UUID) (decimal.Decimal, error) {
	if asset.IsNative() {
		return decimal.Zero, nil
	}

	var amountStr string

	err := t.tx.QueryRowContext(ctx, selectAllowanceQuery, asset.Key(), owner, spender).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get allowance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse allowance: %w", err)
	}

	return amount, nil
}

// Pull moves amount from "from" to "to", consuming the (from, to) allowance
// for fungible assets
func (t *ledgerTx) Pull(ctx context.Context, asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	if !asset.IsNative() && !amount.IsZero() {
		result, err := t.tx.ExecContext(ctx, consumeAllowanceStmt, asset.Key(), from, to, amount.String())
		if err != nil {
			return fmt.Errorf("failed to consume allowance: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return domain.ErrInsufficientAllowance
		}
	}

	return t.move(ctx, asset, from, to, amount)
}

// Send moves amount from "from" to "to", rejecting blocked recipients
func (t *ledgerTx) Send(ctx context.Context, asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	var blocked bool
	err := t.tx.QueryRowContext(ctx, selectBlockedQuery, to).Scan(&blocked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check recipient: %w", err)
	}
	if blocked {
		return domain.ErrRecipientRejected
	}

	return t.move(ctx, asset, from, to, amount)
}

func (t *ledgerTx) move(ctx context.Context, asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	// A zero move is a no-op; the guarded debit would otherwise report an
	// insufficient balance for accounts without a balances row.
	if amount.IsZero() {
		return nil
	}

	result, err := t.tx.ExecContext(ctx, debitBalanceQuery, asset.Key(), from, amount.String())
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrInsufficientBalance
	}

	if _, err := t.tx.ExecContext(ctx, creditBalanceQuery, asset.Key(), to, amount.String()); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	return nil
}

// Commit commits the database transaction
func (t *ledgerTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls the database transaction back. After a successful Commit it
// is a no-op, so it is safe to defer.
func (t *ledgerTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
