package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydrop/paydrop-backend/internal/domain"
)

type balanceKey struct {
	asset   string
	account uuid.UUID
}

type allowanceKey struct {
	asset   string
	owner   uuid.UUID
	spender uuid.UUID
}

// Ledger is an in-memory implementation of domain.AssetLedger. It backs the
// test suites and the "memory" backend for local runs.
//
// A transaction holds the ledger mutex from Begin until Commit or Rollback,
// so state-mutating calls are fully serialized: no concurrent call can
// observe or spend funds between a pull and the completion of distribution.
type Ledger struct {
	mu         sync.Mutex
	balances   map[balanceKey]decimal.Decimal
	allowances map[allowanceKey]decimal.Decimal
	blocked    map[uuid.UUID]bool
}

// New creates an empty in-memory ledger
func New() *Ledger {
	return &Ledger{
		balances:   make(map[balanceKey]decimal.Decimal),
		allowances: make(map[allowanceKey]decimal.Decimal),
		blocked:    make(map[uuid.UUID]bool),
	}
}

// Credit unconditionally credits an account, modelling value entering the
// ledger from outside. Must not be called while a transaction is open.
func (l *Ledger) Credit(asset domain.Asset, account uuid.UUID, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{asset: asset.Key(), account: account}
	l.balances[key] = l.balances[key].Add(amount)
}

// Approve sets the amount owner pre-authorizes spender to pull, modelling the
// approval step that happens outside this system. Must not be called while a
// transaction is open.
func (l *Ledger) Approve(asset domain.Asset, owner, spender uuid.UUID, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.allowances[allowanceKey{asset: asset.Key(), owner: owner, spender: spender}] = amount
}

// Block marks an account as rejecting every incoming transfer.
// Must not be called while a transaction is open.
func (l *Ledger) Block(account uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.blocked[account] = true
}

// BalanceOf returns the committed balance of an account.
// Must not be called while a transaction is open.
func (l *Ledger) BalanceOf(asset domain.Asset, account uuid.UUID) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[balanceKey{asset: asset.Key(), account: account}]
}

// AllowanceOf returns the committed allowance from owner to spender.
// Must not be called while a transaction is open.
func (l *Ledger) AllowanceOf(asset domain.Asset, owner, spender uuid.UUID) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.allowances[allowanceKey{asset: asset.Key(), owner: owner, spender: spender}]
}

// Begin starts a transaction and takes the ledger lock until it finishes
func (l *Ledger) Begin(_ context.Context) (domain.LedgerTx, error) {
	l.mu.Lock()

	return &ledgerTx{
		ledger:     l,
		balances:   make(map[balanceKey]decimal.Decimal),
		allowances: make(map[allowanceKey]decimal.Decimal),
	}, nil
}

// ledgerTx stages balance and allowance changes on top of the committed
// state and applies them on Commit.
type ledgerTx struct {
	ledger     *Ledger
	balances   map[balanceKey]decimal.Decimal
	allowances map[allowanceKey]decimal.Decimal
	done       bool
}

func (tx *ledgerTx) balance(key balanceKey) decimal.Decimal {
	if staged, ok := tx.balances[key]; ok {
		return staged
	}
	return tx.ledger.balances[key]
}

func (tx *ledgerTx) allowance(key allowanceKey) decimal.Decimal {
	if staged, ok := tx.allowances[key]; ok {
		return staged
	}
	return tx.ledger.allowances[key]
}

// Balance returns the balance as seen inside the transaction
func (tx *ledgerTx) Balance(_ context.Context, asset domain.Asset, account uuid.UUID) (decimal.Decimal, error) {
	return tx.balance(balanceKey{asset: asset.Key(), account: account}), nil
}

// Allowance returns the allowance as seen inside the transaction
func (tx *ledgerTx) Allowance(_ context.Context, asset domain.Asset, owner, spender uuid.UUID) (decimal.Decimal, error) {
	if asset.IsNative() {
		return decimal.Zero, nil
	}
	return tx.allowance(allowanceKey{asset: asset.Key(), owner: owner, spender: spender}), nil
}

// Pull moves amount from "from" to "to", consuming the (from, to) allowance
// for fungible assets
func (tx *ledgerTx) Pull(_ context.Context, asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	if !asset.IsNative() {
		key := allowanceKey{asset: asset.Key(), owner: from, spender: to}
		allowance := tx.allowance(key)
		if allowance.LessThan(amount) {
			return domain.ErrInsufficientAllowance
		}
		tx.allowances[key] = allowance.Sub(amount)
	}

	return tx.move(asset, from, to, amount)
}

// Send moves amount from "from" to "to", rejecting blocked recipients
func (tx *ledgerTx) Send(_ context.Context, asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	if tx.ledger.blocked[to] {
		return domain.ErrRecipientRejected
	}

	return tx.move(asset, from, to, amount)
}

func (tx *ledgerTx) move(asset domain.Asset, from, to uuid.UUID, amount decimal.Decimal) error {
	fromKey := balanceKey{asset: asset.Key(), account: from}
	toKey := balanceKey{asset: asset.Key(), account: to}

	fromBalance := tx.balance(fromKey)
	if fromBalance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}

	tx.balances[fromKey] = fromBalance.Sub(amount)
	tx.balances[toKey] = tx.balance(toKey).Add(amount)

	return nil
}

// Commit applies the staged changes and releases the ledger lock
func (tx *ledgerTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true

	for key, amount := range tx.balances {
		tx.ledger.balances[key] = amount
	}
	for key, amount := range tx.allowances {
		tx.ledger.allowances[key] = amount
	}

	tx.ledger.mu.Unlock()

	return nil
}

// Rollback discards the staged changes and releases the ledger lock.
// Calling it after Commit is a no-op.
func (tx *ledgerTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.ledger.mu.Unlock()

	return nil
}
