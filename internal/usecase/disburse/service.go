package disburse

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paydrop/paydrop-backend/internal/domain"
	"github.com/paydrop/paydrop-backend/internal/metrics"
	"github.com/paydrop/paydrop-backend/internal/usecase/gate"
	"github.com/paydrop/paydrop-backend/internal/usecase/validator"
)

// NativeDisbursementInput represents the input for a native-only disbursement.
// Value is the native amount the caller attaches to the call; it funds the
// transfers and any excess stays on the engine account, recoverable by sweep.
type NativeDisbursementInput struct {
	Caller     uuid.UUID
	Recipients []uuid.UUID
	Amounts    []decimal.Decimal
	Value      decimal.Decimal
}

// TokenDisbursementInput represents the input for a token-only disbursement.
// TotalAmount is declared separately from the sum of Amounts; the engine pulls
// exactly TotalAmount from the caller and distributes Amounts from it.
type TokenDisbursementInput struct {
	Caller      uuid.UUID
	Token       uuid.UUID
	Recipients  []uuid.UUID
	Amounts     []decimal.Decimal
	TotalAmount decimal.Decimal
}

// CombinedDisbursementInput represents the input for a combined token + native
// disbursement: recipients[i] receives TokenAmounts[i] of the token and
// NativeAmounts[i] of the native currency.
type CombinedDisbursementInput struct {
	Caller        uuid.UUID
	Token         uuid.UUID
	Recipients    []uuid.UUID
	TokenAmounts  []decimal.Decimal
	TotalAmount   decimal.Decimal
	NativeAmounts []decimal.Decimal
	Value         decimal.Decimal
}

// Service is the batch disbursement engine. Each call validates the batch,
// funds the engine account inside a single ledger transaction, distributes
// index-aligned amounts in ascending order, and commits; any failure rolls
// the whole call back with no partial effects.
type Service struct {
	Gate          *gate.Gate
	Ledger        domain.AssetLedger
	EngineAccount uuid.UUID

	// Recipient limits per variant. The single-asset and combined limits
	// intentionally differ.
	SingleAssetRecipientLimit int
	CombinedRecipientLimit    int
}

// NewService creates a new disbursement Service instance with default limits
func NewService(g *gate.Gate, ledger domain.AssetLedger, engineAccount uuid.UUID) *Service {
	return &Service{
		Gate:                      g,
		Ledger:                    ledger,
		EngineAccount:             engineAccount,
		SingleAssetRecipientLimit: validator.DefaultSingleAssetRecipientLimit,
		CombinedRecipientLimit:    validator.DefaultCombinedRecipientLimit,
	}
}

// DisburseNative distributes attached native value across recipients.
// Logic:
//  1. Require the gate to be active
//  2. Validate the batch (single-asset recipient limit)
//  3. Pull the attached value from the caller onto the engine account
//  4. For each index, in order: check the remaining value covers the amount,
//     reject the zero account, send the amount to the recipient
//  5. Commit; leftover value stays on the engine account
//
// There is deliberately no upfront sum check: insufficiency is discovered
// mid-iteration, which is safe because the whole call is atomic.
func (s *Service) DisburseNative(ctx context.Context, input NativeDisbursementInput) (err error) {
	defer func() { metrics.DisbursementsTotal.WithLabelValues("native", metrics.Outcome(err)).Inc() }()

	if err = s.Gate.RequireActive(); err != nil {
		return err
	}

	if err = validator.ValidateBatch(input.Recipients, input.Amounts, s.SingleAssetRecipientLimit); err != nil {
		return err
	}

	tx, err := s.Ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	native := domain.NativeAsset()

	if err = tx.Pull(ctx, native, input.Caller, s.EngineAccount, input.Value); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return domain.ErrInsufficientValue
		}
		return err
	}

	remaining := input.Value
	for i, recipient := range input.Recipients {
		amount := input.Amounts[i]

		if remaining.LessThan(amount) {
			return domain.ErrInsufficientValue
		}
		if recipient == uuid.Nil {
			return domain.ErrZeroAddressRecipient
		}
		if err = tx.Send(ctx, native, s.EngineAccount, recipient, amount); err != nil {
			return err
		}

		remaining = remaining.Sub(amount)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}

	return nil
}

// DisburseToken distributes a pulled token total across recipients.
// Logic:
//  1. Require the gate to be active
//  2. Validate the batch (single-asset recipient limit)
//  3. Verify the caller's allowance covers TotalAmount, then pull TotalAmount
//     onto the engine account in one ledger operation
//  4. For each index, in order: check the remaining total covers the amount,
//     reject the zero account, send the amount to the recipient
//  5. Commit
//
// If TotalAmount exceeds the sum of Amounts, the surplus stays stranded on
// the engine account after a successful call, recoverable only by sweep.
func (s *Service) DisburseToken(ctx context.Context, input TokenDisbursementInput) (err error) {
	defer func() { metrics.DisbursementsTotal.WithLabelValues("token", metrics.Outcome(err)).Inc() }()

	if err = s.Gate.RequireActive(); err != nil {
		return err
	}

	if err = validator.ValidateBatch(input.Recipients, input.Amounts, s.SingleAssetRecipientLimit); err != nil {
		return err
	}

	tx, err := s.Ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	token := domain.FungibleAsset(input.Token)

	if err = s.pullToken(ctx, tx, token, input.Caller, input.TotalAmount); err != nil {
		return err
	}

	remaining := input.TotalAmount
	for i, recipient := range input.Recipients {
		amount := input.Amounts[i]

		if remaining.LessThan(amount) {
			return domain.ErrInsufficientAmount
		}
		if recipient == uuid.Nil {
			return domain.ErrZeroAddressRecipient
		}
		if err = tx.Send(ctx, token, s.EngineAccount, recipient, amount); err != nil {
			return err
		}

		remaining = remaining.Sub(amount)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}

	return nil
}

// DisburseTokenNative distributes a pulled token total and attached native
// value across recipients as per-index pairs.
// Logic:
//  1. Require the gate to be active
//  2. Validate both amount lists against the recipients (combined limit)
//  3. Pull TotalAmount of the token and the attached Value from the caller
//  4. For each index, in order: check both running counters, reject the zero
//     account, send the token amount then the native amount
//  5. Commit
func (s *Service) DisburseTokenNative(ctx context.Context, input CombinedDisbursementInput) (err error) {
	defer func() { metrics.DisbursementsTotal.WithLabelValues("combined", metrics.Outcome(err)).Inc() }()

	if err = s.Gate.RequireActive(); err != nil {
		return err
	}

	if err = validator.ValidateCombinedBatch(input.Recipients, input.TokenAmounts, input.NativeAmounts, s.CombinedRecipientLimit); err != nil {
		return err
	}

	tx, err := s.Ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	token := domain.FungibleAsset(input.Token)
	native := domain.NativeAsset()

	if err = s.pullToken(ctx, tx, token, input.Caller, input.TotalAmount); err != nil {
		return err
	}

	if err = tx.Pull(ctx, native, input.Caller, s.EngineAccount, input.Value); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return domain.ErrInsufficientValue
		}
		return err
	}

	remainingToken := input.TotalAmount
	remainingValue := input.Value
	for i, recipient := range input.Recipients {
		tokenAmount := input.TokenAmounts[i]
		nativeAmount := input.NativeAmounts[i]

		if remainingToken.LessThan(tokenAmount) {
			return domain.ErrInsufficientAmount
		}
		if remainingValue.LessThan(nativeAmount) {
			return domain.ErrInsufficientValue
		}
		if recipient == uuid.Nil {
			return domain.ErrZeroAddressRecipient
		}

		if err = tx.Send(ctx, token, s.EngineAccount, recipient, tokenAmount); err != nil {
			return err
		}
		if err = tx.Send(ctx, native, s.EngineAccount, recipient, nativeAmount); err != nil {
			return err
		}

		remainingToken = remainingToken.Sub(tokenAmount)
		remainingValue = remainingValue.Sub(nativeAmount)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}

	return nil
}

// Receive accepts an unsolicited native deposit onto the engine account.
// It is available to any caller and ignores the pause gate: inbound value
// with no matching operation must never fail.
func (s *Service) Receive(ctx context.Context, from uuid.UUID, amount decimal.Decimal) error {
	tx, err := s.Ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Pull(ctx, domain.NativeAsset(), from, s.EngineAccount, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}

	metrics.DepositsTotal.Inc()

	return nil
}

// pullToken verifies the caller's allowance covers the declared total, then
// pulls the total onto the engine account. The explicit allowance check keeps
// the error contract stable: an undercovered total fails with
// ErrInsufficientAllowance before any pull is attempted.
func (s *Service) pullToken(ctx context.Context, tx domain.LedgerTx, token domain.Asset, caller uuid.UUID, totalAmount decimal.Decimal) error {
	allowance, err := tx.Allowance(ctx, token, caller, s.EngineAccount)
	if err != nil {
		return fmt.Errorf("failed to read allowance: %w", err)
	}

	if allowance.LessThan(totalAmount) {
		return domain.ErrInsufficientAllowance
	}

	return tx.Pull(ctx, token, caller, s.EngineAccount, totalAmount)
}
