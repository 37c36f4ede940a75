package sweep

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/paydrop/paydrop-backend/internal/domain"
	"github.com/paydrop/paydrop-backend/internal/metrics"
	"github.com/paydrop/paydrop-backend/internal/usecase/gate"
)

// Service withdraws balances incidentally held by the engine account:
// surplus from over-declared token totals, leftover attached value, and
// unsolicited deposits. Owner-only, available regardless of pause state.
type Service struct {
	Gate          *gate.Gate
	Ledger        domain.AssetLedger
	EngineAccount uuid.UUID
}

// NewService creates a new sweep Service instance
func NewService(g *gate.Gate, ledger domain.AssetLedger, engineAccount uuid.UUID) *Service {
	return &Service{
		Gate:          g,
		Ledger:        ledger,
		EngineAccount: engineAccount,
	}
}

// Claim pushes the engine's entire balance of the asset to the owner.
// Claiming a zero balance succeeds and changes nothing.
func (s *Service) Claim(ctx context.Context, caller uuid.UUID, asset domain.Asset) (err error) {
	defer func() { metrics.SweepsTotal.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if err = s.Gate.RequireOwner(caller); err != nil {
		return err
	}

	tx, err := s.Ledger.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := tx.Balance(ctx, asset, s.EngineAccount)
	if err != nil {
		return fmt.Errorf("failed to read engine balance: %w", err)
	}

	if balance.IsZero() {
		return nil
	}

	if err = tx.Send(ctx, asset, s.EngineAccount, s.Gate.Owner(), balance); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}

	return nil
}
