package gate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/paydrop/paydrop-backend/internal/domain"
)

// Gate owns the administrator identity and the pause flag that guards all
// value-moving operations. The owner is fixed at construction; there is no
// ownership-transfer operation.
type Gate struct {
	mu     sync.RWMutex
	owner  uuid.UUID
	paused bool
}

// New creates a Gate owned by the given account, initially active (not paused)
func New(owner uuid.UUID) *Gate {
	return &Gate{owner: owner}
}

// Owner returns the owner account
func (g *Gate) Owner() uuid.UUID {
	return g.owner
}

// Paused reports whether disbursements are currently paused
func (g *Gate) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Pause disables disbursements. Only the owner may call it; pausing an
// already paused gate succeeds as a no-op.
func (g *Gate) Pause(caller uuid.UUID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true

	return nil
}

// Resume re-enables disbursements. Only the owner may call it.
func (g *Gate) Resume(caller uuid.UUID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = false

	return nil
}

// RequireActive fails with ErrPaused while the gate is paused. Every
// value-moving operation calls this before touching funds; administrative
// operations (pause, resume, sweep) bypass it.
func (g *Gate) RequireActive() error {
	if g.Paused() {
		return domain.ErrPaused
	}
	return nil
}

// RequireOwner fails with ErrNotOwner unless the caller is the owner
func (g *Gate) RequireOwner(caller uuid.UUID) error {
	if caller != g.owner {
		return domain.ErrNotOwner
	}
	return nil
}
