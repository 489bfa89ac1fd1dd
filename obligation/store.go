/*
store.go - Persistence interfaces for obras and obligations

PURPOSE:
  Defines the storage contract the HTTP layer depends on. Implementations:
  - store/memory.go:          In-memory (tests/dev)
  - store/sqlite (top level): SQLite (production)

  The engine itself never sees these interfaces; storage is a collaborator
  of the surrounding system only.
*/
package obligation

import (
	"context"
	"errors"

	"github.com/construtech/obratrack/engine"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrObraNotFound       = errors.New("obra not found")
	ErrObligationNotFound = errors.New("obligation not found")
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists obras, obligations, and their installments and payments.
type Store interface {
	CreateObra(ctx context.Context, o Obra) error
	GetObra(ctx context.Context, id string) (*Obra, error)
	ListObras(ctx context.Context) ([]Obra, error)
	DeleteObra(ctx context.Context, id string) error

	CreateObligation(ctx context.Context, o Obligation) error
	GetObligation(ctx context.Context, id string) (*Obligation, error)
	UpdateObligation(ctx context.Context, o Obligation) error
	DeleteObligation(ctx context.Context, id string) error

	// ListObligations returns the obligations of one obra; ListAllObligations
	// feeds the cross-obra payments agenda.
	ListObligations(ctx context.Context, obraID string) ([]Obligation, error)
	ListAllObligations(ctx context.Context) ([]Obligation, error)

	// ReplaceInstallments swaps an obligation's schedule wholesale, used
	// when payment terms are edited and the schedule is regenerated.
	ReplaceInstallments(ctx context.Context, obligationID string, installments []engine.Installment) error

	// AddPayment records one payment against an obligation.
	AddPayment(ctx context.Context, obligationID string, p engine.Payment) error

	// MarkOverdueInstallments flips pending installments whose due date is
	// strictly before asOf to overdue, returning how many changed. The
	// agenda derives urgency from dates at read time regardless; this keeps
	// the persisted rows honest for direct consumers.
	MarkOverdueInstallments(ctx context.Context, asOf engine.Date) (int, error)

	// Reset drops all data. Demo scenario loading only.
	Reset(ctx context.Context) error
}
