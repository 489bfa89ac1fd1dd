/*
Package engine provides the core payment-schedule engine.

PURPOSE:
  This package contains the computational rules shared by every obligation
  kind in the system (contracts, material purchases, equipment rentals,
  miscellaneous expenses): expanding a payment-mode configuration into dated
  installments, reconciling recorded payments against a declared total, and
  bucketing obligations by urgency for the payments agenda.

KEY CONCEPTS:
  - ObligationSpec: Payment-mode configuration collected by a creation form
  - Installment: One scheduled payment instance (value, due date, status)
  - Payment: One recorded payment against an obligation
  - Settlement: Reconciled paid amount + status for display
  - Agenda: Obligations triaged into due-date buckets

DESIGN PRINCIPLES:
  1. Purity: Every function is deterministic over its explicit inputs.
     The only wall-clock read is the fallback when no reference date is
     supplied, and it is injectable.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
     The sum of split installments equals the total to the cent.
  3. No collaborators: The engine receives plain data and returns plain
     data. Persistence, HTTP, and currency formatting live elsewhere.

SEE ALSO:
  - schedule.go: Installment generation
  - reconcile.go: Paid-amount and status derivation
  - triage.go:    Agenda bucketing
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT MODE - How an obligation's total is scheduled
// =============================================================================

type PaymentMode string

const (
	// ModeLumpSum emits a single installment equal to the total value.
	ModeLumpSum PaymentMode = "lump_sum"

	// ModeInstallments splits the total value evenly across N installments.
	ModeInstallments PaymentMode = "installments"

	// ModeRecurring repeats the full total value N times (rent-like charges).
	ModeRecurring PaymentMode = "recurring"
)

// Cadence is the spacing rule between successive installments.
type Cadence string

const (
	CadenceMonthly    Cadence = "monthly"
	CadenceEveryNDays Cadence = "every_n_days"
)

// =============================================================================
// OBLIGATION SPEC - Input to schedule generation
// =============================================================================

// ObligationSpec is the payment-mode configuration for one obligation.
// Creation forms build it transiently and discard it once installments
// are generated.
type ObligationSpec struct {
	TotalValue decimal.Decimal
	Mode       PaymentMode

	// Required for installments and recurring modes.
	InstallmentCount int

	// Cadence between installments; IntervalDays is required (>= 1)
	// when Cadence is every_n_days.
	Cadence      Cadence
	IntervalDays int

	// Due date of the first installment. Zero value means "today".
	FirstDueDate Date

	// FixedDueDay pins every due date to this day-of-month (1-31).
	// Zero means unpinned.
	FixedDueDay int
}

// =============================================================================
// INSTALLMENT - One scheduled payment instance
// =============================================================================

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusPaid       PaymentStatus = "paid"
	StatusOverdue    PaymentStatus = "overdue"
	StatusCancelled  PaymentStatus = "cancelled"
	StatusInProgress PaymentStatus = "in_progress"
)

type Installment struct {
	Value   decimal.Decimal
	DueDate Date
	Status  PaymentStatus
	Note    string
}

// SumInstallments totals an installment list. For any generated schedule
// this equals the configured total value to the cent.
func SumInstallments(installments []Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Value)
	}
	return sum
}

// =============================================================================
// PAYMENT - One recorded payment against an obligation
// =============================================================================

type Payment struct {
	Value decimal.Decimal
	Date  Date
}

// SumPayments totals a payment list. Nil or empty lists sum to zero.
func SumPayments(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Value)
	}
	return sum
}
