/*
reconcile.go - Paid-amount and status reconciliation

PURPOSE:
  Derives a single consistent "paid amount" and status from an obligation's
  declared total, its recorded payments, and an optional manual settled
  override. Every view that shows a paid amount, a remaining balance, or a
  status badge must go through Reconcile so list totals and per-item badges
  never disagree.

RULE (priority order):
  1. Manual override set            -> settled
  2. payments/total >= 99% (total>0)-> settled (tolerance absorbs rounding
                                       noise from split installments)
  3. Otherwise                      -> pending

  When settled, the displayed paid amount is the full total so a
  nearly-complete payment set shows no residual balance. Remaining is
  clamped at zero; overpayment never surfaces as negative debt.
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// EffectiveStatus is the reconciled status of an obligation.
type EffectiveStatus string

const (
	Settled EffectiveStatus = "settled"
	Pending EffectiveStatus = "pending"
)

// settlementTolerance: payments covering at least this fraction of the
// total count as full settlement.
var settlementTolerance = decimal.RequireFromString("0.99")

// Settlement is the display-ready reconciliation result.
type Settlement struct {
	Status     EffectiveStatus
	PaidAmount decimal.Decimal
	Remaining  decimal.Decimal
}

// Reconcile derives the settlement for one obligation. Deterministic, no
// I/O; nil payment lists are treated as zero paid.
func Reconcile(totalValue decimal.Decimal, payments []Payment, settledOverride bool) Settlement {
	paid := SumPayments(payments)

	status := Pending
	switch {
	case settledOverride:
		status = Settled
	case totalValue.IsPositive() && paid.GreaterThanOrEqual(totalValue.Mul(settlementTolerance)):
		status = Settled
	}

	displayed := paid
	if status == Settled {
		displayed = totalValue
	}

	remaining := totalValue.Sub(displayed)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Settlement{Status: status, PaidAmount: displayed, Remaining: remaining}
}
