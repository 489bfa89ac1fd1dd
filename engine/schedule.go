/*
schedule.go - Installment schedule generation

PURPOSE:
  Deterministically expands an ObligationSpec into a concrete, ordered list
  of installments. This is the single shared implementation behind every
  creation form (contract, material, equipment, miscellaneous expense).

MODES:
  lump_sum:     one installment of the full total
  installments: total split evenly, last installment absorbs the rounding
                residual so the sum is exact to the cent
  recurring:    the full total repeated per occurrence (no splitting)

DUE DATES:
  Installment i (1-based) is due at the first due date advanced by (i-1)
  steps: whole calendar months for monthly cadence, (i-1)*IntervalDays days
  for every_n_days. A FixedDueDay then overwrites the day-of-month, clamped
  to the last day of short months (day 31 in February yields Feb 28/29).

SEE ALSO:
  - types.go: ObligationSpec, Installment
  - errors.go: InvalidSpecError
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScheduleGenerator expands payment-mode configurations into installments.
// The zero value is ready to use; Now is overridable for tests.
type ScheduleGenerator struct {
	// Now supplies "today" when a spec carries no first due date.
	// Nil falls back to the wall clock.
	Now func() Date
}

// Generate produces the ordered installment sequence for spec.
// It validates first and never emits a partial schedule.
func (g ScheduleGenerator) Generate(spec ObligationSpec) ([]Installment, error) {
	if err := g.validate(spec); err != nil {
		return nil, err
	}

	first := spec.FirstDueDate
	if first.IsZero() {
		first = g.today()
	}

	switch spec.Mode {
	case ModeLumpSum:
		return []Installment{{
			Value:   spec.TotalValue,
			DueDate: pinDay(first, spec.FixedDueDay),
			Status:  StatusPending,
			Note:    "Lump-sum payment",
		}}, nil

	case ModeInstallments:
		n := spec.InstallmentCount
		share := spec.TotalValue.Div(decimal.NewFromInt(int64(n))).Round(2)
		installments := make([]Installment, n)
		for i := 1; i <= n; i++ {
			value := share
			if i == n {
				// Last installment absorbs the residual: sum stays exact.
				value = spec.TotalValue.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))
			}
			installments[i-1] = Installment{
				Value:   value,
				DueDate: g.dueDate(spec, first, i),
				Status:  StatusPending,
				Note:    fmt.Sprintf("Installment %d/%d", i, n),
			}
		}
		return installments, nil

	case ModeRecurring:
		n := spec.InstallmentCount
		installments := make([]Installment, n)
		for i := 1; i <= n; i++ {
			installments[i-1] = Installment{
				Value:   spec.TotalValue,
				DueDate: g.dueDate(spec, first, i),
				Status:  StatusPending,
				Note:    fmt.Sprintf("Installment %d/%d", i, n),
			}
		}
		return installments, nil

	default:
		return nil, invalidSpec("mode", fmt.Sprintf("unknown payment mode %q", spec.Mode))
	}
}

func (g ScheduleGenerator) validate(spec ObligationSpec) error {
	if !spec.TotalValue.IsPositive() {
		return invalidSpec("total_value", "must be positive")
	}
	if spec.Mode != ModeLumpSum && spec.InstallmentCount < 1 {
		return invalidSpec("installment_count", "must be at least 1")
	}
	if spec.Mode != ModeLumpSum {
		switch spec.Cadence {
		case CadenceMonthly:
		case CadenceEveryNDays:
			if spec.IntervalDays < 1 {
				return invalidSpec("interval_days", "must be at least 1")
			}
		default:
			return invalidSpec("cadence", fmt.Sprintf("unknown cadence %q", spec.Cadence))
		}
	}
	if spec.FixedDueDay != 0 && (spec.FixedDueDay < 1 || spec.FixedDueDay > 31) {
		return invalidSpec("fixed_due_day", "must be between 1 and 31")
	}
	return nil
}

// dueDate computes the due date of the i-th installment (1-based).
func (g ScheduleGenerator) dueDate(spec ObligationSpec, first Date, i int) Date {
	var due Date
	switch spec.Cadence {
	case CadenceEveryNDays:
		due = first.AddDays((i - 1) * spec.IntervalDays)
	default:
		due = first.AddMonths(i - 1)
	}
	return pinDay(due, spec.FixedDueDay)
}

func pinDay(d Date, day int) Date {
	if day == 0 {
		return d
	}
	return d.WithDay(day)
}

func (g ScheduleGenerator) today() Date {
	if g.Now != nil {
		return g.Now()
	}
	return Today()
}
