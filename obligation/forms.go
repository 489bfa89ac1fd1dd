/*
forms.go - Creation-form adapters onto the shared schedule engine

PURPOSE:
  Each creation form (contract, material purchase, equipment rental,
  miscellaneous expense) historically carried its own copy of the
  installment logic. Here every form is a thin adapter: it maps its field
  set onto one shared engine.ObligationSpec and defers all date and
  rounding rules to the engine.

FORM DEFAULTS:
  ContractForm:     split into installments, monthly cadence
  MaterialForm:     lump sum unless an installment count is given
  EquipmentForm:    recurring (rent-like), monthly cadence
  MiscExpenseForm:  lump sum

SEE ALSO:
  - engine/schedule.go: The shared generation rules
*/
package obligation

import (
	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
)

// ContractForm captures the payment terms of a service contract.
type ContractForm struct {
	ContractValue    decimal.Decimal
	InstallmentCount int
	FirstDueDate     engine.Date
	FixedDueDay      int
}

func (f ContractForm) ToSpec() engine.ObligationSpec {
	return engine.ObligationSpec{
		TotalValue:       f.ContractValue,
		Mode:             engine.ModeInstallments,
		InstallmentCount: f.InstallmentCount,
		Cadence:          engine.CadenceMonthly,
		FirstDueDate:     f.FirstDueDate,
		FixedDueDay:      f.FixedDueDay,
	}
}

// MaterialForm captures a material purchase: paid at once, or split when
// the supplier offers terms ("3x every 30 days").
type MaterialForm struct {
	PurchaseTotal    decimal.Decimal
	InstallmentCount int // 0 or 1 = single payment
	IntervalDays     int // 0 = monthly cadence
	FirstDueDate     engine.Date
}

func (f MaterialForm) ToSpec() engine.ObligationSpec {
	spec := engine.ObligationSpec{
		TotalValue:   f.PurchaseTotal,
		Mode:         engine.ModeLumpSum,
		FirstDueDate: f.FirstDueDate,
	}
	if f.InstallmentCount > 1 {
		spec.Mode = engine.ModeInstallments
		spec.InstallmentCount = f.InstallmentCount
		spec.Cadence = engine.CadenceMonthly
		if f.IntervalDays > 0 {
			spec.Cadence = engine.CadenceEveryNDays
			spec.IntervalDays = f.IntervalDays
		}
	}
	return spec
}

// EquipmentForm captures an equipment rental billed per period: the
// monthly rate repeats for the rental duration, it is never split.
type EquipmentForm struct {
	MonthlyRate  decimal.Decimal
	Months       int
	FirstDueDate engine.Date
	FixedDueDay  int
}

func (f EquipmentForm) ToSpec() engine.ObligationSpec {
	return engine.ObligationSpec{
		TotalValue:       f.MonthlyRate,
		Mode:             engine.ModeRecurring,
		InstallmentCount: f.Months,
		Cadence:          engine.CadenceMonthly,
		FirstDueDate:     f.FirstDueDate,
		FixedDueDay:      f.FixedDueDay,
	}
}

// MiscExpenseForm captures a one-off expense.
type MiscExpenseForm struct {
	Amount  decimal.Decimal
	DueDate engine.Date
}

func (f MiscExpenseForm) ToSpec() engine.ObligationSpec {
	return engine.ObligationSpec{
		TotalValue:   f.Amount,
		Mode:         engine.ModeLumpSum,
		FirstDueDate: f.DueDate,
	}
}
