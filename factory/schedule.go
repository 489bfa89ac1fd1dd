/*
Package factory converts JSON payment-term configurations into engine specs.

PURPOSE:
  Creation forms submit their payment terms as JSON. The factory validates
  the shape, applies defaults, and produces the engine.ObligationSpec that
  drives schedule generation. This keeps the JSON contract in one place -
  handlers and stored form payloads share it.

JSON SCHEMA:
  {
    "total_value": 1200.50,
    "payment_mode": "installments",     // lump_sum | installments | recurring
    "installment_count": 3,
    "cadence": "monthly",               // monthly | every_n_days
    "interval_days": 30,
    "first_due_date": "2024-07-01",     // optional, defaults to today
    "fixed_due_day": 10                 // optional, pins day-of-month
  }

DEFAULTS:
  payment_mode: lump_sum
  cadence:      monthly

SEE ALSO:
  - engine/schedule.go: Validation and generation rules
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of payment terms.
type ScheduleJSON struct {
	TotalValue       float64 `json:"total_value"`
	PaymentMode      string  `json:"payment_mode,omitempty"`
	InstallmentCount int     `json:"installment_count,omitempty"`
	Cadence          string  `json:"cadence,omitempty"`
	IntervalDays     int     `json:"interval_days,omitempty"`
	FirstDueDate     string  `json:"first_due_date,omitempty"`
	FixedDueDay      int     `json:"fixed_due_day,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// ParseSchedule converts a JSON document into an ObligationSpec.
func ParseSchedule(raw []byte) (engine.ObligationSpec, error) {
	var j ScheduleJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return engine.ObligationSpec{}, fmt.Errorf("parse schedule config: %w", err)
	}
	return ToSpec(j)
}

// ToSpec converts an already-decoded ScheduleJSON into an ObligationSpec,
// applying defaults. Value validation stays in the engine; only shape
// problems (an unparseable date) are rejected here.
func ToSpec(j ScheduleJSON) (engine.ObligationSpec, error) {
	spec := engine.ObligationSpec{
		TotalValue:       decimal.NewFromFloat(j.TotalValue),
		Mode:             engine.PaymentMode(j.PaymentMode),
		InstallmentCount: j.InstallmentCount,
		Cadence:          engine.Cadence(j.Cadence),
		IntervalDays:     j.IntervalDays,
		FixedDueDay:      j.FixedDueDay,
	}

	if spec.Mode == "" {
		spec.Mode = engine.ModeLumpSum
	}
	if spec.Cadence == "" {
		spec.Cadence = engine.CadenceMonthly
	}

	if j.FirstDueDate != "" {
		d, err := engine.ParseDate(j.FirstDueDate)
		if err != nil {
			return engine.ObligationSpec{}, &engine.InvalidSpecError{
				Field:  "first_due_date",
				Reason: fmt.Sprintf("not an ISO date: %q", j.FirstDueDate),
			}
		}
		spec.FirstDueDate = d
	}

	return spec, nil
}
