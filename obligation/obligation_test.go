package obligation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// DUE-DATE RESOLUTION
// =============================================================================

func TestResolveDueDate_FirstParseableWins(t *testing.T) {
	cases := []struct {
		name    string
		due     string
		payment string
		start   string
		want    string
		ok      bool
	}{
		{"explicit due date wins", "2024-06-01", "2024-05-01", "2024-04-01", "2024-06-01", true},
		{"payment date when due empty", "", "2024-05-01", "2024-04-01", "2024-05-01", true},
		{"start date as last resort", "", "", "2024-04-01", "2024-04-01", true},
		{"malformed due date skipped", "junk", "2024-05-01", "", "2024-05-01", true},
		{"nothing resolvable", "junk", "", "", "", false},
		{"all empty", "", "", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := obligation.Obligation{DueDate: tc.due, PaymentDate: tc.payment, StartDate: tc.start}
			got, ok := o.ResolveDueDate()
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// =============================================================================
// SUMMARY AND AGENDA CONVERSION
// =============================================================================

func TestSummary_UsesSharedReconciler(t *testing.T) {
	// GIVEN: An obligation paid to within the tolerance
	// WHEN: Summarizing
	// THEN: Settled with the full total displayed, same as engine.Reconcile

	o := obligation.Obligation{
		TotalValue: money("1000"),
		Payments: []engine.Payment{
			{Value: money("995"), Date: engine.NewDate(2024, time.May, 2)},
		},
	}

	summary := o.Summary()
	if summary.Status != engine.Settled {
		t.Fatalf("expected settled, got %s", summary.Status)
	}
	if !summary.PaidAmount.Equal(money("1000")) {
		t.Errorf("expected displayed paid 1000, got %v", summary.PaidAmount)
	}
}

func TestAgendaItem_SettledFlagFromReconciliation(t *testing.T) {
	// A manual settled override must flow into the agenda item so triage
	// filters it out of the due buckets.

	o := obligation.Obligation{
		ID:         "ob-1",
		Kind:       obligation.KindContract,
		TotalValue: money("5000"),
		Settled:    true,
		DueDate:    "2024-06-20",
	}

	it := o.AgendaItem()
	if !it.Settled {
		t.Error("expected settled agenda item")
	}
	if it.DueDate.String() != "2024-06-20" {
		t.Errorf("expected due 2024-06-20, got %s", it.DueDate)
	}
	if it.Kind != "contract" {
		t.Errorf("expected kind contract, got %s", it.Kind)
	}
}

func TestAgendaItem_UnresolvableDueDateIsZero(t *testing.T) {
	o := obligation.Obligation{ID: "ob-2", Kind: obligation.KindOther, TotalValue: money("10")}
	if it := o.AgendaItem(); !it.DueDate.IsZero() {
		t.Errorf("expected zero due date, got %s", it.DueDate)
	}
}

// =============================================================================
// FORM ADAPTERS
// =============================================================================

func TestForms_MapOntoSharedSpec(t *testing.T) {
	gen := engine.ScheduleGenerator{Now: func() engine.Date { return engine.NewDate(2024, time.June, 10) }}
	first := engine.NewDate(2024, time.July, 5)

	t.Run("contract splits monthly", func(t *testing.T) {
		spec := obligation.ContractForm{
			ContractValue:    money("12000"),
			InstallmentCount: 12,
			FirstDueDate:     first,
			FixedDueDay:      5,
		}.ToSpec()

		installments, err := gen.Generate(spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(installments) != 12 {
			t.Fatalf("expected 12 installments, got %d", len(installments))
		}
		if !installments[0].Value.Equal(money("1000")) {
			t.Errorf("expected 1000 per installment, got %v", installments[0].Value)
		}
	})

	t.Run("material defaults to lump sum", func(t *testing.T) {
		spec := obligation.MaterialForm{PurchaseTotal: money("850.40"), FirstDueDate: first}.ToSpec()
		installments, err := gen.Generate(spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(installments) != 1 || !installments[0].Value.Equal(money("850.40")) {
			t.Errorf("expected single full-value installment, got %v", installments)
		}
	})

	t.Run("material with supplier terms uses day interval", func(t *testing.T) {
		spec := obligation.MaterialForm{
			PurchaseTotal:    money("900"),
			InstallmentCount: 3,
			IntervalDays:     30,
			FirstDueDate:     first,
		}.ToSpec()

		installments, err := gen.Generate(spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if installments[1].DueDate.String() != "2024-08-04" {
			t.Errorf("expected 30-day step, got %s", installments[1].DueDate)
		}
	})

	t.Run("equipment repeats the monthly rate", func(t *testing.T) {
		spec := obligation.EquipmentForm{MonthlyRate: money("2200"), Months: 3, FirstDueDate: first}.ToSpec()
		installments, err := gen.Generate(spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, inst := range installments {
			if !inst.Value.Equal(money("2200")) {
				t.Errorf("expected full rate per occurrence, got %v", inst.Value)
			}
		}
	})

	t.Run("misc expense is a single payment", func(t *testing.T) {
		spec := obligation.MiscExpenseForm{Amount: money("75"), DueDate: first}.ToSpec()
		installments, err := gen.Generate(spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(installments) != 1 || installments[0].Note != "Lump-sum payment" {
			t.Errorf("expected one lump-sum installment, got %v", installments)
		}
	})

	t.Run("identical money and mode inputs give identical schedules", func(t *testing.T) {
		// Two different forms that reduce to the same spec must produce
		// the same schedule: the engine is the single source of truth.
		a := obligation.MiscExpenseForm{Amount: money("75"), DueDate: first}.ToSpec()
		b := obligation.MaterialForm{PurchaseTotal: money("75"), FirstDueDate: first}.ToSpec()

		ia, err := gen.Generate(a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ib, err := gen.Generate(b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ia[0].Value.Equal(ib[0].Value) || !ia[0].DueDate.Equal(ib[0].DueDate) {
			t.Error("forms with identical inputs diverged")
		}
	})
}

func TestKind_Known(t *testing.T) {
	if !obligation.KindMaterial.Known() {
		t.Error("material should be known")
	}
	if obligation.Kind("pto").Known() {
		t.Error("unknown kind accepted")
	}
}
