// Package obligation models the financial commitments of a construction
// project (obra): contracts, material purchases, equipment rentals, labor
// and miscellaneous expenses. It adapts persisted obligations onto the
// shared schedule engine.
package obligation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
)

// =============================================================================
// OBLIGATION KINDS
// =============================================================================

// Kind tags an obligation with its expense category. The agenda groups
// bucket subtotals by Kind.
type Kind string

const (
	KindMaterial  Kind = "material"
	KindLabor     Kind = "labor"
	KindEquipment Kind = "equipment"
	KindContract  Kind = "contract"
	KindOther     Kind = "other"
)

// Known reports whether k is one of the recognized kinds.
func (k Kind) Known() bool {
	switch k {
	case KindMaterial, KindLabor, KindEquipment, KindContract, KindOther:
		return true
	}
	return false
}

// =============================================================================
// OBRA - Construction project aggregate
// =============================================================================

type Obra struct {
	ID        string
	Name      string
	Client    string
	Address   string
	StartDate string // ISO date as captured by the form, may be empty
	CreatedAt time.Time
}

// =============================================================================
// OBLIGATION
// =============================================================================

// Obligation is a financial commitment belonging to an obra. Date fields
// hold the raw ISO strings captured by forms; resolution to an engine
// date happens at read time (ResolveDueDate), never at persist time.
type Obligation struct {
	ID          string
	ObraID      string
	Kind        Kind
	Description string
	Supplier    string
	TotalValue  decimal.Decimal

	// Manual settled override. Wins over the payment-sum threshold.
	Settled bool

	// Due-date sources, first parseable wins: explicit due date, then
	// payment date, then start date.
	DueDate     string
	PaymentDate string
	StartDate   string

	Installments []engine.Installment
	Payments     []engine.Payment

	CreatedAt time.Time
}

// ResolveDueDate returns the obligation's effective due date, or ok=false
// when none of the date fields parses. Callers surface the latter as a
// data-quality issue rather than defaulting to a bucket.
func (o *Obligation) ResolveDueDate() (engine.Date, bool) {
	for _, raw := range []string{o.DueDate, o.PaymentDate, o.StartDate} {
		if raw == "" {
			continue
		}
		if d, err := engine.ParseDate(raw); err == nil {
			return d, true
		}
	}
	return engine.Date{}, false
}

// Summary reconciles the obligation's payments against its total. Every
// view rendering a paid amount, remaining balance, or status badge must
// use this instead of re-deriving the threshold locally.
func (o *Obligation) Summary() engine.Settlement {
	return engine.Reconcile(o.TotalValue, o.Payments, o.Settled)
}

// AgendaItem converts the obligation for due-date triage. The reconciled
// status feeds the triage's settled filter.
func (o *Obligation) AgendaItem() engine.AgendaItem {
	due, _ := o.ResolveDueDate() // zero Date = unresolved, triage excludes it
	return engine.AgendaItem{
		ID:          o.ID,
		Kind:        string(o.Kind),
		Description: o.Description,
		Value:       o.TotalValue,
		DueDate:     due,
		Settled:     o.Summary().Status == engine.Settled,
	}
}

// AgendaItems converts a collection for the agenda view.
func AgendaItems(obligations []Obligation) []engine.AgendaItem {
	items := make([]engine.AgendaItem, len(obligations))
	for i := range obligations {
		items[i] = obligations[i].AgendaItem()
	}
	return items
}
