/*
triage.go - Due-date triage for the payments agenda

PURPOSE:
  Partitions obligations into time-to-due buckets relative to a reference
  date, with per-bucket and per-kind subtotals, for the agenda view.

BUCKETS (days = floor((due - today) / 1 day), both at midnight):
  overdue:       -7 <= days < 0, not settled
  due this week: 0 <= days <= 7, not settled (due today is NOT overdue)
  due next week: 8 <= days <= 14, not settled
  due later:     days > 14, not settled
  history:       days < -7 regardless of status (collapsible "past weeks"
                 panel; items 1-7 days overdue stay in the primary
                 overdue bucket only)

  Items with no resolvable due date land in no bucket; they are reported
  separately as data-quality issues. Triage never fails.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGENDA ITEM - Triage input
// =============================================================================

// AgendaItem is one obligation as seen by the agenda: its resolved due
// date, reconciled status, and the fields the grouped tables render.
type AgendaItem struct {
	ID          string
	Kind        string
	Description string
	Value       decimal.Decimal
	DueDate     Date // zero = no resolvable due date
	Settled     bool
}

// =============================================================================
// BUCKETS
// =============================================================================

// KindSubtotal is the per-kind line of a bucket's grouped table.
type KindSubtotal struct {
	Kind  string
	Count int
	Total decimal.Decimal
}

// Bucket is one agenda section: its items (ordered by due date), the
// section total, and the per-kind breakdown.
type Bucket struct {
	Items  []AgendaItem
	Count  int
	Total  decimal.Decimal
	ByKind []KindSubtotal
}

// Agenda is the fully triaged view of an obligation collection.
type Agenda struct {
	Today       Date
	Overdue     Bucket
	DueThisWeek Bucket
	DueNextWeek Bucket
	DueLater    Bucket

	// History holds everything due more than a week ago, settled or not.
	History Bucket

	// Unresolved lists items excluded for lack of a parseable due date.
	Unresolved []AgendaItem
}

// Triage buckets items relative to today. Today is normalized to midnight
// by the Date type; same inputs always produce the same agenda.
func Triage(today Date, items []AgendaItem) Agenda {
	if today.IsZero() {
		today = Today()
	}

	agenda := Agenda{Today: today}
	for _, item := range items {
		if item.DueDate.IsZero() {
			agenda.Unresolved = append(agenda.Unresolved, item)
			continue
		}

		days := DaysBetween(today, item.DueDate)
		if days < -7 {
			// Past-weeks panel. Items 1-7 days overdue stay in the primary
			// overdue bucket instead of disappearing into history.
			agenda.History.add(item)
			continue
		}
		if item.Settled {
			continue
		}

		switch {
		case days < 0:
			agenda.Overdue.add(item)
		case days <= 7:
			agenda.DueThisWeek.add(item)
		case days <= 14:
			agenda.DueNextWeek.add(item)
		default:
			agenda.DueLater.add(item)
		}
	}

	for _, b := range []*Bucket{
		&agenda.Overdue, &agenda.DueThisWeek, &agenda.DueNextWeek,
		&agenda.DueLater, &agenda.History,
	} {
		b.finalize()
	}
	return agenda
}

func (b *Bucket) add(item AgendaItem) {
	b.Items = append(b.Items, item)
}

// finalize orders the bucket and computes its count, total, and per-kind
// subtotals.
func (b *Bucket) finalize() {
	sort.SliceStable(b.Items, func(i, j int) bool {
		return b.Items[i].DueDate.Before(b.Items[j].DueDate)
	})

	b.Count = len(b.Items)
	b.Total = decimal.Zero

	byKind := make(map[string]*KindSubtotal)
	for _, item := range b.Items {
		b.Total = b.Total.Add(item.Value)
		sub, ok := byKind[item.Kind]
		if !ok {
			sub = &KindSubtotal{Kind: item.Kind, Total: decimal.Zero}
			byKind[item.Kind] = sub
		}
		sub.Count++
		sub.Total = sub.Total.Add(item.Value)
	}

	b.ByKind = b.ByKind[:0]
	for _, sub := range byKind {
		b.ByKind = append(b.ByKind, *sub)
	}
	sort.Slice(b.ByKind, func(i, j int) bool { return b.ByKind[i].Kind < b.ByKind[j].Kind })
}
