package engine_test

import (
	"testing"
	"time"

	"github.com/construtech/obratrack/engine"
)

func item(id, kind, value string, due engine.Date) engine.AgendaItem {
	return engine.AgendaItem{ID: id, Kind: kind, Value: money(value), DueDate: due}
}

func bucketIDs(b engine.Bucket) []string {
	ids := make([]string, len(b.Items))
	for i, it := range b.Items {
		ids[i] = it.ID
	}
	return ids
}

// =============================================================================
// BUCKET BOUNDARIES
// =============================================================================

func TestTriage_BucketBoundaries(t *testing.T) {
	// Reference 2024-06-10. Due today and due in exactly 7 days are "this
	// week"; 8-14 days is "next week"; yesterday is overdue; more than 7
	// days past moves to history.

	today := engine.NewDate(2024, time.June, 10)
	cases := []struct {
		name   string
		due    engine.Date
		bucket func(engine.Agenda) engine.Bucket
	}{
		{"due today is this week", engine.NewDate(2024, time.June, 10),
			func(a engine.Agenda) engine.Bucket { return a.DueThisWeek }},
		{"due in 7 days is this week", engine.NewDate(2024, time.June, 17),
			func(a engine.Agenda) engine.Bucket { return a.DueThisWeek }},
		{"due in 8 days is next week", engine.NewDate(2024, time.June, 18),
			func(a engine.Agenda) engine.Bucket { return a.DueNextWeek }},
		{"due in 14 days is next week", engine.NewDate(2024, time.June, 24),
			func(a engine.Agenda) engine.Bucket { return a.DueNextWeek }},
		{"due in 15 days is later", engine.NewDate(2024, time.June, 25),
			func(a engine.Agenda) engine.Bucket { return a.DueLater }},
		{"due yesterday is overdue", engine.NewDate(2024, time.June, 9),
			func(a engine.Agenda) engine.Bucket { return a.Overdue }},
		{"due 7 days ago is still overdue", engine.NewDate(2024, time.June, 3),
			func(a engine.Agenda) engine.Bucket { return a.Overdue }},
		{"due 8 days ago is history", engine.NewDate(2024, time.June, 2),
			func(a engine.Agenda) engine.Bucket { return a.History }},
		{"due weeks ago is history", engine.NewDate(2024, time.May, 20),
			func(a engine.Agenda) engine.Bucket { return a.History }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agenda := engine.Triage(today, []engine.AgendaItem{item("x", "material", "100", tc.due)})
			got := tc.bucket(agenda)
			if got.Count != 1 {
				t.Fatalf("expected item in bucket, count %d", got.Count)
			}
			total := agenda.Overdue.Count + agenda.DueThisWeek.Count +
				agenda.DueNextWeek.Count + agenda.DueLater.Count + agenda.History.Count
			if total != 1 {
				t.Errorf("buckets not disjoint: %d placements", total)
			}
		})
	}
}

func TestTriage_SettledExcludedFromDueBuckets(t *testing.T) {
	// GIVEN: A settled obligation due tomorrow and another long past
	// WHEN: Triaging
	// THEN: The upcoming one appears nowhere; the old one still lands in
	//       history (past-weeks panel shows settled items too)

	today := engine.NewDate(2024, time.June, 10)
	settled := item("s1", "contract", "900", engine.NewDate(2024, time.June, 11))
	settled.Settled = true
	old := item("s2", "contract", "400", engine.NewDate(2024, time.April, 1))
	old.Settled = true

	agenda := engine.Triage(today, []engine.AgendaItem{settled, old})

	if agenda.DueThisWeek.Count != 0 || agenda.Overdue.Count != 0 {
		t.Errorf("settled item leaked into due buckets")
	}
	if agenda.History.Count != 1 {
		t.Errorf("expected settled old item in history, count %d", agenda.History.Count)
	}
}

func TestTriage_UnresolvableDueDateExcluded(t *testing.T) {
	// Items without a parseable due date go to the data-quality list, not
	// to any bucket.

	today := engine.NewDate(2024, time.June, 10)
	agenda := engine.Triage(today, []engine.AgendaItem{
		item("ok", "labor", "50", engine.NewDate(2024, time.June, 12)),
		{ID: "bad", Kind: "labor", Value: money("75")}, // zero due date
	})

	if len(agenda.Unresolved) != 1 || agenda.Unresolved[0].ID != "bad" {
		t.Fatalf("expected one unresolved item, got %v", agenda.Unresolved)
	}
	if agenda.DueThisWeek.Count != 1 {
		t.Errorf("resolvable item should still be bucketed")
	}
}

// =============================================================================
// SUBTOTALS AND GROUPING
// =============================================================================

func TestTriage_BucketTotalsAndKindGroups(t *testing.T) {
	// GIVEN: Three upcoming obligations across two kinds
	// WHEN: Triaging
	// THEN: The bucket totals all three, ordered by due date, with per-kind
	//       subtotals

	today := engine.NewDate(2024, time.June, 10)
	agenda := engine.Triage(today, []engine.AgendaItem{
		item("b", "material", "200.50", engine.NewDate(2024, time.June, 13)),
		item("a", "equipment", "1000", engine.NewDate(2024, time.June, 11)),
		item("c", "material", "99.50", engine.NewDate(2024, time.June, 15)),
	})

	bucket := agenda.DueThisWeek
	if bucket.Count != 3 {
		t.Fatalf("expected 3 items, got %d", bucket.Count)
	}
	if !bucket.Total.Equal(money("1300")) {
		t.Errorf("expected total 1300, got %v", bucket.Total)
	}

	gotOrder := bucketIDs(bucket)
	wantOrder := []string{"a", "b", "c"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Errorf("expected order %v, got %v", wantOrder, gotOrder)
			break
		}
	}

	if len(bucket.ByKind) != 2 {
		t.Fatalf("expected 2 kind groups, got %d", len(bucket.ByKind))
	}
	// Kind groups sort alphabetically.
	if bucket.ByKind[0].Kind != "equipment" || !bucket.ByKind[0].Total.Equal(money("1000")) {
		t.Errorf("unexpected equipment subtotal: %+v", bucket.ByKind[0])
	}
	if bucket.ByKind[1].Kind != "material" || bucket.ByKind[1].Count != 2 ||
		!bucket.ByKind[1].Total.Equal(money("300")) {
		t.Errorf("unexpected material subtotal: %+v", bucket.ByKind[1])
	}
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestTriage_Idempotent(t *testing.T) {
	today := engine.NewDate(2024, time.June, 10)
	items := []engine.AgendaItem{
		item("1", "material", "10", engine.NewDate(2024, time.June, 9)),
		item("2", "contract", "20", engine.NewDate(2024, time.June, 20)),
		item("3", "other", "30", engine.NewDate(2024, time.May, 1)),
	}

	first := engine.Triage(today, items)
	second := engine.Triage(today, items)

	for name, pair := range map[string][2]engine.Bucket{
		"overdue":  {first.Overdue, second.Overdue},
		"thisWeek": {first.DueThisWeek, second.DueThisWeek},
		"nextWeek": {first.DueNextWeek, second.DueNextWeek},
		"later":    {first.DueLater, second.DueLater},
		"history":  {first.History, second.History},
	} {
		if pair[0].Count != pair[1].Count || !pair[0].Total.Equal(pair[1].Total) {
			t.Errorf("bucket %s differs between runs", name)
		}
	}
}
