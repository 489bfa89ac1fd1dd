/*
scenarios_test.go - Tests for demo scenario loading and the overdue sweep
*/
package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
	"github.com/construtech/obratrack/obligation/store"
)

// =============================================================================
// SCENARIO LOADING
// =============================================================================

func TestLoadScenario_UnknownIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "payroll"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoadScenario_ResetsExistingData(t *testing.T) {
	// GIVEN: A store already holding an obra
	// WHEN: Loading any scenario
	// THEN: The previous data is gone, only scenario data remains

	srv, mem := newTestServer(t)
	seedObra(t, mem)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "new-obra"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	obras, err := mem.ListObras(context.Background())
	require.NoError(t, err)
	require.Len(t, obras, 1)
	assert.Equal(t, "obra-casa-verde", obras[0].ID)

	current := decode[ScenarioDTO](t, doJSON(t, http.MethodGet,
		srv.URL+"/api/scenarios/current", nil))
	assert.Equal(t, "new-obra", current.ID)
}

func TestLoadScenario_BusyAgendaFillsEveryBucket(t *testing.T) {
	// GIVEN: The busy-agenda scenario, built relative to the fixed clock
	// WHEN: Fetching the agenda
	// THEN: Each bucket holds its designated obligation and the settled
	//       one appears in no due bucket

	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "busy-agenda"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	agenda := decode[AgendaDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/agenda", nil))

	require.Equal(t, 1, agenda.Overdue.Count)
	assert.Equal(t, "ob-hz-overdue", agenda.Overdue.Items[0].ID)

	require.Equal(t, 1, agenda.DueThisWeek.Count)
	assert.Equal(t, "ob-hz-thisweek", agenda.DueThisWeek.Items[0].ID)

	require.Equal(t, 1, agenda.DueNextWeek.Count)
	assert.Equal(t, "ob-hz-nextweek", agenda.DueNextWeek.Items[0].ID)

	require.Equal(t, 1, agenda.DueLater.Count)
	assert.Equal(t, "ob-hz-later", agenda.DueLater.Items[0].ID)

	require.Equal(t, 1, agenda.History.Count)
	assert.Equal(t, "ob-hz-history", agenda.History.Items[0].ID)

	require.Len(t, agenda.Unresolved, 1)
	assert.Equal(t, "ob-hz-dateless", agenda.Unresolved[0].ID)

	for _, bucket := range []AgendaBucketDTO{agenda.Overdue, agenda.DueThisWeek, agenda.DueNextWeek, agenda.DueLater} {
		for _, item := range bucket.Items {
			assert.NotEqual(t, "ob-hz-settled", item.ID, "settled obligation leaked into a due bucket")
		}
	}
}

func TestLoadScenario_SupplierTermsSplitsResidualCent(t *testing.T) {
	// 10000/3 = 3333.33 + 3333.33 + 3333.34; the last installment absorbs
	// the residual cent

	srv, mem := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		map[string]any{"scenario_id": "supplier-terms"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	steel, err := mem.GetObligation(context.Background(), "ob-galpao-steel")
	require.NoError(t, err)
	require.Len(t, steel.Installments, 3)
	assert.Equal(t, "3333.33", steel.Installments[0].Value.StringFixed(2))
	assert.Equal(t, "3333.34", steel.Installments[2].Value.StringFixed(2))
	assert.Equal(t, "10000.00", engine.SumInstallments(steel.Installments).StringFixed(2))
}

// =============================================================================
// OVERDUE SWEEP
// =============================================================================

func TestOverdueSweep_FlipsPendingPastDue(t *testing.T) {
	// GIVEN: Installments due before and after the fixed clock's today
	// WHEN: Running the sweep
	// THEN: Only the past-due pending installment flips to overdue, and a
	//       second run changes nothing

	mem := store.NewMemory()
	h := NewHandler(mem)
	h.Generator = engine.ScheduleGenerator{
		Now: func() engine.Date { return engine.NewDate(2024, time.June, 10) },
	}

	ctx := context.Background()
	require.NoError(t, mem.CreateObra(ctx, obligation.Obra{ID: "obra-1", Name: "Casa"}))
	require.NoError(t, mem.CreateObligation(ctx, obligation.Obligation{
		ID: "ob-1", ObraID: "obra-1", Kind: obligation.KindMaterial,
		TotalValue: mustMoney("200"),
		Installments: []engine.Installment{
			{Value: mustMoney("100"), DueDate: engine.NewDate(2024, time.June, 1), Status: engine.StatusPending},
			{Value: mustMoney("100"), DueDate: engine.NewDate(2024, time.July, 1), Status: engine.StatusPending},
		},
	}))

	sweep := NewOverdueSweep(mem, h)
	sweep.RunNow()

	o, err := mem.GetObligation(ctx, "ob-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusOverdue, o.Installments[0].Status)
	assert.Equal(t, engine.StatusPending, o.Installments[1].Status)

	changed, err := mem.MarkOverdueInstallments(ctx, engine.NewDate(2024, time.June, 10))
	require.NoError(t, err)
	assert.Zero(t, changed, "sweep must be idempotent")
}
