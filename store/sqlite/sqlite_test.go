package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
	"github.com/construtech/obratrack/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedObra(t *testing.T, store *sqlite.Store) obligation.Obra {
	t.Helper()
	obra := obligation.Obra{
		ID:        "obra-1",
		Name:      "Reforma Galpao",
		Client:    "ACME Construtora",
		StartDate: "2024-05-01",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateObra(context.Background(), obra))
	return obra
}

func TestObraRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	obra := seedObra(t, store)

	got, err := store.GetObra(ctx, obra.ID)
	require.NoError(t, err)
	assert.Equal(t, obra.Name, got.Name)
	assert.Equal(t, obra.Client, got.Client)
	assert.Equal(t, "2024-05-01", got.StartDate)

	_, err = store.GetObra(ctx, "missing")
	assert.ErrorIs(t, err, obligation.ErrObraNotFound)
}

func TestObligationRoundTrip_KeepsCentExactValues(t *testing.T) {
	// GIVEN: An obligation with a split schedule carrying a rounding residual
	// WHEN: Persisting and reloading
	// THEN: Installment values survive exactly (stored as text, not float)

	store := newTestStore(t)
	ctx := context.Background()
	obra := seedObra(t, store)

	gen := engine.ScheduleGenerator{}
	installments, err := gen.Generate(engine.ObligationSpec{
		TotalValue:       money("100"),
		Mode:             engine.ModeInstallments,
		InstallmentCount: 3,
		Cadence:          engine.CadenceMonthly,
		FirstDueDate:     engine.NewDate(2024, time.July, 10),
	})
	require.NoError(t, err)

	o := obligation.Obligation{
		ID:           "ob-1",
		ObraID:       obra.ID,
		Kind:         obligation.KindMaterial,
		Description:  "Tijolos",
		TotalValue:   money("100"),
		DueDate:      "2024-07-10",
		Installments: installments,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateObligation(ctx, o))

	got, err := store.GetObligation(ctx, "ob-1")
	require.NoError(t, err)
	require.Len(t, got.Installments, 3)
	assert.True(t, got.Installments[0].Value.Equal(money("33.33")))
	assert.True(t, got.Installments[2].Value.Equal(money("33.34")))
	assert.Equal(t, "2024-08-10", got.Installments[1].DueDate.String())
	assert.Equal(t, engine.StatusPending, got.Installments[0].Status)
	assert.True(t, got.TotalValue.Equal(money("100")))
}

func TestAddPayment_AppendsAndFeedsSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	obra := seedObra(t, store)

	o := obligation.Obligation{
		ID: "ob-1", ObraID: obra.ID, Kind: obligation.KindContract,
		TotalValue: money("1000"), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateObligation(ctx, o))

	require.NoError(t, store.AddPayment(ctx, "ob-1", engine.Payment{
		Value: money("990"), Date: engine.NewDate(2024, time.June, 20),
	}))

	got, err := store.GetObligation(ctx, "ob-1")
	require.NoError(t, err)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, engine.Settled, got.Summary().Status)

	err = store.AddPayment(ctx, "missing", engine.Payment{Value: money("1")})
	assert.ErrorIs(t, err, obligation.ErrObligationNotFound)
}

func TestReplaceInstallments_SwapsWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	obra := seedObra(t, store)

	o := obligation.Obligation{
		ID: "ob-1", ObraID: obra.ID, Kind: obligation.KindEquipment,
		TotalValue: money("600"), CreatedAt: time.Now().UTC(),
		Installments: []engine.Installment{
			{Value: money("600"), DueDate: engine.NewDate(2024, time.July, 1), Status: engine.StatusPending},
		},
	}
	require.NoError(t, store.CreateObligation(ctx, o))

	replacement := []engine.Installment{
		{Value: money("300"), DueDate: engine.NewDate(2024, time.July, 1), Status: engine.StatusPending, Note: "Installment 1/2"},
		{Value: money("300"), DueDate: engine.NewDate(2024, time.August, 1), Status: engine.StatusPending, Note: "Installment 2/2"},
	}
	require.NoError(t, store.ReplaceInstallments(ctx, "ob-1", replacement))

	got, err := store.GetObligation(ctx, "ob-1")
	require.NoError(t, err)
	require.Len(t, got.Installments, 2)
	assert.Equal(t, "Installment 2/2", got.Installments[1].Note)
}

func TestDeleteObra_CascadesToObligations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	obra := seedObra(t, store)

	require.NoError(t, store.CreateObligation(ctx, obligation.Obligation{
		ID: "ob-1", ObraID: obra.ID, Kind: obligation.KindOther,
		TotalValue: money("50"), CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.DeleteObra(ctx, obra.ID))

	_, err := store.GetObligation(ctx, "ob-1")
	assert.ErrorIs(t, err, obligation.ErrObligationNotFound)

	all, err := store.ListAllObligations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListObligations_FiltersByObra(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObra(t, store)
	require.NoError(t, store.CreateObra(ctx, obligation.Obra{
		ID: "obra-2", Name: "Outra Obra", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.CreateObligation(ctx, obligation.Obligation{
		ID: "ob-1", ObraID: "obra-1", Kind: obligation.KindLabor,
		TotalValue: money("10"), CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.CreateObligation(ctx, obligation.Obligation{
		ID: "ob-2", ObraID: "obra-2", Kind: obligation.KindLabor,
		TotalValue: money("20"), CreatedAt: time.Now().UTC(),
	}))

	first, err := store.ListObligations(ctx, "obra-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "ob-1", first[0].ID)

	all, err := store.ListAllObligations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
