/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates obras and obligations
	that demonstrate specific features of the schedule engine and agenda.

AVAILABLE SCENARIOS:

	new-obra:        Fresh project with a handful of upcoming obligations
	supplier-terms:  Material purchases split on "Nx every 30 days" terms
	busy-agenda:     Obligations spread across every agenda bucket
	multi-obra:      Two projects running in parallel

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create obras
 3. Create obligations via the form adapters + schedule generator
 4. Optionally record payments to show partial/settled states

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-agenda"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers, Handler context
  - obligation/forms.go: Form adapters used to build the demo data
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "new-obra",
		Name:        "New Project",
		Description: "Fresh project with a first batch of upcoming obligations",
		Category:    "basics",
	},
	{
		ID:          "supplier-terms",
		Name:        "Supplier Terms",
		Description: "Material purchases split on Nx every-30-days supplier terms",
		Category:    "schedule",
	},
	{
		ID:          "busy-agenda",
		Name:        "Busy Agenda",
		Description: "Obligations in every agenda bucket: overdue, this week, later, history",
		Category:    "agenda",
	},
	{
		ID:          "multi-obra",
		Name:        "Multiple Projects",
		Description: "Two projects running in parallel with mixed expense kinds",
		Category:    "basics",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = "" // Clear current scenario on reset

	var err error
	switch req.ScenarioID {
	case "new-obra":
		err = h.loadNewObraScenario(ctx)
	case "supplier-terms":
		err = h.loadSupplierTermsScenario(ctx)
	case "busy-agenda":
		err = h.loadBusyAgendaScenario(ctx)
	case "multi-obra":
		err = h.loadMultiObraScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadNewObraScenario(ctx context.Context) error {
	today := h.today()

	obra := obligation.Obra{
		ID:        "obra-casa-verde",
		Name:      "Casa Verde Renovation",
		Client:    "M. Oliveira",
		Address:   "Rua das Acacias 120",
		StartDate: today.String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateObra(ctx, obra); err != nil {
		return err
	}

	// Foundation contract: 120k in 4 monthly installments, pinned to day 10
	contract := obligation.ContractForm{
		ContractValue:    decimal.RequireFromString("120000.00"),
		InstallmentCount: 4,
		FirstDueDate:     today.AddDays(12),
		FixedDueDay:      10,
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-casa-foundation",
		ObraID:      obra.ID,
		Kind:        obligation.KindContract,
		Description: "Foundation and structure contract",
		Supplier:    "Construtora Alicerce",
		Spec:        contract.ToSpec(),
	}); err != nil {
		return err
	}

	// Cement purchase, single payment next week
	cement := obligation.MaterialForm{
		PurchaseTotal: decimal.RequireFromString("4850.00"),
		FirstDueDate:  today.AddDays(5),
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-casa-cement",
		ObraID:      obra.ID,
		Kind:        obligation.KindMaterial,
		Description: "Cement, 100 bags",
		Supplier:    "Deposito Central",
		Spec:        cement.ToSpec(),
	}); err != nil {
		return err
	}

	// Permit fee due later this month
	permit := obligation.MiscExpenseForm{
		Amount:  decimal.RequireFromString("980.00"),
		DueDate: today.AddDays(20),
	}
	return h.seedObligation(ctx, seedSpec{
		ID:          "ob-casa-permit",
		ObraID:      obra.ID,
		Kind:        obligation.KindOther,
		Description: "Municipal construction permit",
		Spec:        permit.ToSpec(),
	})
}

func (h *Handler) loadSupplierTermsScenario(ctx context.Context) error {
	today := h.today()

	obra := obligation.Obra{
		ID:        "obra-galpao",
		Name:      "Warehouse Extension",
		Client:    "LogiSul Ltda",
		StartDate: today.AddDays(-30).String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateObra(ctx, obra); err != nil {
		return err
	}

	// Steel on 3x every 30 days; 10000/3 exercises the residual-cent rule
	steel := obligation.MaterialForm{
		PurchaseTotal:    decimal.RequireFromString("10000.00"),
		InstallmentCount: 3,
		IntervalDays:     30,
		FirstDueDate:     today.AddDays(3),
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-galpao-steel",
		ObraID:      obra.ID,
		Kind:        obligation.KindMaterial,
		Description: "Structural steel beams, 3x no-interest",
		Supplier:    "Acos Parana",
		Spec:        steel.ToSpec(),
	}); err != nil {
		return err
	}

	// Roofing on 6x every 28 days, first installment already paid
	roofing := obligation.MaterialForm{
		PurchaseTotal:    decimal.RequireFromString("18500.00"),
		InstallmentCount: 6,
		IntervalDays:     28,
		FirstDueDate:     today.AddDays(-28),
	}
	return h.seedObligation(ctx, seedSpec{
		ID:          "ob-galpao-roofing",
		ObraID:      obra.ID,
		Kind:        obligation.KindMaterial,
		Description: "Thermo-acoustic roofing panels, 6x",
		Supplier:    "Telhas Sul",
		Spec:        roofing.ToSpec(),
		Payments: []engine.Payment{
			{Value: decimal.RequireFromString("3083.33"), Date: today.AddDays(-28)},
		},
	})
}

func (h *Handler) loadBusyAgendaScenario(ctx context.Context) error {
	today := h.today()

	obra := obligation.Obra{
		ID:        "obra-edificio",
		Name:      "Edificio Horizonte",
		Client:    "Incorporadora HZ",
		StartDate: today.AddDays(-120).String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateObra(ctx, obra); err != nil {
		return err
	}

	// One obligation per agenda bucket, relative to today.
	buckets := []struct {
		id, desc, supplier string
		kind               obligation.Kind
		value              string
		dueOffset          int
	}{
		{"ob-hz-overdue", "Electrical wiring, floors 1-3", "Eletrica Souza", obligation.KindLabor, "7200.00", -4},
		{"ob-hz-thisweek", "Drywall sheets", "Gesso & Cia", obligation.KindMaterial, "3150.00", 4},
		{"ob-hz-nextweek", "Plumbing fixtures", "Hidro Forte", obligation.KindMaterial, "5400.00", 11},
		{"ob-hz-later", "Elevator installation deposit", "Elevadores Atlas", obligation.KindContract, "42000.00", 35},
	}
	for _, b := range buckets {
		form := obligation.MiscExpenseForm{
			Amount:  decimal.RequireFromString(b.value),
			DueDate: today.AddDays(b.dueOffset),
		}
		if err := h.seedObligation(ctx, seedSpec{
			ID:          b.id,
			ObraID:      obra.ID,
			Kind:        b.kind,
			Description: b.desc,
			Supplier:    b.supplier,
			Spec:        form.ToSpec(),
		}); err != nil {
			return err
		}
	}

	// History: unpaid and more than a week past due
	history := obligation.MiscExpenseForm{
		Amount:  decimal.RequireFromString("1200.00"),
		DueDate: today.AddDays(-20),
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-hz-history",
		ObraID:      obra.ID,
		Kind:        obligation.KindOther,
		Description: "Site office container rent (disputed)",
		Supplier:    "Containers BR",
		Spec:        history.ToSpec(),
	}); err != nil {
		return err
	}

	// Settled: paid within the 99% tolerance, excluded from due buckets
	settled := obligation.MaterialForm{
		PurchaseTotal: decimal.RequireFromString("1000.00"),
		FirstDueDate:  today.AddDays(2),
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-hz-settled",
		ObraID:      obra.ID,
		Kind:        obligation.KindMaterial,
		Description: "Sand and gravel delivery",
		Supplier:    "Deposito Central",
		Spec:        settled.ToSpec(),
		Payments: []engine.Payment{
			{Value: decimal.RequireFromString("600.00"), Date: today.AddDays(-3)},
			{Value: decimal.RequireFromString("390.00"), Date: today.AddDays(-1)},
		},
	}); err != nil {
		return err
	}

	// Unresolved: no parseable date anywhere, surfaces as a data-quality issue
	dateless := obligation.Obligation{
		ID:          "ob-hz-dateless",
		ObraID:      obra.ID,
		Kind:        obligation.KindOther,
		Description: "Surveyor fee (date to be confirmed)",
		TotalValue:  decimal.RequireFromString("850.00"),
		CreatedAt:   time.Now().UTC(),
	}
	return h.Store.CreateObligation(ctx, dateless)
}

func (h *Handler) loadMultiObraScenario(ctx context.Context) error {
	today := h.today()

	obras := []obligation.Obra{
		{
			ID:        "obra-residencial",
			Name:      "Residencial Jardins",
			Client:    "Fam. Santos",
			StartDate: today.AddDays(-60).String(),
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:        "obra-comercial",
			Name:      "Loja Centro",
			Client:    "Boutique Ana",
			StartDate: today.AddDays(-15).String(),
			CreatedAt: time.Now().UTC(),
		},
	}
	for _, o := range obras {
		if err := h.Store.CreateObra(ctx, o); err != nil {
			return err
		}
	}

	// Residencial: masonry contract in 6 monthly installments
	masonry := obligation.ContractForm{
		ContractValue:    decimal.RequireFromString("54000.00"),
		InstallmentCount: 6,
		FirstDueDate:     today.AddDays(-50),
		FixedDueDay:      5,
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-res-masonry",
		ObraID:      "obra-residencial",
		Kind:        obligation.KindContract,
		Description: "Masonry and finishing contract",
		Supplier:    "Equipe Pedreiro Jose",
		Spec:        masonry.ToSpec(),
		Payments: []engine.Payment{
			{Value: decimal.RequireFromString("9000.00"), Date: today.AddDays(-50)},
			{Value: decimal.RequireFromString("9000.00"), Date: today.AddDays(-20)},
		},
	}); err != nil {
		return err
	}

	// Residencial: concrete mixer rental, monthly rate repeats
	mixer := obligation.EquipmentForm{
		MonthlyRate:  decimal.RequireFromString("1400.00"),
		Months:       3,
		FirstDueDate: today.AddDays(6),
	}
	if err := h.seedObligation(ctx, seedSpec{
		ID:          "ob-res-mixer",
		ObraID:      "obra-residencial",
		Kind:        obligation.KindEquipment,
		Description: "Concrete mixer rental, 3 months",
		Supplier:    "LocaMaq",
		Spec:        mixer.ToSpec(),
	}); err != nil {
		return err
	}

	// Comercial: storefront glass, single payment
	glass := obligation.MaterialForm{
		PurchaseTotal: decimal.RequireFromString("7600.00"),
		FirstDueDate:  today.AddDays(9),
	}
	return h.seedObligation(ctx, seedSpec{
		ID:          "ob-com-glass",
		ObraID:      "obra-comercial",
		Kind:        obligation.KindMaterial,
		Description: "Tempered glass storefront",
		Supplier:    "Vidros Prime",
		Spec:        glass.ToSpec(),
	})
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

// seedSpec bundles the inputs for one demo obligation.
type seedSpec struct {
	ID          string
	ObraID      string
	Kind        obligation.Kind
	Description string
	Supplier    string
	Spec        engine.ObligationSpec
	Payments    []engine.Payment
	Settled     bool
}

// seedObligation generates the installment schedule for s and persists the
// resulting obligation. The first due date doubles as the triage due date.
func (h *Handler) seedObligation(ctx context.Context, s seedSpec) error {
	installments, err := h.Generator.Generate(s.Spec)
	if err != nil {
		return fmt.Errorf("scenario obligation %s: %w", s.ID, err)
	}

	o := obligation.Obligation{
		ID:           s.ID,
		ObraID:       s.ObraID,
		Kind:         s.Kind,
		Description:  s.Description,
		Supplier:     s.Supplier,
		TotalValue:   s.Spec.TotalValue,
		Settled:      s.Settled,
		DueDate:      s.Spec.FirstDueDate.String(),
		Installments: installments,
		Payments:     s.Payments,
		CreatedAt:    time.Now().UTC(),
	}
	return h.Store.CreateObligation(ctx, o)
}

// today returns the handler's notion of the current date, honoring an
// injected clock so scenario data lands in predictable agenda buckets.
func (h *Handler) today() engine.Date {
	if h.Generator.Now != nil {
		return h.Generator.Now()
	}
	return engine.Today()
}
