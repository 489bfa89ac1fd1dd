/*
handlers.go - HTTP API handlers for the expense tracker

PURPOSE:
  Exposes the schedule engine and obligation store via REST. Handles HTTP
  request/response and JSON serialization; all computation is delegated to
  the engine and obligation packages.

ENDPOINTS:
  Obras:
    GET    /api/obras                       List projects
    POST   /api/obras                       Create project
    GET    /api/obras/{id}                  Get project
    DELETE /api/obras/{id}                  Delete project and its obligations
    GET    /api/obras/{id}/obligations      List project obligations
    POST   /api/obras/{id}/obligations      Create obligation (generates schedule)

  Obligations:
    GET    /api/obligations/{id}            Get obligation with summary
    PUT    /api/obligations/{id}            Update (regenerates schedule)
    DELETE /api/obligations/{id}            Delete
    GET    /api/obligations/{id}/summary    Reconciled paid/remaining/status
    POST   /api/obligations/{id}/payments   Record a payment

  Schedule:
    POST   /api/schedule/preview            Generate installments, no persist

  Agenda:
    GET    /api/agenda?date=YYYY-MM-DD      Triaged payment buckets

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (ErrInvalidSpec), malformed input
  - 404: Unknown obra/obligation
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/factory"
	"github.com/construtech/obratrack/obligation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     obligation.Store
	Generator engine.ScheduleGenerator

	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store obligation.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// OBRA HANDLERS
// =============================================================================

// ListObras returns all projects.
func (h *Handler) ListObras(w http.ResponseWriter, r *http.Request) {
	obras, err := h.Store.ListObras(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list obras", err)
		return
	}

	dtos := make([]ObraDTO, len(obras))
	for i, o := range obras {
		dtos[i] = toObraDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateObra creates a project.
func (h *Handler) CreateObra(w http.ResponseWriter, r *http.Request) {
	var req CreateObraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	obra := obligation.Obra{
		ID:        fmt.Sprintf("obra-%d", time.Now().UnixNano()),
		Name:      req.Name,
		Client:    req.Client,
		Address:   req.Address,
		StartDate: req.StartDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateObra(r.Context(), obra); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create obra", err)
		return
	}
	writeJSON(w, http.StatusCreated, toObraDTO(obra))
}

// GetObra returns a single project.
func (h *Handler) GetObra(w http.ResponseWriter, r *http.Request) {
	obra, err := h.Store.GetObra(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "Failed to get obra")
		return
	}
	writeJSON(w, http.StatusOK, toObraDTO(*obra))
}

// DeleteObra removes a project and its obligations.
func (h *Handler) DeleteObra(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteObra(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "Failed to delete obra")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OBLIGATION HANDLERS
// =============================================================================

// ListObligations returns the obligations of one obra.
func (h *Handler) ListObligations(w http.ResponseWriter, r *http.Request) {
	obraID := chi.URLParam(r, "id")
	if _, err := h.Store.GetObra(r.Context(), obraID); err != nil {
		writeStoreError(w, err, "Failed to get obra")
		return
	}

	obligations, err := h.Store.ListObligations(r.Context(), obraID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list obligations", err)
		return
	}

	dtos := make([]ObligationDTO, len(obligations))
	for i, o := range obligations {
		dtos[i] = toObligationDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateObligation creates an obligation under an obra, generating its
// installment schedule from the submitted payment terms.
func (h *Handler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	obraID := chi.URLParam(r, "id")
	if _, err := h.Store.GetObra(r.Context(), obraID); err != nil {
		writeStoreError(w, err, "Failed to get obra")
		return
	}

	var req CreateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := obligation.Kind(req.Kind)
	if !kind.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown kind %q", req.Kind), nil)
		return
	}

	spec, installments, err := h.generate(req.Schedule)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	o := obligation.Obligation{
		ID:           fmt.Sprintf("ob-%d", time.Now().UnixNano()),
		ObraID:       obraID,
		Kind:         kind,
		Description:  req.Description,
		Supplier:     req.Supplier,
		TotalValue:   spec.TotalValue,
		Settled:      req.Settled,
		DueDate:      req.DueDate,
		PaymentDate:  req.PaymentDate,
		StartDate:    req.StartDate,
		Installments: installments,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Store.CreateObligation(r.Context(), o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create obligation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toObligationDTO(o))
}

// GetObligation returns one obligation with its reconciled summary.
func (h *Handler) GetObligation(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.GetObligation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "Failed to get obligation")
		return
	}
	writeJSON(w, http.StatusOK, toObligationDTO(*o))
}

// UpdateObligation updates an obligation's fields and regenerates its
// schedule from the submitted payment terms.
func (h *Handler) UpdateObligation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetObligation(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to get obligation")
		return
	}

	var req CreateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := obligation.Kind(req.Kind)
	if !kind.Known() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown kind %q", req.Kind), nil)
		return
	}

	spec, installments, err := h.generate(req.Schedule)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	updated := *existing
	updated.Kind = kind
	updated.Description = req.Description
	updated.Supplier = req.Supplier
	updated.TotalValue = spec.TotalValue
	updated.Settled = req.Settled
	updated.DueDate = req.DueDate
	updated.PaymentDate = req.PaymentDate
	updated.StartDate = req.StartDate
	updated.Installments = installments

	if err := h.Store.UpdateObligation(r.Context(), updated); err != nil {
		writeStoreError(w, err, "Failed to update obligation")
		return
	}
	writeJSON(w, http.StatusOK, toObligationDTO(updated))
}

// DeleteObligation removes one obligation.
func (h *Handler) DeleteObligation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteObligation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "Failed to delete obligation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns the reconciled paid/remaining/status of an obligation.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.GetObligation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "Failed to get obligation")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(o.Summary()))
}

// RecordPayment records one payment against an obligation.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Value <= 0 {
		writeError(w, http.StatusBadRequest, "Payment value must be positive", nil)
		return
	}

	when := h.today()
	if req.Date != "" {
		d, err := engine.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment date", err)
			return
		}
		when = d
	}

	payment := engine.Payment{Value: decimal.NewFromFloat(req.Value), Date: when}
	if err := h.Store.AddPayment(r.Context(), id, payment); err != nil {
		writeStoreError(w, err, "Failed to record payment")
		return
	}

	o, err := h.Store.GetObligation(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Failed to get obligation")
		return
	}
	writeJSON(w, http.StatusCreated, toObligationDTO(*o))
}

// =============================================================================
// SCHEDULE PREVIEW
// =============================================================================

// PreviewSchedule generates installments from payment terms without
// persisting anything, so forms can show the schedule before submission.
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req PreviewScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	spec, installments, err := h.generate(req.Schedule)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewScheduleResponse{
		Installments: toInstallmentDTOs(installments),
		Total:        toFloat(spec.TotalValue),
	})
}

// =============================================================================
// AGENDA
// =============================================================================

// GetAgenda triages every obligation into due-date buckets. The optional
// date query parameter sets the reference "today" (for reproducibility).
func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := engine.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date parameter", err)
			return
		}
		today = d
	}

	obligations, err := h.Store.ListAllObligations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list obligations", err)
		return
	}

	agenda := engine.Triage(today, obligation.AgendaItems(obligations))
	writeJSON(w, http.StatusOK, toAgendaDTO(agenda))
}

// =============================================================================
// HELPERS
// =============================================================================

// generate converts submitted payment terms into a spec and its schedule.
func (h *Handler) generate(j factory.ScheduleJSON) (engine.ObligationSpec, []engine.Installment, error) {
	spec, err := factory.ToSpec(j)
	if err != nil {
		return engine.ObligationSpec{}, nil, err
	}
	installments, err := h.Generator.Generate(spec)
	if err != nil {
		return engine.ObligationSpec{}, nil, err
	}
	return spec, installments, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine validation failures onto 400 responses.
func writeEngineError(w http.ResponseWriter, err error) {
	if engine.IsClientError(err) {
		resp := ErrorResponse{Error: "Invalid payment terms", Code: "invalid_spec", Details: err.Error()}
		var specErr *engine.InvalidSpecError
		if errors.As(err, &specErr) {
			resp.Details = map[string]string{"field": specErr.Field, "reason": specErr.Reason}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeError(w, http.StatusInternalServerError, "Schedule generation failed", err)
}

// writeStoreError maps not-found errors onto 404, everything else onto 500.
func writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, obligation.ErrObraNotFound):
		writeError(w, http.StatusNotFound, "Obra not found", nil)
	case errors.Is(err, obligation.ErrObligationNotFound):
		writeError(w, http.StatusNotFound, "Obligation not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
