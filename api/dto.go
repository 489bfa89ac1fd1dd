/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Money crosses
  the wire as float64 for client convenience; all arithmetic happens on
  decimals before conversion, so the floats are display values only.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - factory/schedule.go: ScheduleJSON embedded in create/update requests
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/factory"
	"github.com/construtech/obratrack/obligation"
)

// =============================================================================
// OBRA TYPES
// =============================================================================

type ObraDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Client    string `json:"client,omitempty"`
	Address   string `json:"address,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateObraRequest struct {
	Name      string `json:"name"`
	Client    string `json:"client,omitempty"`
	Address   string `json:"address,omitempty"`
	StartDate string `json:"start_date,omitempty"`
}

// =============================================================================
// OBLIGATION TYPES
// =============================================================================

// CreateObligationRequest carries the obligation fields plus its payment
// terms. Installments are generated server-side from Schedule.
type CreateObligationRequest struct {
	Kind        string               `json:"kind"`
	Description string               `json:"description"`
	Supplier    string               `json:"supplier,omitempty"`
	DueDate     string               `json:"due_date,omitempty"`
	PaymentDate string               `json:"payment_date,omitempty"`
	StartDate   string               `json:"start_date,omitempty"`
	Settled     bool                 `json:"settled,omitempty"`
	Schedule    factory.ScheduleJSON `json:"schedule"`
}

type ObligationDTO struct {
	ID           string           `json:"id"`
	ObraID       string           `json:"obra_id"`
	Kind         string           `json:"kind"`
	Description  string           `json:"description"`
	Supplier     string           `json:"supplier,omitempty"`
	TotalValue   float64          `json:"total_value"`
	Settled      bool             `json:"settled"`
	DueDate      string           `json:"due_date,omitempty"`
	PaymentDate  string           `json:"payment_date,omitempty"`
	StartDate    string           `json:"start_date,omitempty"`
	Installments []InstallmentDTO `json:"installments"`
	Payments     []PaymentDTO     `json:"payments"`
	Summary      SummaryDTO       `json:"summary"`
	CreatedAt    string           `json:"created_at,omitempty"`
}

type InstallmentDTO struct {
	Value   float64 `json:"value"`
	DueDate string  `json:"due_date"`
	Status  string  `json:"status"`
	Note    string  `json:"note,omitempty"`
}

type PaymentDTO struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// RecordPaymentRequest records one payment against an obligation.
type RecordPaymentRequest struct {
	Value float64 `json:"value"`
	Date  string  `json:"date,omitempty"` // defaults to today
}

// SummaryDTO is the reconciled paid/remaining/status view of an obligation.
type SummaryDTO struct {
	Status     string  `json:"status"`
	PaidAmount float64 `json:"paid_amount"`
	Remaining  float64 `json:"remaining"`
}

// =============================================================================
// SCHEDULE PREVIEW
// =============================================================================

// PreviewScheduleRequest generates installments without persisting anything,
// so forms can show the schedule before submission.
type PreviewScheduleRequest struct {
	Schedule factory.ScheduleJSON `json:"schedule"`
}

type PreviewScheduleResponse struct {
	Installments []InstallmentDTO `json:"installments"`
	Total        float64          `json:"total"`
}

// =============================================================================
// AGENDA TYPES
// =============================================================================

type AgendaDTO struct {
	Date        string          `json:"date"`
	Overdue     AgendaBucketDTO `json:"overdue"`
	DueThisWeek AgendaBucketDTO `json:"due_this_week"`
	DueNextWeek AgendaBucketDTO `json:"due_next_week"`
	DueLater    AgendaBucketDTO `json:"due_later"`
	History     AgendaBucketDTO `json:"history"`
	Unresolved  []AgendaItemDTO `json:"unresolved,omitempty"`
}

type AgendaBucketDTO struct {
	Items  []AgendaItemDTO   `json:"items"`
	Count  int               `json:"count"`
	Total  float64           `json:"total"`
	ByKind []KindSubtotalDTO `json:"by_kind"`
}

type AgendaItemDTO struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description,omitempty"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"due_date,omitempty"`
	Settled     bool    `json:"settled"`
}

type KindSubtotalDTO struct {
	Kind  string  `json:"kind"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toObraDTO(o obligation.Obra) ObraDTO {
	dto := ObraDTO{
		ID:        o.ID,
		Name:      o.Name,
		Client:    o.Client,
		Address:   o.Address,
		StartDate: o.StartDate,
	}
	if !o.CreatedAt.IsZero() {
		dto.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toInstallmentDTOs(installments []engine.Installment) []InstallmentDTO {
	dtos := make([]InstallmentDTO, len(installments))
	for i, inst := range installments {
		dtos[i] = InstallmentDTO{
			Value:   toFloat(inst.Value),
			DueDate: inst.DueDate.String(),
			Status:  string(inst.Status),
			Note:    inst.Note,
		}
	}
	return dtos
}

func toPaymentDTOs(payments []engine.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{Value: toFloat(p.Value), Date: p.Date.String()}
	}
	return dtos
}

func toSummaryDTO(s engine.Settlement) SummaryDTO {
	return SummaryDTO{
		Status:     string(s.Status),
		PaidAmount: toFloat(s.PaidAmount),
		Remaining:  toFloat(s.Remaining),
	}
}

func toObligationDTO(o obligation.Obligation) ObligationDTO {
	dto := ObligationDTO{
		ID:           o.ID,
		ObraID:       o.ObraID,
		Kind:         string(o.Kind),
		Description:  o.Description,
		Supplier:     o.Supplier,
		TotalValue:   toFloat(o.TotalValue),
		Settled:      o.Settled,
		DueDate:      o.DueDate,
		PaymentDate:  o.PaymentDate,
		StartDate:    o.StartDate,
		Installments: toInstallmentDTOs(o.Installments),
		Payments:     toPaymentDTOs(o.Payments),
		Summary:      toSummaryDTO(o.Summary()),
	}
	if !o.CreatedAt.IsZero() {
		dto.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAgendaItemDTO(item engine.AgendaItem) AgendaItemDTO {
	dto := AgendaItemDTO{
		ID:          item.ID,
		Kind:        item.Kind,
		Description: item.Description,
		Value:       toFloat(item.Value),
		Settled:     item.Settled,
	}
	if !item.DueDate.IsZero() {
		dto.DueDate = item.DueDate.String()
	}
	return dto
}

func toAgendaBucketDTO(b engine.Bucket) AgendaBucketDTO {
	items := make([]AgendaItemDTO, len(b.Items))
	for i, item := range b.Items {
		items[i] = toAgendaItemDTO(item)
	}
	byKind := make([]KindSubtotalDTO, len(b.ByKind))
	for i, sub := range b.ByKind {
		byKind[i] = KindSubtotalDTO{Kind: sub.Kind, Count: sub.Count, Total: toFloat(sub.Total)}
	}
	return AgendaBucketDTO{Items: items, Count: b.Count, Total: toFloat(b.Total), ByKind: byKind}
}

func toAgendaDTO(a engine.Agenda) AgendaDTO {
	dto := AgendaDTO{
		Date:        a.Today.String(),
		Overdue:     toAgendaBucketDTO(a.Overdue),
		DueThisWeek: toAgendaBucketDTO(a.DueThisWeek),
		DueNextWeek: toAgendaBucketDTO(a.DueNextWeek),
		DueLater:    toAgendaBucketDTO(a.DueLater),
		History:     toAgendaBucketDTO(a.History),
	}
	for _, item := range a.Unresolved {
		dto.Unresolved = append(dto.Unresolved, toAgendaItemDTO(item))
	}
	return dto
}
