// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	obras       map[string]obligation.Obra
	obligations map[string]obligation.Obligation
}

func NewMemory() *Memory {
	return &Memory{
		obras:       make(map[string]obligation.Obra),
		obligations: make(map[string]obligation.Obligation),
	}
}

var _ obligation.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Obras
// -----------------------------------------------------------------------------

func (m *Memory) CreateObra(_ context.Context, o obligation.Obra) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obras[o.ID] = o
	return nil
}

func (m *Memory) GetObra(_ context.Context, id string) (*obligation.Obra, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.obras[id]
	if !ok {
		return nil, obligation.ErrObraNotFound
	}
	return &o, nil
}

func (m *Memory) ListObras(_ context.Context) ([]obligation.Obra, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]obligation.Obra, 0, len(m.obras))
	for _, o := range m.obras {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) DeleteObra(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.obras[id]; !ok {
		return obligation.ErrObraNotFound
	}
	delete(m.obras, id)
	for oid, ob := range m.obligations {
		if ob.ObraID == id {
			delete(m.obligations, oid)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Obligations
// -----------------------------------------------------------------------------

func (m *Memory) CreateObligation(_ context.Context, o obligation.Obligation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obligations[o.ID] = cloneObligation(o)
	return nil
}

func (m *Memory) GetObligation(_ context.Context, id string) (*obligation.Obligation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.obligations[id]
	if !ok {
		return nil, obligation.ErrObligationNotFound
	}
	clone := cloneObligation(o)
	return &clone, nil
}

func (m *Memory) UpdateObligation(_ context.Context, o obligation.Obligation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.obligations[o.ID]; !ok {
		return obligation.ErrObligationNotFound
	}
	m.obligations[o.ID] = cloneObligation(o)
	return nil
}

func (m *Memory) DeleteObligation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.obligations[id]; !ok {
		return obligation.ErrObligationNotFound
	}
	delete(m.obligations, id)
	return nil
}

func (m *Memory) ListObligations(_ context.Context, obraID string) ([]obligation.Obligation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []obligation.Obligation
	for _, o := range m.obligations {
		if o.ObraID == obraID {
			result = append(result, cloneObligation(o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ListAllObligations(_ context.Context) ([]obligation.Obligation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]obligation.Obligation, 0, len(m.obligations))
	for _, o := range m.obligations {
		result = append(result, cloneObligation(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ReplaceInstallments(_ context.Context, obligationID string, installments []engine.Installment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.obligations[obligationID]
	if !ok {
		return obligation.ErrObligationNotFound
	}
	o.Installments = append([]engine.Installment(nil), installments...)
	m.obligations[obligationID] = o
	return nil
}

func (m *Memory) AddPayment(_ context.Context, obligationID string, p engine.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.obligations[obligationID]
	if !ok {
		return obligation.ErrObligationNotFound
	}
	o.Payments = append(o.Payments, p)
	m.obligations[obligationID] = o
	return nil
}

func (m *Memory) MarkOverdueInstallments(_ context.Context, asOf engine.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := 0
	for id, o := range m.obligations {
		for i, inst := range o.Installments {
			if inst.Status == engine.StatusPending && inst.DueDate.Before(asOf) {
				o.Installments[i].Status = engine.StatusOverdue
				changed++
			}
		}
		m.obligations[id] = o
	}
	return changed, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obras = make(map[string]obligation.Obra)
	m.obligations = make(map[string]obligation.Obligation)
	return nil
}

// cloneObligation copies the slices so callers can't mutate stored state.
func cloneObligation(o obligation.Obligation) obligation.Obligation {
	o.Installments = append([]engine.Installment(nil), o.Installments...)
	o.Payments = append([]engine.Payment(nil), o.Payments...)
	return o
}
