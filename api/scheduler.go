/*
scheduler.go - Automated overdue sweep

PURPOSE:
  Periodically flips pending installments whose due date has passed to
  overdue in the store. The agenda always derives urgency from dates at
  read time, so this sweep exists for consumers reading installment rows
  directly (exports, raw API clients).

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Idempotent: re-running past the same date changes nothing
  - Uses the handler's clock so tests can pin "today"

USAGE:
  sweep := NewOverdueSweep(store, handler)
  sweep.Start()
  // ... later
  sweep.Stop()

SEE ALSO:
  - obligation/store.go: MarkOverdueInstallments
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
)

// OverdueSweep periodically marks past-due installments overdue.
type OverdueSweep struct {
	Store         obligation.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewOverdueSweep creates a new sweep.
func NewOverdueSweep(store obligation.Store, handler *Handler) *OverdueSweep {
	return &OverdueSweep{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweep.
func (s *OverdueSweep) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		log.Println("[Sweep] Disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run()

	log.Printf("[Sweep] Started with check interval: %v", s.CheckInterval)
}

// Stop stops the sweep.
func (s *OverdueSweep) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		log.Println("[Sweep] Stopped")
	}
}

func (s *OverdueSweep) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.sweep()

	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *OverdueSweep) sweep() {
	ctx := context.Background()

	today := engine.Today()
	if s.Handler != nil {
		today = s.Handler.today()
	}

	changed, err := s.Store.MarkOverdueInstallments(ctx, today)
	if err != nil {
		log.Printf("[Sweep] Error marking overdue installments: %v", err)
		return
	}
	if changed > 0 {
		log.Printf("[Sweep] Marked %d installments overdue as of %s", changed, today)
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (s *OverdueSweep) RunNow() {
	s.sweep()
}
