/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/obras/*        Project management and nested obligations
  /api/obligations/*  Obligation detail, summary, payments
  /api/schedule/*     Schedule preview
  /api/agenda         Payments agenda
  /api/scenarios/*    Demo scenario loading

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Obra routes
		r.Route("/obras", func(r chi.Router) {
			r.Get("/", h.ListObras)
			r.Post("/", h.CreateObra)
			r.Get("/{id}", h.GetObra)
			r.Delete("/{id}", h.DeleteObra)
			r.Get("/{id}/obligations", h.ListObligations)
			r.Post("/{id}/obligations", h.CreateObligation)
		})

		// Obligation routes
		r.Route("/obligations", func(r chi.Router) {
			r.Get("/{id}", h.GetObligation)
			r.Put("/{id}", h.UpdateObligation)
			r.Delete("/{id}", h.DeleteObligation)
			r.Get("/{id}/summary", h.GetSummary)
			r.Post("/{id}/payments", h.RecordPayment)
		})

		// Schedule routes
		r.Route("/schedule", func(r chi.Router) {
			r.Post("/preview", h.PreviewSchedule)
		})

		// Agenda route
		r.Get("/agenda", h.GetAgenda)

		// Scenario routes (demo data)
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
