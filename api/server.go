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
  /api/auth/*       Login (public)
  /api/punch/*      Employee punch operations (authenticated)
  /api/accounts/*   Account administration (admin)
  /api/logs/*       Work log administration (admin)
  /api/settings     Pay-period settings (admin)
  /api/summary/*    Payroll summaries and CSV export (admin)

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
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/login", h.Login)

		// Any authenticated user
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Route("/punch", func(r chi.Router) {
				r.Post("/in", h.PunchIn)
				r.Post("/out", h.PunchOut)
				r.Get("/status", h.PunchStatus)
			})
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Use(h.RequireAdmin)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", h.ListAccounts)
				r.Post("/", h.CreateAccount)
				r.Delete("/{username}", h.DeleteAccount)
				r.Put("/{username}/rate", h.UpdateRate)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", h.ListLogs)
				r.Patch("/{id}", h.UpdateDeduction)
			})

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.PutSettings)

			r.Route("/summary", func(r chi.Router) {
				r.Get("/", h.GetSummary)
				r.Get("/export", h.ExportSummary)
			})
		})
	})

	return r
}
