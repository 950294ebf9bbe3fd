// Package api assembles the HTTP surface of the dashboard.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/session"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Sessions    *session.Store
	Jobs        jobs.JobStore
	Publisher   jobs.Publisher
	Fetcher     gcs.Fetcher
	Asker       handlers.Asker
	DefaultHint domain.DomainHint
	Log         zerolog.Logger
}

// NewRouter returns the complete HTTP handler including middleware.
func NewRouter(d Deps) http.Handler {
	sessionsHandler := handlers.NewSessionsHandler(d.Sessions, d.DefaultHint, d.Log)
	transactionsHandler := handlers.NewTransactionsHandler(d.Sessions, d.Log)
	importsHandler := handlers.NewImportsHandler(d.Sessions, d.Publisher, d.Fetcher, d.Log)
	jobsHandler := handlers.NewJobsHandler(d.Jobs, d.Log)
	insightsHandler := handlers.NewInsightsHandler(d.Sessions, d.Asker, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestID(d.Log))
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", sessionsHandler.CreateSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionsHandler.GetSession)
			r.Delete("/", sessionsHandler.DeleteSession)

			r.Get("/transactions", transactionsHandler.ListTransactions)
			r.Post("/transactions", transactionsHandler.CreateTransaction)
			r.Delete("/transactions/{txID}", transactionsHandler.DeleteTransaction)

			r.Post("/imports", importsHandler.CreateImport)

			r.Get("/snapshot", insightsHandler.GetSnapshot)
			r.Post("/advice", insightsHandler.Ask)
		})

		r.Get("/jobs", jobsHandler.ListJobs)
		r.Get("/jobs/{jobID}", jobsHandler.GetJob)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
