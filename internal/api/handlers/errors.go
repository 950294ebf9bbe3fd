package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/session"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

// writeServiceError maps a core error onto a status code and JSON body.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var (
		parseErr      *tabular.ParseError
		validationErr *domain.ValidationError
		reconcileErr  *pipeline.ReconciliationError
		advisoryErr   *advisor.AdvisoryError
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr),
		errors.Is(err, advisor.ErrEmptyQuestion), errors.Is(err, advisor.ErrNoTransactions):
		log.Warn().Err(err).Msg("Rejected request")
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrTransactionNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, jobs.ErrJobNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, jobs.ErrImportInFlight):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, jobs.ErrQueueClosed):
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import queue is not accepting jobs")
	case errors.As(err, &advisoryErr), errors.As(err, &reconcileErr):
		log.Error().Err(err).Msg("External service failed")
		middleware.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
