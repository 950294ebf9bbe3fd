package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/analytics"
	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/session"
)

// Asker answers a question about a list of transactions.
type Asker interface {
	Ask(ctx context.Context, txs []domain.Transaction, question string, hint domain.DomainHint) (string, error)
}

// InsightsHandler serves aggregate snapshots and advisory answers.
type InsightsHandler struct {
	store *session.Store
	asker Asker
	log   zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(store *session.Store, asker Asker, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{store: store, asker: asker, log: log}
}

// GetSnapshot handles GET /api/sessions/{sessionID}/snapshot
func (h *InsightsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.Compute(st.Transactions, st.Hint))
}

// Ask handles POST /api/sessions/{sessionID}/advice
func (h *InsightsHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	answer, err := h.asker.Ask(r.Context(), st.Transactions, req.Question, st.Hint)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
