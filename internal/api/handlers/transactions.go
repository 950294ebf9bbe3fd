package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/session"
)

// TransactionsHandler handles the transaction list of a session.
type TransactionsHandler struct {
	store  *session.Store
	nextID func() int64
	log    zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store *session.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, nextID: domain.NextID, log: log}
}

// ListTransactions handles GET /api/sessions/{sessionID}/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": st.Transactions,
		"count":        len(st.Transactions),
	})
}

// CreateTransaction handles POST /api/sessions/{sessionID}/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var entry domain.ManualEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := domain.NewManualTransaction(entry, h.nextID())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	if _, err := h.store.Update(id, func(st session.State) (session.State, error) {
		return session.AddManual(st, tx), nil
	}); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.log.Info().
		Str("session_id", id).
		Int64("transaction_id", tx.ID).
		Str("type", string(tx.Kind)).
		Msg("Manual transaction added")

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// DeleteTransaction handles DELETE /api/sessions/{sessionID}/transactions/{txID}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := strconv.ParseInt(chi.URLParam(r, "txID"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Transaction ID must be an integer")
		return
	}

	if _, err := h.store.Update(chi.URLParam(r, "sessionID"), func(st session.State) (session.State, error) {
		return session.Remove(st, txID)
	}); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
