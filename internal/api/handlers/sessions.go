package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/session"
)

// SessionsHandler handles session lifecycle endpoints.
type SessionsHandler struct {
	store       *session.Store
	defaultHint domain.DomainHint
	log         zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler. defaultHint applies
// when a create request names no domain.
func NewSessionsHandler(store *session.Store, defaultHint domain.DomainHint, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{store: store, defaultHint: defaultHint, log: log}
}

type sessionResponse struct {
	SessionID        string            `json:"session_id"`
	Domain           domain.DomainHint `json:"domain"`
	Labels           domain.Labels     `json:"labels"`
	TransactionCount int               `json:"transaction_count"`
}

func newSessionResponse(id string, st session.State) sessionResponse {
	return sessionResponse{
		SessionID:        id,
		Domain:           st.Hint,
		Labels:           st.Hint.Labels(),
		TransactionCount: len(st.Transactions),
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain string `json:"domain"`
		Sample bool   `json:"sample"`
	}

	// An empty body means defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	hint := h.defaultHint
	if req.Domain != "" {
		parsed, err := domain.ParseDomainHint(req.Domain)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		hint = parsed
	}

	st := session.NewState(hint)
	if req.Sample {
		st = session.Replace(st, domain.SampleTransactions())
	}

	id := h.store.Create(st)

	h.log.Info().
		Str("session_id", id).
		Str("domain", string(hint)).
		Bool("sample", req.Sample).
		Int("live_sessions", h.store.Len()).
		Msg("Session created")

	middleware.WriteJSON(w, http.StatusCreated, newSessionResponse(id, st))
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	st, err := h.store.Get(id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, newSessionResponse(id, st))
}

// DeleteSession handles DELETE /api/sessions/{sessionID}
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if err := h.store.Delete(id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
