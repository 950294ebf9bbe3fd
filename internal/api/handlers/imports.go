package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/session"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

// MaxUploadSize bounds pasted text and uploaded files.
const MaxUploadSize = 10 << 20

// Reconciler maps parsed rows to transactions.
type Reconciler interface {
	Reconcile(ctx context.Context, rows []tabular.RawRow, hint domain.DomainHint) ([]domain.Transaction, error)
}

// ImportsHandler accepts tabular text and queues it for reconciliation.
type ImportsHandler struct {
	store     *session.Store
	publisher jobs.Publisher
	fetcher   gcs.Fetcher
	log       zerolog.Logger
}

// NewImportsHandler creates a new imports handler. fetcher may be nil, in
// which case gs:// sources are refused.
func NewImportsHandler(store *session.Store, publisher jobs.Publisher, fetcher gcs.Fetcher, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{store: store, publisher: publisher, fetcher: fetcher, log: log}
}

// CreateImport handles POST /api/sessions/{sessionID}/imports
//
// The body is either JSON {"text": "..."} / {"gcs_uri": "gs://..."} or a
// multipart form with a "file" part. Parsing happens before the job is
// queued so malformed input is reported synchronously.
func (h *ImportsHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	st, err := h.store.Get(sessionID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	text, source, status, err := h.readSource(ctx, w, r)
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Msg("Import source rejected")
		middleware.WriteError(w, status, err.Error())
		return
	}

	rows, err := tabular.Parse(text)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	job := &jobs.ImportJob{
		SessionID: sessionID,
		Hint:      st.Hint,
		Source:    source,
		Rows:      rows,
	}
	if err := h.publisher.PublishImport(ctx, job); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("session_id", sessionID).
		Str("source", source).
		Int("rows", len(rows)).
		Msg("Import enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":    job.JobID,
		"status":    job.Status,
		"row_count": job.RowCount,
	})
}

// readSource returns the raw text, a description of where it came from,
// and the status to use on failure.
func (h *ImportsHandler) readSource(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, string, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", http.StatusBadRequest, fmt.Errorf("multipart form needs a \"file\" part: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", http.StatusBadRequest, fmt.Errorf("read upload: %w", err)
		}
		return string(data), header.Filename, 0, nil
	}

	var req struct {
		Text   string `json:"text"`
		GCSURI string `json:"gcs_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", http.StatusBadRequest, errors.New("invalid request body")
	}

	switch {
	case req.Text != "" && req.GCSURI != "":
		return "", "", http.StatusBadRequest, errors.New("provide either text or gcs_uri, not both")
	case req.Text != "":
		return req.Text, "paste", 0, nil
	case req.GCSURI != "":
		if h.fetcher == nil {
			return "", "", http.StatusBadRequest, errors.New("gcs imports are not configured")
		}
		if _, _, err := gcs.ParseURI(req.GCSURI); err != nil {
			return "", "", http.StatusBadRequest, err
		}
		data, err := h.fetcher.Fetch(ctx, req.GCSURI)
		if err != nil {
			log := logger.FromContext(ctx)
			log.Error().Err(err).Str("gcs_uri", req.GCSURI).Msg("Failed to fetch import source")
			return "", "", http.StatusBadGateway, errors.New("failed to fetch object from storage")
		}
		return string(data), gcs.ExtractFilename(req.GCSURI), 0, nil
	default:
		return "", "", http.StatusBadRequest, errors.New("text or gcs_uri is required")
	}
}

// NewImportJobHandler returns the queue handler that reconciles a job's
// rows and merges them into its session. The session is only touched
// when reconciliation succeeds.
func NewImportJobHandler(reconciler Reconciler, store *session.Store) jobs.JobHandler {
	return func(ctx context.Context, job *jobs.ImportJob) (int, error) {
		txs, err := reconciler.Reconcile(ctx, job.Rows, job.Hint)
		if err != nil {
			return 0, err
		}

		if _, err := store.Update(job.SessionID, func(st session.State) (session.State, error) {
			return session.AppendBatch(st, txs), nil
		}); err != nil {
			return 0, fmt.Errorf("merge into session: %w", err)
		}

		return len(txs), nil
	}
}
