package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	advisormocks "github.com/dvloznov/finance-dashboard/internal/advisor/mocks"
	"github.com/dvloznov/finance-dashboard/internal/analytics"
	"github.com/dvloznov/finance-dashboard/internal/api"
	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/jobs/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/session"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

type fakeReconciler struct {
	txs   []domain.Transaction
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeReconciler) Reconcile(ctx context.Context, rows []tabular.RawRow, hint domain.DomainHint) ([]domain.Transaction, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.calls++
	return f.txs, f.err
}

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	data, ok := f[uri]
	if !ok {
		return nil, errors.New("object does not exist")
	}
	return []byte(data), nil
}

type testServer struct {
	handler http.Handler
	jobs    *inmemory.Store
	gen     *advisormocks.MockTextGenerator
}

func newTestServer(t *testing.T, rec handlers.Reconciler) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := logger.NewWithWriter(io.Discard)
	sessions := session.NewStore()
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, 1, jobStore)
	t.Cleanup(func() { _ = queue.Close() })
	require.NoError(t, queue.Start(ctx, handlers.NewImportJobHandler(rec, sessions)))

	gen := advisormocks.NewMockTextGenerator(gomock.NewController(t))

	h := api.NewRouter(api.Deps{
		Sessions:    sessions,
		Jobs:        jobStore,
		Publisher:   queue,
		Fetcher:     fakeFetcher{"gs://bucket/may.csv": "Date,Memo,Amount\n2024-05-01,Rent,-900"},
		Asker:       advisor.New(gen),
		DefaultHint: domain.HintPersonal,
		Log:         log,
	})

	return &testServer{handler: h, jobs: jobStore, gen: gen}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createSession(t *testing.T, body interface{}) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.SessionID
}

func (s *testServer) transactions(t *testing.T, sessionID string) []domain.Transaction {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/sessions/"+sessionID+"/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Transactions
}

func decodeJob(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var resp struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)
	return resp.JobID
}

func (s *testServer) waitForJob(t *testing.T, jobID string, want jobs.JobStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		job, err := s.jobs.GetJob(context.Background(), jobID)
		return err == nil && job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})
	rec := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})

	id := s.createSession(t, map[string]interface{}{"domain": "business", "sample": true})

	rec := s.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transaction_count":6`)
	assert.Contains(t, rec.Body.String(), `"balance":"Profit"`)

	rec = s.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sessions", map[string]string{"domain": "charity"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshot(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})
	id := s.createSession(t, map[string]interface{}{"sample": true})

	rec := s.do(t, http.MethodGet, "/api/sessions/"+id+"/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap analytics.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 6, snap.Count)
	assert.InDelta(t, 3250.0, snap.Totals.Income, 1e-9)
	assert.InDelta(t, 151.54, snap.Totals.Expense, 1e-9)
	assert.Len(t, snap.BalanceTrend, 6)
	assert.Equal(t, "Groceries", snap.Categories[0].Category)

	empty := s.createSession(t, nil)
	rec = s.do(t, http.MethodGet, "/api/sessions/"+empty+"/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance_trend":null`)
	assert.Contains(t, rec.Body.String(), `"categories":[]`)
}

func TestManualTransactions(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})
	id := s.createSession(t, map[string]interface{}{"sample": true})
	path := "/api/sessions/" + id + "/transactions"

	rec := s.do(t, http.MethodPost, path, domain.ManualEntry{
		Description: "Lunch", Amount: "12.40", Category: "food & drink", Direction: domain.KindExpense,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, -12.40, created.Amount)
	assert.Equal(t, "Food & Drink", created.Category)

	txs := s.transactions(t, id)
	require.Len(t, txs, 7)
	assert.Equal(t, created.ID, txs[0].ID)

	rec = s.do(t, http.MethodPost, path, domain.ManualEntry{
		Description: "Lunch", Amount: "0", Category: "Groceries", Direction: domain.KindExpense,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, s.transactions(t, id), 7)

	rec = s.do(t, http.MethodDelete, path+"/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, path+"/424242", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, path+"/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, s.transactions(t, id), 6)
}

func TestImport_TextIsReconciledAndMerged(t *testing.T) {
	rec := &fakeReconciler{txs: []domain.Transaction{
		domain.NewTransaction(100, civil.Date{Year: 2024, Month: 2, Day: 1}, "X", "Y", -10),
	}}
	s := newTestServer(t, rec)
	id := s.createSession(t, map[string]interface{}{"sample": true})

	jobID := decodeJob(t, s.do(t, http.MethodPost, "/api/sessions/"+id+"/imports",
		map[string]string{"text": "Posted,Memo,Debit\n01/02/2024,X,10"}))
	s.waitForJob(t, jobID, jobs.JobStatusCompleted)

	txs := s.transactions(t, id)
	require.Len(t, txs, 7)
	assert.Equal(t, int64(100), txs[6].ID)

	resp := s.do(t, http.MethodGet, "/api/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"imported":1`)
	assert.Contains(t, resp.Body.String(), `"row_count":1`)

	resp = s.do(t, http.MethodGet, "/api/jobs?session_id="+id, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":1`)
}

func TestImport_ParseErrorIsSynchronous(t *testing.T) {
	rec := &fakeReconciler{}
	s := newTestServer(t, rec)
	id := s.createSession(t, nil)

	resp := s.do(t, http.MethodPost, "/api/sessions/"+id+"/imports", map[string]string{"text": "just a header"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "insufficient rows")
	assert.Equal(t, 0, rec.calls)

	resp = s.do(t, http.MethodPost, "/api/sessions/"+id+"/imports", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = s.do(t, http.MethodPost, "/api/sessions/missing/imports", map[string]string{"text": "a,b\n1,2"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestImport_FailureLeavesSessionUntouched(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{err: errors.New("model returned garbage")})
	id := s.createSession(t, map[string]interface{}{"sample": true})

	jobID := decodeJob(t, s.do(t, http.MethodPost, "/api/sessions/"+id+"/imports",
		map[string]string{"text": "a,b\n1,2"}))
	s.waitForJob(t, jobID, jobs.JobStatusFailed)

	assert.Len(t, s.transactions(t, id), 6)
}

func TestImport_SecondImportWhileInFlight(t *testing.T) {
	rec := &fakeReconciler{gate: make(chan struct{})}
	s := newTestServer(t, rec)
	id := s.createSession(t, nil)
	path := "/api/sessions/" + id + "/imports"

	jobID := decodeJob(t, s.do(t, http.MethodPost, path, map[string]string{"text": "a,b\n1,2"}))

	resp := s.do(t, http.MethodPost, path, map[string]string{"text": "a,b\n3,4"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	close(rec.gate)
	s.waitForJob(t, jobID, jobs.JobStatusCompleted)
}

func TestImport_MultipartAndGCS(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})
	id := s.createSession(t, nil)
	path := "/api/sessions/" + id + "/imports"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Date,Amount\n2024-01-01,5"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	first := decodeJob(t, resp)
	s.waitForJob(t, first, jobs.JobStatusCompleted)

	second := decodeJob(t, s.do(t, http.MethodPost, path, map[string]string{"gcs_uri": "gs://bucket/may.csv"}))
	s.waitForJob(t, second, jobs.JobStatusCompleted)

	job, err := s.jobs.GetJob(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "may.csv", job.Source)

	r := s.do(t, http.MethodPost, path, map[string]string{"gcs_uri": "gs://bucket/missing.csv"})
	assert.Equal(t, http.StatusBadGateway, r.Code)

	r = s.do(t, http.MethodPost, path, map[string]string{"gcs_uri": "http://nope"})
	assert.Equal(t, http.StatusBadRequest, r.Code)
}

func TestAdvice(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})
	id := s.createSession(t, map[string]interface{}{"sample": true})
	path := "/api/sessions/" + id + "/advice"

	s.gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).Return("Cut subscriptions.", nil)
	rec := s.do(t, http.MethodPost, path, map[string]string{"question": "How do I save?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"Cut subscriptions."}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, path, map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))
	rec = s.do(t, http.MethodPost, path, map[string]string{"question": "Again?"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	empty := s.createSession(t, nil)
	rec = s.do(t, http.MethodPost, "/api/sessions/"+empty+"/advice", map[string]string{"question": "Anything?"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoutes(t *testing.T) {
	s := newTestServer(t, &fakeReconciler{})

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/jobs/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/nothing", nil).Code)
}
