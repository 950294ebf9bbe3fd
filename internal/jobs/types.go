package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

var (
	// ErrJobNotFound is returned for an unknown job id.
	ErrJobNotFound = errors.New("job not found")
	// ErrQueueClosed is returned when publishing to or starting a stopped queue.
	ErrQueueClosed = errors.New("queue is closed")
	// ErrImportInFlight is returned when a session already has a pending or running import.
	ErrImportInFlight = errors.New("an import is already in progress for this session")
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed. Failed imports are not retried.
	JobStatusFailed JobStatus = "failed"
)

// Active reports whether the job still occupies its session's import slot.
func (s JobStatus) Active() bool {
	return s == JobStatusPending || s == JobStatusRunning
}

// ImportJob reconciles already parsed rows and merges the result into a session.
type ImportJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// SessionID is the session the transactions are merged into.
	SessionID string `json:"session_id"`

	// Hint is the domain framing used for reconciliation.
	Hint domain.DomainHint `json:"domain"`

	// Source describes where the rows came from (paste, upload name or gs:// URI).
	Source string `json:"source,omitempty"`

	// Rows are the parsed rows waiting to be reconciled.
	Rows []tabular.RawRow `json:"-"`

	// RowCount is len(Rows) at publish time.
	RowCount int `json:"row_count"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Imported is the number of transactions merged on success.
	Imported int `json:"imported"`
}

// Publisher enqueues import jobs.
type Publisher interface {
	// PublishImport enqueues job. It fails with ErrImportInFlight when the
	// session already has an active import.
	PublishImport(ctx context.Context, job *ImportJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer runs import jobs.
type Consumer interface {
	// Start begins consuming jobs; handler is called once per job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job and returns how many transactions it imported.
type JobHandler func(ctx context.Context, job *ImportJob) (int, error)

// JobStore tracks job state.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ImportJob) error

	// ReserveImport saves job unless its session already has an active
	// job, in which case it returns ErrImportInFlight.
	ReserveImport(ctx context.Context, job *ImportJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ImportJob, error)

	// ListJobs retrieves jobs with optional filtering, oldest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ImportJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	SessionID string
	Status    JobStatus
	Limit     int
	Offset    int
}
