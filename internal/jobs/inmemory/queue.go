package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// Queue is an in-memory job publisher and consumer backed by a buffered
// channel. Each job is handled exactly once; failures are recorded, not retried.
type Queue struct {
	jobChan   chan *jobs.ImportJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	pubs      sync.WaitGroup // publishers between the closed check and the send
	mu        sync.RWMutex
	store     jobs.JobStore
	workers   int
	closed    bool
}

// NewQueue creates a queue with room for bufferSize waiting jobs and
// workers concurrent handlers.
func NewQueue(bufferSize, workers int, store jobs.JobStore) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobChan:   make(chan *jobs.ImportJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		workers:   workers,
	}
}

// PublishImport reserves the session's import slot and enqueues job.
func (q *Queue) PublishImport(ctx context.Context, job *jobs.ImportJob) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return jobs.ErrQueueClosed
	}
	q.pubs.Add(1)
	q.mu.RUnlock()
	defer q.pubs.Done()

	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	job.Status = jobs.JobStatusPending
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.RowCount = len(job.Rows)

	if err := q.store.ReserveImport(ctx, job); err != nil {
		return err
	}

	// Workers own their copy; the caller keeps reading job.
	queued := *job

	select {
	case q.jobChan <- &queued:
		return nil
	case <-ctx.Done():
		q.fail(ctx, job, ctx.Err())
		return ctx.Err()
	case <-q.closeChan:
		q.fail(ctx, job, jobs.ErrQueueClosed)
		return jobs.ErrQueueClosed
	}
}

// fail records a job that never reached a worker, releasing its session's slot.
func (q *Queue) fail(ctx context.Context, job *jobs.ImportJob, err error) {
	now := time.Now()
	job.Status = jobs.JobStatusFailed
	job.CompletedAt = &now
	job.Error = err.Error()
	_ = q.store.SaveJob(context.WithoutCancel(ctx), job)
}

// Start launches the worker goroutines.
func (q *Queue) Start(ctx context.Context, handler jobs.JobHandler) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return jobs.ErrQueueClosed
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}

	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.JobHandler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.processJob(ctx, job, handler)
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *jobs.ImportJob, handler jobs.JobHandler) {
	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"job_id":     job.JobID,
		"session_id": job.SessionID,
	})
	ctx = logger.WithContext(ctx, log)

	now := time.Now()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &now
	_ = q.store.SaveJob(ctx, job)

	log.Info().Int("rows", job.RowCount).Msg("Import job started")

	imported, err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = jobs.JobStatusFailed
		job.Error = err.Error()
		log.Error().Err(err).Msg("Import job failed")
	} else {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		job.Imported = imported
		log.Info().Int("imported", imported).Dur("took", completedAt.Sub(now)).Msg("Import job completed")
	}

	job.Rows = nil
	_ = q.store.SaveJob(context.WithoutCancel(ctx), job)
}

// Stop closes the queue and waits for in-flight jobs to complete. Jobs
// still waiting in the buffer are marked failed with ErrQueueClosed.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.pubs.Wait()
		q.wg.Wait()
		q.drain()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain fails every job left in the buffer once no worker or publisher
// can touch the channel.
func (q *Queue) drain() {
	ctx := context.Background()
	for {
		select {
		case job := <-q.jobChan:
			q.fail(ctx, job, jobs.ErrQueueClosed)
		default:
			return
		}
	}
}

// Close implements jobs.Publisher.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var _ jobs.Publisher = (*Queue)(nil)
var _ jobs.Consumer = (*Queue)(nil)
