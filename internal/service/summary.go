package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bogatovam/wealth-search-api/internal/config"
	"github.com/bogatovam/wealth-search-api/internal/llm"
	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
	"github.com/bogatovam/wealth-search-api/internal/worker"
)

// lockStripes bounds the memory of the per-document lock table: document ids
// hash onto a fixed set of stripes instead of growing a lock per id.
const lockStripes = 64

// SummaryCoordinator guarantees at most one in-flight summary generation per
// document and dispatches generation to a bounded worker pool.
type SummaryCoordinator interface {
	// RequestSummary returns the current summary job for the document,
	// starting a new generation run when none is active. IN_PROGRESS and
	// COMPLETED jobs are returned unchanged; a FAILED job is superseded
	// by a fresh attempt. Returns ErrNotFound when the document is
	// absent and ErrLockTimeout when the per-document lock cannot be
	// acquired within the bounded wait.
	RequestSummary(ctx context.Context, documentID string) (*model.SummaryJob, error)
}

type summaryCoordinator struct {
	documents repository.DocumentRepository
	jobs      repository.SummaryJobRepository
	llm       llm.Client
	pool      *worker.Pool

	locks       *stripedLocks
	lockTimeout time.Duration
	genTimeout  time.Duration
}

// NewSummaryCoordinator constructs a SummaryCoordinator backed by the given
// worker pool. genTimeout bounds a single generation call to the LLM.
func NewSummaryCoordinator(
	documents repository.DocumentRepository,
	jobs repository.SummaryJobRepository,
	llmClient llm.Client,
	pool *worker.Pool,
	cfg config.SummaryConfig,
	genTimeout time.Duration,
) SummaryCoordinator {
	lockTimeout := time.Duration(cfg.LockTimeoutSec) * time.Second
	if lockTimeout <= 0 {
		lockTimeout = 20 * time.Second
	}
	if genTimeout <= 0 {
		genTimeout = 2 * time.Minute
	}
	return &summaryCoordinator{
		documents:   documents,
		jobs:        jobs,
		llm:         llmClient,
		pool:        pool,
		locks:       newStripedLocks(lockStripes),
		lockTimeout: lockTimeout,
		genTimeout:  genTimeout,
	}
}

func (c *summaryCoordinator) RequestSummary(ctx context.Context, documentID string) (*model.SummaryJob, error) {
	doc, err := c.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	release, err := c.locks.acquire(ctx, documentID, c.lockTimeout)
	if err != nil {
		return nil, err
	}
	var unlockOnce sync.Once
	unlock := func() { unlockOnce.Do(release) }
	defer unlock()

	latest, err := c.jobs.FindLatest(ctx, documentID)
	switch {
	case err == nil && !latest.Status.Terminal():
		// Poller or duplicate trigger: hand back the in-flight job.
		return latest, nil
	case err == nil && latest.Status == model.SummaryCompleted:
		return latest, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	// No job yet, or the last attempt FAILED: start a fresh run.
	job, err := c.jobs.Create(ctx, &model.SummaryJob{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Status:     model.SummaryInProgress,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	// The stripe is released before dispatch: a saturated pool runs the
	// task inline on this goroutine, and lock hold time must stay bounded
	// by coordination work, not generation latency. A concurrent request
	// in the window sees the IN_PROGRESS row, which either runs or is
	// marked FAILED just below.
	unlock()

	if err := c.pool.Submit(func() { c.generate(doc, job) }); err != nil {
		_ = c.jobs.MarkFailed(ctx, job.ID, time.Now().UTC())
		return nil, fmt.Errorf("dispatch summary generation: %w", err)
	}
	return job, nil
}

// statusWriteTimeout bounds the terminal status UPDATE of a summary job.
const statusWriteTimeout = 10 * time.Second

// generate runs on a pool worker (or inline on the submitter when the pool
// is saturated). Its errors are recorded as job state, never returned to the
// original caller; it deliberately detaches from the request context.
func (c *summaryCoordinator) generate(doc *model.Document, job *model.SummaryJob) {
	genCtx, cancel := context.WithTimeout(context.Background(), c.genTimeout)
	summary, err := c.llm.Summarize(genCtx, doc.Content)
	cancel()

	// The terminal transition gets its own context. When the failure is
	// the generation timeout itself, genCtx is already expired and would
	// doom the status write, stranding the job IN_PROGRESS forever.
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancelWrite()

	if err != nil || strings.TrimSpace(summary) == "" {
		if markErr := c.jobs.MarkFailed(writeCtx, job.ID, time.Now().UTC()); markErr != nil {
			logSummaryEvent("summary_job_mark_failed_error", job, markErr)
			return
		}
		logSummaryEvent("summary_job_failed", job, err)
		return
	}

	if err := c.jobs.Complete(writeCtx, job.ID, summary, time.Now().UTC()); err != nil {
		logSummaryEvent("summary_job_complete_error", job, err)
		return
	}
	logSummaryEvent("summary_job_completed", job, nil)
}

func logSummaryEvent(event string, job *model.SummaryJob, err error) {
	entry := map[string]any{
		"ts":          time.Now().UTC().Format(time.RFC3339Nano),
		"level":       "info",
		"msg":         event,
		"job_id":      job.ID,
		"document_id": job.DocumentID,
	}
	if err != nil {
		entry["level"] = "error"
		entry["error"] = err.Error()
	}
	if b, marshalErr := json.Marshal(entry); marshalErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

// stripedLocks is a fixed-size table of mutexes addressed by key hash. Each
// stripe is a 1-buffered channel so acquisition can race a timeout.
type stripedLocks struct {
	stripes []chan struct{}
}

func newStripedLocks(n int) *stripedLocks {
	stripes := make([]chan struct{}, n)
	for i := range stripes {
		stripes[i] = make(chan struct{}, 1)
	}
	return &stripedLocks{stripes: stripes}
}

// acquire blocks until the stripe for key is held, the timeout elapses
// (ErrLockTimeout), or ctx is done. The returned func releases the stripe.
func (l *stripedLocks) acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	h := fnv.New32a()
	h.Write([]byte(key))
	stripe := l.stripes[h.Sum32()%uint32(len(l.stripes))]

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
