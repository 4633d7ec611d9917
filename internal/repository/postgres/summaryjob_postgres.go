package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
)

// SummaryJobPostgres is a PostgreSQL implementation of
// repository.SummaryJobRepository. The status guard in the UPDATE statements
// keeps terminal rows immutable: a transition against a COMPLETED or FAILED
// job touches zero rows.
type SummaryJobPostgres struct {
	db *sql.DB
}

// NewSummaryJobPostgres creates a new SummaryJobPostgres repository.
func NewSummaryJobPostgres(db *sql.DB) *SummaryJobPostgres {
	return &SummaryJobPostgres{db: db}
}

var _ repository.SummaryJobRepository = (*SummaryJobPostgres)(nil)

// FindLatest returns the most recent job for a document.
func (r *SummaryJobPostgres) FindLatest(ctx context.Context, documentID string) (*model.SummaryJob, error) {
	const q = `
		SELECT id, document_id, status, COALESCE(summary, ''), created_at, completed_at
		FROM document_summary_jobs
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var j model.SummaryJob
	row := r.db.QueryRowContext(ctx, q, documentID)
	if err := row.Scan(&j.ID, &j.DocumentID, &j.Status, &j.Summary, &j.CreatedAt, &j.CompletedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job row and returns the stored record.
func (r *SummaryJobPostgres) Create(ctx context.Context, job *model.SummaryJob) (*model.SummaryJob, error) {
	const q = `
		INSERT INTO document_summary_jobs (id, document_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, document_id, status, COALESCE(summary, ''), created_at, completed_at
	`
	var out model.SummaryJob
	row := r.db.QueryRowContext(ctx, q, job.ID, job.DocumentID, job.Status, job.CreatedAt)
	if err := row.Scan(&out.ID, &out.DocumentID, &out.Status, &out.Summary, &out.CreatedAt, &out.CompletedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete marks an in-progress job COMPLETED. A no-op for terminal rows.
func (r *SummaryJobPostgres) Complete(ctx context.Context, jobID, summary string, completedAt time.Time) error {
	const q = `
		UPDATE document_summary_jobs
		SET status = $2, summary = $3, completed_at = $4
		WHERE id = $1 AND status = $5
	`
	_, err := r.db.ExecContext(ctx, q, jobID, model.SummaryCompleted, summary, completedAt, model.SummaryInProgress)
	return err
}

// MarkFailed marks an in-progress job FAILED. A no-op for terminal rows.
func (r *SummaryJobPostgres) MarkFailed(ctx context.Context, jobID string, completedAt time.Time) error {
	const q = `
		UPDATE document_summary_jobs
		SET status = $2, completed_at = $3
		WHERE id = $1 AND status = $4
	`
	_, err := r.db.ExecContext(ctx, q, jobID, model.SummaryFailed, completedAt, model.SummaryInProgress)
	return err
}
