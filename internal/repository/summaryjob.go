package repository

import (
	"context"
	"time"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

// SummaryJobRepository persists document summary jobs. Terminal rows
// (COMPLETED/FAILED) are immutable: transition methods only touch rows still
// in IN_PROGRESS.
type SummaryJobRepository interface {
	// FindLatest returns the most recent job for a document, or
	// sql.ErrNoRows when none exists.
	FindLatest(ctx context.Context, documentID string) (*model.SummaryJob, error)

	// Create inserts a new IN_PROGRESS job.
	Create(ctx context.Context, job *model.SummaryJob) (*model.SummaryJob, error)

	// Complete marks an IN_PROGRESS job COMPLETED with its summary text.
	Complete(ctx context.Context, jobID, summary string, completedAt time.Time) error

	// MarkFailed marks an IN_PROGRESS job FAILED.
	MarkFailed(ctx context.Context, jobID string, completedAt time.Time) error
}
