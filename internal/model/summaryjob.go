package model

import "time"

// SummaryJobStatus is the lifecycle state of a document summary job.
type SummaryJobStatus string

const (
	SummaryInProgress SummaryJobStatus = "IN_PROGRESS"
	SummaryCompleted  SummaryJobStatus = "COMPLETED"
	SummaryFailed     SummaryJobStatus = "FAILED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s SummaryJobStatus) Terminal() bool {
	return s == SummaryCompleted || s == SummaryFailed
}

// SummaryJob tracks one asynchronous summary generation run for a document.
// At most one job per document is in flight at a time; COMPLETED and FAILED
// are terminal.
type SummaryJob struct {
	ID          string           `json:"id"`
	DocumentID  string           `json:"document_id"`
	Status      SummaryJobStatus `json:"status"`
	Summary     string           `json:"summary,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}
