package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

type MockSummaryJobRepository struct {
	mock.Mock
}

func (m *MockSummaryJobRepository) FindLatest(ctx context.Context, documentID string) (*model.SummaryJob, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SummaryJob), args.Error(1)
}

func (m *MockSummaryJobRepository) Create(ctx context.Context, job *model.SummaryJob) (*model.SummaryJob, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SummaryJob), args.Error(1)
}

func (m *MockSummaryJobRepository) Complete(ctx context.Context, jobID, summary string, completedAt time.Time) error {
	args := m.Called(ctx, jobID, summary, completedAt)
	return args.Error(0)
}

func (m *MockSummaryJobRepository) MarkFailed(ctx context.Context, jobID string, completedAt time.Time) error {
	args := m.Called(ctx, jobID, completedAt)
	return args.Error(0)
}
