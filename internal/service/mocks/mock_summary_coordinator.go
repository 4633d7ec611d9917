package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

type MockSummaryCoordinator struct {
	mock.Mock
}

func (m *MockSummaryCoordinator) RequestSummary(ctx context.Context, documentID string) (*model.SummaryJob, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SummaryJob), args.Error(1)
}
