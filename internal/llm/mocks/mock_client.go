package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bogatovam/wealth-search-api/internal/llm"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) ExpandQuery(ctx context.Context, query string) (*llm.ExpansionResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.ExpansionResult), args.Error(1)
}

func (m *MockClient) Summarize(ctx context.Context, content string) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}
