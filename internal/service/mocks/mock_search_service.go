package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) SearchClients(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Client], error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResult[model.Client]), args.Error(1)
}

func (m *MockSearchService) SearchDocuments(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Document], error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResult[model.Document]), args.Error(1)
}
