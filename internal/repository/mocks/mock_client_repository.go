package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientRepository) SearchByCompanyKeys(ctx context.Context, keys []string, page model.Pagination) (*model.SearchResult[model.Client], error) {
	args := m.Called(ctx, keys, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResult[model.Client]), args.Error(1)
}
