package repository

import (
	"context"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
type DocumentRepository interface {
	// Create inserts a new document record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByClientID returns all documents of a client, newest first.
	ListByClientID(ctx context.Context, clientID string) ([]model.Document, error)

	// SearchByTerms ranks documents against a disjunction of search terms
	// over title and content. Hits are ordered by descending relevance,
	// then by descending creation time; TotalCount covers all pages.
	SearchByTerms(ctx context.Context, terms []string, page model.Pagination) (*model.SearchResult[model.Document], error)
}
