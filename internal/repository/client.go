package repository

import (
	"context"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

// ClientRepository defines data access for clients using SQL queries only.
// No business logic here — strictly persistence operations.
type ClientRepository interface {
	// Create inserts a new client record. Returns ErrDuplicateEmail when
	// the email is already taken (case-insensitive).
	Create(ctx context.Context, client *model.Client) (*model.Client, error)

	// FindByID returns a client by its ID.
	FindByID(ctx context.Context, id string) (*model.Client, error)

	// SearchByCompanyKeys scores every stored client against each
	// candidate company key using trigram and word similarity, keeping
	// clients that fuzzy-match at least one candidate. Hits are ordered
	// by descending score; TotalCount covers all pages.
	SearchByCompanyKeys(ctx context.Context, keys []string, page model.Pagination) (*model.SearchResult[model.Client], error)
}
