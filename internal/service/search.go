package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
	"github.com/bogatovam/wealth-search-api/internal/search"
)

// maxQueryLength bounds the raw query before normalization.
const maxQueryLength = 128

// QueryExpander broadens a normalized query into full-text search terms.
// Implementations must degrade to the literal query rather than fail.
type QueryExpander interface {
	Expand(ctx context.Context, query string) []string
}

// SearchService defines the two ranked search use cases.
type SearchService interface {
	// SearchClients fuzzy-matches clients by company key derived from the
	// query.
	SearchClients(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Client], error)

	// SearchDocuments runs a relevance-ranked full-text search over
	// document titles and contents, broadened by LLM query expansion.
	SearchDocuments(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Document], error)
}

type searchService struct {
	clients   repository.ClientRepository
	documents repository.DocumentRepository
	expander  QueryExpander
}

// NewSearchService constructs a new SearchService.
func NewSearchService(clients repository.ClientRepository, documents repository.DocumentRepository, expander QueryExpander) SearchService {
	return &searchService{clients: clients, documents: documents, expander: expander}
}

func (s *searchService) SearchClients(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Client], error) {
	normalized, err := validateQuery(query, page)
	if err != nil {
		return nil, err
	}

	candidate := search.RemoveSpaces(normalized)
	return s.clients.SearchByCompanyKeys(ctx, []string{candidate}, page)
}

func (s *searchService) SearchDocuments(ctx context.Context, query string, page model.Pagination) (*model.SearchResult[model.Document], error) {
	normalized, err := validateQuery(query, page)
	if err != nil {
		return nil, err
	}

	terms := s.expander.Expand(ctx, normalized)
	return s.documents.SearchByTerms(ctx, terms, page)
}

// validateQuery applies the shared query and pagination rules and returns
// the normalized query.
func validateQuery(query string, page model.Pagination) (string, error) {
	if !page.Valid() {
		return "", validationErrorf("limit must be within [1,%d] and offset non-negative", model.MaxPageLimit)
	}
	if strings.TrimSpace(query) == "" {
		return "", validationErrorf("query should not be empty")
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		return "", validationErrorf("query is too long, max allowed length: %d", maxQueryLength)
	}

	normalized := search.Normalize(query)
	if normalized == "" {
		return "", validationErrorf("query does not contain searchable characters")
	}
	return normalized, nil
}
