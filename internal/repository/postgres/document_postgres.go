package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// Relevance search uses the generated weighted tsv column together with
// websearch_to_tsquery and ts_rank_cd.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, client_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, client_id, title, content, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.ClientID,
		doc.Title,
		doc.Content,
		doc.CreatedAt,
	)
	var out model.Document
	if err := row.Scan(&out.ID, &out.ClientID, &out.Title, &out.Content, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, client_id, title, content, created_at
		FROM documents
		WHERE id = $1
	`
	var d model.Document
	row := r.db.QueryRowContext(ctx, q, id)
	if err := row.Scan(&d.ID, &d.ClientID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByClientID returns the documents of a client ordered newest first.
func (r *DocumentPostgres) ListByClientID(ctx context.Context, clientID string) ([]model.Document, error) {
	const q = `
		SELECT id, client_id, title, content, created_at
		FROM documents
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SearchByTerms ranks documents against a disjunctive websearch query.
// The terms are joined with " OR " so websearch_to_tsquery matches any of
// them; ts_rank_cd normalization 4 divides by the mean harmonic distance
// between extents, rewarding co-occurrence.
func (r *DocumentPostgres) SearchByTerms(ctx context.Context, terms []string, page model.Pagination) (*model.SearchResult[model.Document], error) {
	if len(terms) == 0 {
		return model.EmptySearchResult[model.Document](), nil
	}

	query := strings.Join(terms, " OR ")

	const qCount = `
		SELECT COUNT(*)
		FROM documents
		WHERE tsv @@ websearch_to_tsquery('english', $1)
	`
	var total int64
	if err := r.db.QueryRowContext(ctx, qCount, query).Scan(&total); err != nil {
		return nil, err
	}

	const qSearch = `
		SELECT id, client_id, title, content, created_at,
		       ts_rank_cd(tsv, websearch_to_tsquery('english', $1), 4) AS rank
		FROM documents
		WHERE tsv @@ websearch_to_tsquery('english', $1)
		ORDER BY rank DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qSearch, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]model.SearchHit[model.Document], 0)
	for rows.Next() {
		var d model.Document
		var rank float64
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Title, &d.Content, &d.CreatedAt, &rank); err != nil {
			return nil, err
		}
		hits = append(hits, model.SearchHit[model.Document]{Entity: d, Score: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.SearchResult[model.Document]{Results: hits, TotalCount: total}, nil
}
