package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
)

const pgUniqueViolation = "23505"

// ClientPostgres is a PostgreSQL implementation of repository.ClientRepository.
// Fuzzy matching relies on the pg_trgm extension (similarity functions and
// the %, <% and <<% operators).
type ClientPostgres struct {
	db *sql.DB
}

// NewClientPostgres creates a new ClientPostgres repository.
func NewClientPostgres(db *sql.DB) *ClientPostgres {
	return &ClientPostgres{db: db}
}

var _ repository.ClientRepository = (*ClientPostgres)(nil)

// Create inserts a new client row and returns the stored record.
func (r *ClientPostgres) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	const q = `
		INSERT INTO clients (id, first_name, last_name, email, country_of_residence, company_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, first_name, last_name, email, country_of_residence, company_key, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.CountryOfResidence,
		client.CompanyKey,
		client.CreatedAt,
	)
	var out model.Client
	if err := scanClient(row, &out); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single client by its ID.
func (r *ClientPostgres) FindByID(ctx context.Context, id string) (*model.Client, error) {
	const q = `
		SELECT id, first_name, last_name, email, country_of_residence, company_key, created_at
		FROM clients
		WHERE id = $1
	`
	var c model.Client
	if err := scanClient(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByCompanyKeys runs the trigram search over the company_key column.
// The per-client score is the maximum over all candidates of the maximum of
// trigram, word and strict-word similarity; the match predicate is the
// pg_trgm threshold operators OR-ed per candidate.
func (r *ClientPostgres) SearchByCompanyKeys(ctx context.Context, keys []string, page model.Pagination) (*model.SearchResult[model.Client], error) {
	if len(keys) == 0 {
		return model.EmptySearchResult[model.Client](), nil
	}

	scoreExpr, matchExpr, args := buildFuzzyPredicates(keys)

	var total int64
	qCount := `SELECT COUNT(*) FROM clients WHERE ` + matchExpr
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qSearch := fmt.Sprintf(`
		SELECT id, first_name, last_name, email, country_of_residence, company_key, created_at, %s AS score
		FROM clients
		WHERE %s
		ORDER BY score DESC, id
		LIMIT $%d OFFSET $%d`,
		scoreExpr, matchExpr, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, qSearch, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]model.SearchHit[model.Client], 0)
	for rows.Next() {
		var c model.Client
		var score float64
		if err := rows.Scan(
			&c.ID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
			&c.CountryOfResidence,
			&c.CompanyKey,
			&c.CreatedAt,
			&score,
		); err != nil {
			return nil, err
		}
		hits = append(hits, model.SearchHit[model.Client]{Entity: c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.SearchResult[model.Client]{Results: hits, TotalCount: total}, nil
}

// buildFuzzyPredicates renders the score and match SQL fragments for a list
// of candidate keys, one positional argument per candidate.
func buildFuzzyPredicates(keys []string) (scoreExpr, matchExpr string, args []any) {
	scores := make([]string, 0, len(keys))
	matches := make([]string, 0, len(keys))
	args = make([]any, 0, len(keys))

	for i, key := range keys {
		p := fmt.Sprintf("$%d", i+1)
		scores = append(scores, fmt.Sprintf(
			"GREATEST(similarity(company_key, %[1]s), word_similarity(%[1]s, company_key), strict_word_similarity(%[1]s, company_key))", p))
		matches = append(matches, fmt.Sprintf(
			"(company_key %% %[1]s OR %[1]s <%% company_key OR %[1]s <<%% company_key)", p))
		args = append(args, key)
	}

	scoreExpr = scores[0]
	if len(scores) > 1 {
		scoreExpr = "GREATEST(" + strings.Join(scores, ", ") + ")"
	}
	matchExpr = strings.Join(matches, " OR ")
	return scoreExpr, matchExpr, args
}

func scanClient(row *sql.Row, c *model.Client) error {
	return row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.CountryOfResidence,
		&c.CompanyKey,
		&c.CreatedAt,
	)
}
