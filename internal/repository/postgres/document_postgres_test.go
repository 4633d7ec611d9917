package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/bogatovam/wealth-search-api/internal/model"
)

var documentColumns = []string{"id", "client_id", "title", "content", "created_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:        "doc-uuid",
		ClientID:  "client-uuid",
		Title:     "Q3 portfolio review",
		Content:   "Rebalancing towards fixed income.",
		CreatedAt: now,
	}

	rows := sqlmock.NewRows(documentColumns).
		AddRow(doc.ID, doc.ClientID, doc.Title, doc.Content, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.ClientID, doc.Title, doc.Content, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentColumns).
			AddRow("doc-id", "client-id", "KYC summary", "Verified documents.", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("doc-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-id")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "doc-id", doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByClientID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(documentColumns).
		AddRow("doc-2", "client-id", "Newer", "b", time.Now()).
		AddRow("doc-1", "client-id", "Older", "a", time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE client_id = (.+) ORDER BY created_at DESC").
		WithArgs("client-id").
		WillReturnRows(rows)

	docs, err := repo.ListByClientID(ctx, "client-id")

	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SearchByTerms(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	page := model.Pagination{Limit: 20, Offset: 0}

	t.Run("empty terms short-circuit", func(t *testing.T) {
		res, err := repo.SearchByTerms(ctx, nil, page)

		assert.NoError(t, err)
		assert.Empty(t, res.Results)
		assert.Zero(t, res.TotalCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terms joined disjunctively", func(t *testing.T) {
		// Expansion terms become a single websearch query string.
		wsQuery := "estate planning OR inheritance planning OR wills"

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs(wsQuery).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		rows := sqlmock.NewRows(append(documentColumns, "rank")).
			AddRow("doc-1", "client-1", "Estate planning intro", "...", time.Now(), 0.61).
			AddRow("doc-2", "client-2", "Wills and trusts", "...", time.Now(), 0.32)

		mock.ExpectQuery("ts_rank_cd(.+)ORDER BY rank DESC, created_at DESC").
			WithArgs(wsQuery, page.Limit, page.Offset).
			WillReturnRows(rows)

		res, err := repo.SearchByTerms(ctx, []string{"estate planning", "inheritance planning", "wills"}, page)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), res.TotalCount)
		assert.Len(t, res.Results, 2)
		assert.GreaterOrEqual(t, res.Results[0].Score, res.Results[1].Score)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count query error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs("bonds").
			WillReturnError(sql.ErrConnDone)

		res, err := repo.SearchByTerms(ctx, []string{"bonds"}, page)

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}
