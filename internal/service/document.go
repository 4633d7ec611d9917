package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
)

// CreateDocumentInput carries the fields of a document creation request.
type CreateDocumentInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentService defines the use cases for managing documents.
type DocumentService interface {
	// Create stores a document for an existing client. Returns
	// ErrNotFound when the client is absent.
	Create(ctx context.Context, clientID string, in CreateDocumentInput) (*model.Document, error)

	// ListByClient returns the client's documents, newest first.
	ListByClient(ctx context.Context, clientID string) ([]model.Document, error)
}

type documentService struct {
	documents repository.DocumentRepository
	clients   repository.ClientRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(documents repository.DocumentRepository, clients repository.ClientRepository) DocumentService {
	return &documentService{documents: documents, clients: clients}
}

func (s *documentService) Create(ctx context.Context, clientID string, in CreateDocumentInput) (*model.Document, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationErrorf("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, validationErrorf("content is required")
	}

	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := &model.Document{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: time.Now().UTC(),
	}
	return s.documents.Create(ctx, doc)
}

func (s *documentService) ListByClient(ctx context.Context, clientID string) ([]model.Document, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.documents.ListByClientID(ctx, clientID)
}
