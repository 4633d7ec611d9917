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
	"github.com/bogatovam/wealth-search-api/internal/search"
)

// CreateClientInput carries the fields of a client registration request.
type CreateClientInput struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	CountryOfResidence string `json:"country_of_residence"`
}

// ClientService defines the use cases for managing clients.
type ClientService interface {
	// Create registers a new client. The email is lowercased and the
	// company key is derived from its domain before persisting; both are
	// immutable afterwards. Returns repository.ErrDuplicateEmail when the
	// email is taken.
	Create(ctx context.Context, in CreateClientInput) (*model.Client, error)

	// Get returns a client by its ID.
	Get(ctx context.Context, id string) (*model.Client, error)
}

type clientService struct {
	clients repository.ClientRepository
}

// NewClientService constructs a new ClientService.
func NewClientService(clients repository.ClientRepository) ClientService {
	return &clientService{clients: clients}
}

func (s *clientService) Create(ctx context.Context, in CreateClientInput) (*model.Client, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, validationErrorf("first name and last name are required")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	companyKey, err := search.CompanyKey(email)
	if err != nil {
		return nil, validationErrorf("invalid email address: %q", in.Email)
	}

	client := &model.Client{
		ID:                 uuid.NewString(),
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              email,
		CountryOfResidence: strings.ToUpper(strings.TrimSpace(in.CountryOfResidence)),
		CompanyKey:         companyKey,
		CreatedAt:          time.Now().UTC(),
	}
	return s.clients.Create(ctx, client)
}

func (s *clientService) Get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return client, nil
}
