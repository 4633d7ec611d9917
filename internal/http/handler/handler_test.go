package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/repository"
	"github.com/bogatovam/wealth-search-api/internal/service"
	serviceMocks "github.com/bogatovam/wealth-search-api/internal/service/mocks"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateClient(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Post("/clients", CreateClient(mockSvc))

	postJSON := func(payload any) *http.Request {
		b, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("success", func(t *testing.T) {
		in := service.CreateClientInput{
			FirstName: "Alice", LastName: "Nguyen",
			Email: "alice@neviswealth.com", CountryOfResidence: "CH",
		}
		expected := &model.Client{ID: uuid.New().String(), Email: in.Email, CompanyKey: "neviswealth"}
		mockSvc.On("Create", mock.Anything, in).Return(expected, nil).Once()

		resp, _ := app.Test(postJSON(in))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Client
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		in := service.CreateClientInput{Email: "not-an-email"}
		mockSvc.On("Create", mock.Anything, in).
			Return(nil, &service.ValidationError{Msg: "invalid email address"}).Once()

		resp, _ := app.Test(postJSON(in))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		in := service.CreateClientInput{
			FirstName: "Alice", LastName: "Nguyen", Email: "alice@neviswealth.com",
		}
		mockSvc.On("Create", mock.Anything, in).Return(nil, repository.ErrDuplicateEmail).Once()

		resp, _ := app.Test(postJSON(in))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "DUPLICATE_EMAIL", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})
}

func TestGetClient(t *testing.T) {
	mockSvc := new(serviceMocks.MockClientService)
	app := fiber.New()
	app.Get("/clients/:clientId", GetClient(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.Client{ID: id, Email: "bob@shoreline.uk.com"}
		mockSvc.On("Get", mock.Anything, id).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/clients/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Client
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/clients/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/clients/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestCreateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/clients/:clientId/documents", CreateDocument(mockSvc))

	clientID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		in := service.CreateDocumentInput{Title: "Q3 portfolio review", Content: "Rebalancing notes"}
		expected := &model.Document{ID: uuid.New().String(), ClientID: clientID, Title: in.Title}
		mockSvc.On("Create", mock.Anything, clientID, in).Return(expected, nil).Once()

		b, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPost, "/clients/"+clientID+"/documents", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("client not found", func(t *testing.T) {
		in := service.CreateDocumentInput{Title: "t", Content: "c"}
		mockSvc.On("Create", mock.Anything, clientID, in).Return(nil, service.ErrNotFound).Once()

		b, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPost, "/clients/"+clientID+"/documents", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clients/nope/documents", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListClientDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/clients/:clientId/documents", ListClientDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		clientID := uuid.New().String()
		docs := []model.Document{{ID: uuid.New().String(), ClientID: clientID, Title: "KYC summary"}}
		mockSvc.On("ListByClient", mock.Anything, clientID).Return(docs, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/clients/"+clientID+"/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("client not found", func(t *testing.T) {
		clientID := uuid.New().String()
		mockSvc.On("ListByClient", mock.Anything, clientID).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/clients/"+clientID+"/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestSearchClients(t *testing.T) {
	mockSvc := new(serviceMocks.MockSearchService)
	app := fiber.New()
	app.Get("/search/clients", SearchClients(mockSvc))

	t.Run("success with total count header", func(t *testing.T) {
		expected := &model.SearchResult[model.Client]{
			Results: []model.SearchHit[model.Client]{
				{Entity: model.Client{ID: uuid.New().String(), CompanyKey: "neviswealth"}, Score: 0.92},
			},
			TotalCount: 42,
		}
		page := model.Pagination{Limit: 10, Offset: 0}
		mockSvc.On("SearchClients", mock.Anything, "nevis wealth", page).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/search/clients?q=nevis+wealth&limit=10", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "42", resp.Header.Get("X-Total-Count"))

		var result model.SearchResult[model.Client]
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Results, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("default pagination", func(t *testing.T) {
		mockSvc.On("SearchClients", mock.Anything, "acme", model.DefaultPagination()).
			Return(model.EmptySearchResult[model.Client](), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/search/clients?q=acme", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "0", resp.Header.Get("X-Total-Count"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search/clients?q=acme&limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LIMIT", res.Error.Code)
	})

	t.Run("limit above maximum", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search/clients?q=acme&limit=101", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("negative offset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search/clients?q=acme&offset=-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_OFFSET", res.Error.Code)
	})

	t.Run("empty query rejected by service", func(t *testing.T) {
		mockSvc.On("SearchClients", mock.Anything, "", model.DefaultPagination()).
			Return(nil, &service.ValidationError{Msg: "query should not be empty"}).Once()

		req := httptest.NewRequest(http.MethodGet, "/search/clients", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "query should not be empty", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestSearchDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockSearchService)
	app := fiber.New()
	app.Get("/search/documents", SearchDocuments(mockSvc))

	t.Run("success with total count header", func(t *testing.T) {
		expected := &model.SearchResult[model.Document]{
			Results: []model.SearchHit[model.Document]{
				{Entity: model.Document{ID: uuid.New().String(), Title: "Estate planning"}, Score: 0.31},
			},
			TotalCount: 7,
		}
		mockSvc.On("SearchDocuments", mock.Anything, "estate", model.DefaultPagination()).
			Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/search/documents?q=estate", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "7", resp.Header.Get("X-Total-Count"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("SearchDocuments", mock.Anything, "estate", model.DefaultPagination()).
			Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/search/documents?q=estate", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocumentSummary(t *testing.T) {
	mockCoord := new(serviceMocks.MockSummaryCoordinator)
	app := fiber.New()
	app.Get("/documents/:documentId/summary", GetDocumentSummary(mockCoord))

	t.Run("success", func(t *testing.T) {
		docID := uuid.New().String()
		job := &model.SummaryJob{ID: uuid.New().String(), DocumentID: docID, Status: model.SummaryInProgress}
		mockCoord.On("RequestSummary", mock.Anything, docID).Return(job, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+docID+"/summary", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.SummaryJob
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, job.ID, result.ID)
		assert.Equal(t, model.SummaryInProgress, result.Status)
		mockCoord.AssertExpectations(t)
	})

	t.Run("document not found", func(t *testing.T) {
		docID := uuid.New().String()
		mockCoord.On("RequestSummary", mock.Anything, docID).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+docID+"/summary", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockCoord.AssertExpectations(t)
	})

	t.Run("lock timeout", func(t *testing.T) {
		docID := uuid.New().String()
		mockCoord.On("RequestSummary", mock.Anything, docID).Return(nil, service.ErrLockTimeout).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+docID+"/summary", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "LOCK_TIMEOUT", res.Error.Code)
		mockCoord.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid/summary", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	clientSvc := new(serviceMocks.MockClientService)
	docSvc := new(serviceMocks.MockDocumentService)
	searchSvc := new(serviceMocks.MockSearchService)
	coord := new(serviceMocks.MockSummaryCoordinator)
	RegisterRoutes(app, nil, clientSvc, docSvc, searchSvc, coord)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
