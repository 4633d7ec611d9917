package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/bogatovam/wealth-search-api/internal/model"
	"github.com/bogatovam/wealth-search-api/internal/service"
)

// parsePagination reads limit and offset query params, applying the shared
// defaults. Returns false after writing a 400 response when either is not a
// number or out of range.
func parsePagination(c *fiber.Ctx) (model.Pagination, bool) {
	page := model.DefaultPagination()

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > model.MaxPageLimit {
			_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer within [1,100]")
			return page, false
		}
		page.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "offset must be a non-negative integer")
			return page, false
		}
		page.Offset = offset
	}
	return page, true
}

// parseUUIDParam validates the named path parameter as a UUID. Returns false
// after writing a 400 response when it is malformed.
func parseUUIDParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

// HealthCheck reports dependency health by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain process-up check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateClient registers a new client.
func CreateClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateClientInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		client, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(client)
	}
}

// GetClient returns a client by ID.
func GetClient(svc service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseUUIDParam(c, "clientId")
		if !ok {
			return nil
		}
		client, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(client)
	}
}

// CreateDocument stores a new document under an existing client.
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, ok := parseUUIDParam(c, "clientId")
		if !ok {
			return nil
		}
		var in service.CreateDocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		doc, err := svc.Create(c.UserContext(), clientID, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListClientDocuments returns a client's documents, newest first.
func ListClientDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, ok := parseUUIDParam(c, "clientId")
		if !ok {
			return nil
		}
		docs, err := svc.ListByClient(c.UserContext(), clientID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// SearchClients fuzzy-searches clients by company key derived from the query.
// The full pre-pagination match count is exposed via X-Total-Count.
func SearchClients(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := parsePagination(c)
		if !ok {
			return nil
		}
		res, err := svc.SearchClients(c.UserContext(), c.Query("q"), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set("X-Total-Count", strconv.FormatInt(res.TotalCount, 10))
		return c.JSON(res)
	}
}

// SearchDocuments runs the expansion-broadened full-text search over documents.
func SearchDocuments(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := parsePagination(c)
		if !ok {
			return nil
		}
		res, err := svc.SearchDocuments(c.UserContext(), c.Query("q"), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set("X-Total-Count", strconv.FormatInt(res.TotalCount, 10))
		return c.JSON(res)
	}
}

// GetDocumentSummary returns the summary job for a document, triggering
// generation when no attempt is active.
func GetDocumentSummary(coord service.SummaryCoordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		documentID, ok := parseUUIDParam(c, "documentId")
		if !ok {
			return nil
		}
		job, err := coord.RequestSummary(c.UserContext(), documentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(job)
	}
}
