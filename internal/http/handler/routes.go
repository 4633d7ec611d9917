package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/bogatovam/wealth-search-api/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	clientSvc service.ClientService,
	docSvc service.DocumentService,
	searchSvc service.SearchService,
	summaries service.SummaryCoordinator,
) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/clients", CreateClient(clientSvc))
	app.Get("/clients/:clientId", GetClient(clientSvc))
	app.Post("/clients/:clientId/documents", CreateDocument(docSvc))
	app.Get("/clients/:clientId/documents", ListClientDocuments(docSvc))

	app.Get("/search/clients", SearchClients(searchSvc))
	app.Get("/search/documents", SearchDocuments(searchSvc))

	app.Get("/documents/:documentId/summary", GetDocumentSummary(summaries))
}
