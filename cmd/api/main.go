package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bogatovam/wealth-search-api/internal/config"
	"github.com/bogatovam/wealth-search-api/internal/database"
	"github.com/bogatovam/wealth-search-api/internal/database/migration"
	handlers "github.com/bogatovam/wealth-search-api/internal/http/handler"
	"github.com/bogatovam/wealth-search-api/internal/http/middleware"
	"github.com/bogatovam/wealth-search-api/internal/llm"
	"github.com/bogatovam/wealth-search-api/internal/otel"
	"github.com/bogatovam/wealth-search-api/internal/repository/postgres"
	"github.com/bogatovam/wealth-search-api/internal/search"
	"github.com/bogatovam/wealth-search-api/internal/service"
	"github.com/bogatovam/wealth-search-api/internal/worker"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc := time.UTC

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Repositories
	clientRepo := postgres.NewClientPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	jobRepo := postgres.NewSummaryJobPostgres(db)

	// LLM boundary and query expansion
	ollama := llm.NewOllamaClient(cfg.Ollama)
	llmTimeout := time.Duration(cfg.Ollama.TimeoutSec) * time.Second
	expander := search.NewExpander(ollama, cfg.Expansion, llmTimeout)

	// Services
	clientSvc := service.NewClientService(clientRepo)
	docSvc := service.NewDocumentService(docRepo, clientRepo)
	searchSvc := service.NewSearchService(clientRepo, docRepo, expander)

	pool := worker.New(cfg.Summary.Workers)
	summaries := service.NewSummaryCoordinator(docRepo, jobRepo, ollama, pool, cfg.Summary, llmTimeout)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	// Prometheus request counting plus the /metrics scrape endpoint
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, clientSvc, docSvc, searchSvc, summaries)

	// Shut down in order: stop accepting requests, drain summary workers,
	// flush traces.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	pool.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
