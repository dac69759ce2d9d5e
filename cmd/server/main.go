package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"wizard/internal/auth"
	"wizard/internal/config"
	"wizard/internal/handler"
	"wizard/internal/i18n"
	"wizard/internal/middleware"
	"wizard/internal/repository/postgres"
	authsvc "wizard/internal/service/auth"
	"wizard/internal/service/docs"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	historyRepo := postgres.NewHistoryRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Authorization gate backed by the embedded Cedar policy set
	authorizer, err := authsvc.NewCedarAuthorizer(projectRepo, logger)
	if err != nil {
		log.Fatalf("Failed to initialize authorizer: %v", err)
	}

	// Localized confirmation messages
	messages, err := i18n.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load message catalog: %v", err)
	}

	// Create services
	pageService := docs.NewPageService(docRepo, historyRepo, projectRepo, txManager, authorizer, logger)
	historyService := docs.NewHistoryService(historyRepo, docRepo, authorizer, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(pageService, messages, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Page form routes
	mux.HandleFunc("GET /project/{id}/doc/new", docHandler.NewPageForm)
	mux.HandleFunc("GET /project/{id}/doc/{page_id}/edit", docHandler.EditPageForm)

	// Page routes
	mux.HandleFunc("GET /project/{id}/doc/{page_id}", docHandler.GetPage)
	mux.HandleFunc("POST /project/{id}/doc", docHandler.CreatePage)
	mux.HandleFunc("POST /project/{id}/doc/{page_id}", docHandler.UpdatePage)
	mux.HandleFunc("DELETE /project/{id}/doc/{page_id}", docHandler.DeletePage)

	// History routes
	mux.HandleFunc("GET /project/{id}/doc/{page_id}/histories", historyHandler.ListHistories)
	mux.HandleFunc("GET /project/{id}/doc/{page_id}/histories/{history_id}", historyHandler.GetHistory)

	// Build middleware chain: CORS → logging → recovery → auth → routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestLogger(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
