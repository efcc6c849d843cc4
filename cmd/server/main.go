package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logineko/internal/apiclient"
	"logineko/internal/config"
	"logineko/internal/database"
	"logineko/internal/handlers"
	"logineko/internal/metrics"
	"logineko/internal/repository"
	"logineko/internal/security"
	"logineko/internal/session"
	"logineko/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.UsesDefaultSecret() {
		log.Println("Warning: SESSION_SECRET is not set; using the development default")
	}

	ctx := context.Background()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Session store, restored from client storage
	store, err := session.Init(ctx, repository.NewStorageRepository(db), security.NewSealer(cfg.SessionSecret))
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	log.Printf("Session store ready (%d signed-in sessions restored)", store.Count())

	// Observability
	m := metrics.New(func() float64 { return float64(store.Count()) })
	traces, err := telemetry.InitTracer(cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Backend API client
	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithTokenSource(store),
		apiclient.WithObserver(m),
		apiclient.WithTracer(telemetry.Tracer("logineko-admin/apiclient")),
	)

	log.Printf("Using backend API at %s", api.BaseURL())

	// Load templates
	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	handler := handlers.NewRouter(handlers.Deps{
		Templates:      templates,
		Store:          store,
		API:            api,
		Metrics:        m,
		SessionSecret:  cfg.SessionSecret,
		LoginRateLimit: cfg.LoginRateLimit,
		UploadMaxSize:  cfg.UploadMaxSize,
		StaticPath:     cfg.StaticFilesPath,
		StatsYear:      cfg.StatsYear,
		Limiter:        limiter,
	})

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Minute, // video uploads
		WriteTimeout: cfg.APITimeout + 5*time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start background rate limiter cleanup
	go cleanupRateLimiter(limiter)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	traces.Shutdown(shutdownCtx)
}

// cleanupRateLimiter periodically forgets idle login rate limit entries
func cleanupRateLimiter(limiter *security.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		limiter.Cleanup()
	}
}
