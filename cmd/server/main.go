package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1uv0cean/fwd-link/internal"
	"github.com/1uv0cean/fwd-link/internal/billing"
	"github.com/1uv0cean/fwd-link/internal/email"
	"github.com/1uv0cean/fwd-link/internal/handler"
	"github.com/1uv0cean/fwd-link/internal/jobs"
	"github.com/1uv0cean/fwd-link/internal/metrics"
	"github.com/1uv0cean/fwd-link/internal/middleware"
	"github.com/1uv0cean/fwd-link/internal/repository"
	"github.com/1uv0cean/fwd-link/internal/service"
	"github.com/1uv0cean/fwd-link/internal/storage"
	"github.com/1uv0cean/fwd-link/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Initialize email delivery
	emailService, err := email.NewSMTPEmailService(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, cfg.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("email initialization failed: %w", err)
	}

	// Initialize billing (optional in development). The webhook verifier is
	// always constructed so an unexpected delivery gets a 500, but the
	// checkout handler only sees the service when billing is configured.
	webhookVerifier := billing.NewLemonSqueezyService(cfg.LemonSqueezyWebhookSecret, cfg.LemonSqueezyCheckoutURL)
	var billingService billing.Service
	if cfg.BillingEnabled() {
		billingService = webhookVerifier
		logger.Info("Billing enabled")
	} else {
		logger.Warn("Billing is not configured; upgrade endpoints are disabled")
	}

	// Initialize services
	userService := service.NewUserService(repo, logger)
	quoteService := service.NewQuoteService(db, repo, cfg.FreeQuotaLimit, logger)
	bookingService := service.NewBookingService(repo, logger)
	brandingService := service.NewBrandingService(repo, store, service.NewImagingProcessor(), logger)
	subscriptionService := service.NewSubscriptionService(repo, logger)

	// Initialize background worker
	var jobWorker *worker.Worker
	if cfg.WorkerEnabled {
		jobWorker, err = worker.New(db, repo, worker.Config{
			Concurrency:       cfg.WorkerConcurrency,
			PollInterval:      cfg.WorkerPollInterval,
			JobTimeout:        cfg.WorkerJobTimeout,
			ShutdownTimeout:   30 * time.Second,
			StaleJobThreshold: 10 * time.Minute,
		}, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}

		jobWorker.Register(jobs.NewSendBookingEmailHandler(repo, emailService, logger))
		jobWorker.Start(ctx)
		logger.Info("Worker started", "concurrency", cfg.WorkerConcurrency)
	} else {
		logger.Warn("Worker is disabled; booking notifications will queue but not send")
	}

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	authLimiter := middleware.NewAuthRateLimiter(logger)

	// Middleware stacks
	requireUser := middleware.Stack(authMw.WithUser, authMw.RequireUser)
	requirePro := middleware.Stack(authMw.WithUser, authMw.RequireUser, authMw.RequireActiveSubscription)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, logger, isSecure)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, logger)
	brandingHandler := handler.NewBrandingHandler(brandingService, logger)
	billingHandler := handler.NewBillingHandler(billingService, logger)
	webhookHandler := handler.NewWebhookHandler(webhookVerifier, subscriptionService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth; unprotected if no credentials are configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Locally stored files (logos) in development
	if cfg.StorageProvider == "local" {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	authHandler.RegisterRoutes(mux, authLimiter.LimitLogin, authLimiter.LimitRegister, authMw.WithUser)
	quoteHandler.RegisterRoutes(mux, authMw.WithUser, requireUser)
	bookingHandler.RegisterRoutes(mux, authLimiter.LimitBooking, requireUser)
	brandingHandler.RegisterRoutes(mux, requireUser, requirePro)
	billingHandler.RegisterRoutes(mux, requireUser)
	webhookHandler.RegisterRoutes(mux)

	// Global middleware, innermost first
	root := metrics.Middleware(mux)
	root = loggingMw.Handler(root)
	root = securityMw.Handler(root)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if jobWorker != nil {
		jobWorker.Stop()
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage builds the configured storage backend.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case "r2":
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
