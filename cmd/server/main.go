package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/kebaikan/internal"
	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/clock"
	"github.com/DukeRupert/kebaikan/internal/credential"
	"github.com/DukeRupert/kebaikan/internal/donation"
	"github.com/DukeRupert/kebaikan/internal/handler"
	"github.com/DukeRupert/kebaikan/internal/metrics"
	"github.com/DukeRupert/kebaikan/internal/middleware"
	"github.com/DukeRupert/kebaikan/internal/session"
	"github.com/DukeRupert/kebaikan/internal/simulate"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	clk := clock.New()
	cat := catalog.NewDefault()

	// Simulated collaborators
	backend := credential.NewSimulatedBackend(simulate.Uniform())
	gateway, err := donation.NewSimulatedGateway(simulate.Uniform(), cfg.PaymentFailureRate)
	if err != nil {
		return fmt.Errorf("payment gateway initialization failed: %w", err)
	}

	store := session.NewStore(session.Options{
		Clock:       clk,
		Catalog:     cat,
		Backend:     backend,
		Gateway:     gateway,
		Form:        cfg.FormConfig(),
		Donation:    cfg.DonationConfig(),
		IdleTimeout: cfg.SessionIdleTimeout,
		Logger:      logger,
	})
	defer store.Close()
	logger.Info("Catalog ready", "campaigns", len(cat.All()))
	logger.Info("Payment gateway ready", "failure_rate", gateway.FailureRate())

	// Initialize middleware
	isSecure := !cfg.IsDevelopment()
	sessionMw := middleware.NewSessionMiddleware(store, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	csrfMw := middleware.NewCSRFMiddleware(logger, int(cfg.SessionIdleTimeout.Seconds()), isSecure, "POST /api/sessions")

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, clk)
	defer limiter.Close()
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter, logger)

	// Initialize handlers
	h := handler.New(store, cat, logger, isSecure, cfg.SessionIdleTimeout)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	requireSession := sessionMw.RequireSession
	requireLogin := sessionMw.RequireLogin
	h.RegisterRoutes(mux, requireSession, requireLogin)

	// Prometheus metrics
	metricsAuth := middleware.BasicAuth("metrics", cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth(promhttp.Handler()))
	if cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		logger.Warn("Metrics endpoint is unprotected")
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	stack := middleware.Stack(
		metrics.Middleware,
		securityMw.Handler,
		sessionMw.WithSession,
		loggingMw.Handler,
		rateLimitMw.Limit,
		csrfMw.Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-sigChan:
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	closed := store.Close()
	logger.Info("Graceful shutdown complete", "sessions_closed", closed)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
