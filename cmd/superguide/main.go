// Package main is the entry point for the SuperGuide API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"superguide/internal/cache"
	"superguide/internal/config"
	"superguide/internal/database"
	"superguide/internal/export"
	"superguide/internal/guide"
	"superguide/internal/handlers"
	"superguide/internal/middleware"
	"superguide/internal/router"
	"superguide/internal/session"
	"superguide/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	resourceStore := store.NewResourceStore(db)
	categoryStore := store.NewCategoryStore(db)
	reportStore := store.NewReportStore(db)
	userStore := store.NewUserStore(db)
	errorEventStore := store.NewErrorEventStore(db)

	// Probe for optional schema features added by later migrations.
	if err := categoryStore.DetectCapabilities(); err != nil {
		slog.Error("failed to detect schema capabilities", "error", err)
		os.Exit(1)
	}

	// Valkey-backed directory cache for the public listings.
	dirCache := cache.NewDirectoryCache(valkeyClient, cache.DefaultDirectoryTTL)

	// Personal guide service: anonymous selections stored in Valkey.
	guideService := guide.NewService(guide.NewValkeyStore(valkeyClient), resourceStore)

	// Rate limiters for the anonymous write endpoints.
	limiters := router.Limiters{
		Login:   middleware.NewRateLimiter(10, time.Minute),
		Reports: middleware.NewRateLimiter(5, time.Minute),
		Errors:  middleware.NewRateLimiter(30, time.Minute),
	}
	defer limiters.Login.Stop()
	defer limiters.Reports.Stop()
	defer limiters.Errors.Stop()

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(resourceStore, categoryStore, errorEventStore, dirCache)
	guideHandlers := handlers.NewGuide(guideService, export.NewPDFRenderer())
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	adminHandlers := handlers.NewAdmin(resourceStore, categoryStore, reportStore, userStore, errorEventStore, dirCache)

	// Set up the chi router with all middleware and routes.
	r := router.New(sessionStore, publicHandlers, guideHandlers, authHandlers, adminHandlers, limiters, secureCookies)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// the PDF export, which renders in memory and streams quickly.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
