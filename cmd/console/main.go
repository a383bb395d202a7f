// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Command console is the entry point for the EvidHub console backend.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) for the audit trail.
//  4. Connect to Redis for browser sessions.
//  5. Run database migrations (idempotent).
//  6. Wire the wallet provider, upstream client, and domain handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evidhub/console/internal/api"
	"github.com/evidhub/console/internal/audit"
	"github.com/evidhub/console/internal/auth"
	"github.com/evidhub/console/internal/dashboard"
	"github.com/evidhub/console/internal/platform/config"
	"github.com/evidhub/console/internal/platform/constants"
	"github.com/evidhub/console/internal/platform/migration"
	pgstore "github.com/evidhub/console/internal/platform/postgres"
	redisstore "github.com/evidhub/console/internal/platform/redis"
	"github.com/evidhub/console/internal/platform/sec"
	"github.com/evidhub/console/internal/session"
	"github.com/evidhub/console/internal/upstream"
	"github.com/evidhub/console/internal/wallet"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Cookie Signer ──────────────────────────────────────────
	cookieSigner, err := sec.NewCookieSigner(cfg.SessionSecret, constants.SessionIssuer)
	must(log, err, "initialize cookie signer")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckSessions: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────

	// The wallet provider is optional: without a configured endpoint every
	// wallet flow answers PROVIDER_UNAVAILABLE instead of failing startup.
	var provider wallet.Provider
	if cfg.WalletProviderURL != "" {
		provider = wallet.NewJSONRPCProvider(cfg.WalletProviderURL)
		log.Info("wallet_provider_configured", slog.String("endpoint", cfg.WalletProviderURL))
	} else {
		log.Warn("wallet_provider_not_configured")
	}
	requester := wallet.NewRequester(provider)

	apiClient := upstream.NewClient(cfg.UpstreamAPIURL)
	sessionStores := session.NewRedisStores(rdb, constants.SessionTTL)

	auditService := audit.NewService(audit.NewPostgresStore(pool), log)
	auditHandler := audit.NewHandler(auditService)

	authService := auth.NewService(requester, apiClient, sessionStores, auditService)
	authHandler := auth.NewHandler(authService, cookieSigner, cfg.IsProduction())

	dashboardService := dashboard.NewService(apiClient)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Dashboard: dashboardHandler,
		Audit:     auditHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, cookieSigner, sessionStores, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
