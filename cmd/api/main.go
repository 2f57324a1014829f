// Copyright (c) 2026 Ultimate Library. All rights reserved.

// Command api is the entry point for the Ultimate Library HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB.
//  4. Connect to Redis (optional, rate limiting).
//  5. Ensure collection indexes (idempotent).
//  6. Wire HTTP handlers.
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

	"github.com/fabinnerself/ultimate-library/internal/api"
	"github.com/fabinnerself/ultimate-library/internal/books"
	"github.com/fabinnerself/ultimate-library/internal/platform/config"
	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
	"github.com/fabinnerself/ultimate-library/internal/platform/middleware"
	"github.com/fabinnerself/ultimate-library/internal/platform/mongodb"
	redisstore "github.com/fabinnerself/ultimate-library/internal/platform/redis"
	"github.com/fabinnerself/ultimate-library/internal/platform/sec"
	"github.com/fabinnerself/ultimate-library/internal/users"
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

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	client, err := mongodb.Connect(startupCtx, cfg.MongoURI, log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("closing mongodb client")
		if cerr := client.Disconnect(context.Background()); cerr != nil {
			log.Error("mongodb disconnect error", slog.Any("error", cerr))
		}
	}()

	database := client.Database(cfg.DatabaseName)

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	// Without Redis the server falls back to the in-process rate limiter.
	var sharedLimiter middleware.SharedLimiter
	checkCache := (func() error)(nil)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sharedLimiter = redisstore.NewFixedWindowLimiter(rdb, int64(constants.DefaultRateLimitRPS), constants.RateLimitWindow)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}

	// ── 5. Indexes ────────────────────────────────────────────────────────
	must(log, mongodb.EnsureIndexes(startupCtx, database, log), "ensure indexes")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	jwtSvc := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.AccessTokenTTL())

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return mongodb.Ping(context.Background(), client)
		},
		CheckCache: checkCache,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := users.NewMongoRepository(database)
	userService := users.NewService(userRepository, jwtSvc, log)
	userHandler := users.NewHandler(userService)

	bookRepository := books.NewMongoRepository(database)
	bookService := books.NewService(bookRepository, log)
	bookHandler := books.NewHandler(bookService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Users:     userHandler,
		Books:     bookHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Dependencies{
		Verifier:      jwtSvc,
		Resolver:      userService,
		SharedLimiter: sharedLimiter,
	}, handlers)

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
