// Copyright (c) 2026 Ultimate Library. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fabinnerself/ultimate-library/internal/books"
	"github.com/fabinnerself/ultimate-library/internal/platform/config"
	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
	"github.com/fabinnerself/ultimate-library/internal/platform/identity"
	"github.com/fabinnerself/ultimate-library/internal/platform/middleware"
	"github.com/fabinnerself/ultimate-library/internal/users"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here; no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler. Always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. Returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Users handles sessions, self-service profiles, and account administration.
	Users *users.Handler

	// Books handles the public catalogue and its protected mutations.
	Books *books.Handler
}

// Dependencies carries the cross-cutting collaborators of the router.
type Dependencies struct {
	// Verifier checks bearer tokens on incoming requests.
	Verifier middleware.TokenVerifier

	// Resolver loads the principal behind a verified token subject.
	Resolver identity.Resolver

	// SharedLimiter, when non-nil, replaces the in-process rate limiter
	// with one backed by shared storage.
	SharedLimiter middleware.SharedLimiter
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	if deps.SharedLimiter != nil {
		r.Use(middleware.SharedRateLimit(deps.SharedLimiter, log))
	} else {
		r.Use(middleware.RateLimit(context))
	}
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(deps.Verifier, deps.Resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Users.AuthRoutes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/books", h.Books.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
