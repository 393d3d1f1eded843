// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/catalog/reference"
	"github.com/taibuivan/mangashelf/internal/library/mangalist"
	"github.com/taibuivan/mangashelf/internal/library/notification"
	"github.com/taibuivan/mangashelf/internal/platform/config"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/middleware"
	"github.com/taibuivan/mangashelf/internal/social/comment"
	"github.com/taibuivan/mangashelf/internal/social/rating"
	"github.com/taibuivan/mangashelf/internal/users/account"
	"github.com/taibuivan/mangashelf/internal/users/auth"
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
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Media serves stored images under the configured media URL.
	Media http.Handler

	Auth         *auth.Handler
	Account      *account.Handler
	Reference    *reference.Handler
	Manga        *manga.Handler
	Chapter      *chapter.Handler
	Rating       *rating.Handler
	Comment      *comment.Handler
	MangaList    *mangalist.Handler
	Notification *notification.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	if h.Media != nil {
		prefix := "/" + strings.Trim(cfg.MediaBaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, h.Media))
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.With(middleware.RateLimitWith(context, constants.AuthRateLimitRPS, constants.AuthRateLimitBurst)).
			Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.UserRoutes())

		// Nested collections resolve the manga or chapter from {slug}.
		api.Mount("/manga/{slug}/chapters", h.Chapter.MangaRoutes())
		api.Mount("/manga/{slug}/rating", h.Rating.Routes())
		api.Mount("/manga/{slug}/comments", h.Comment.MangaRoutes())
		api.Mount("/manga", h.Manga.Routes())

		api.Mount("/chapters/{slug}/comments", h.Comment.ChapterRoutes())
		api.Mount("/chapters", h.Chapter.Routes())
		api.Mount("/pages", h.Chapter.PageRoutes())
		api.Mount("/comments", h.Comment.Routes())

		api.Route("/me", func(me chi.Router) {
			me.Use(middleware.RequireAuth)
			me.Mount("/list", h.MangaList.Routes())
			me.Mount("/notifications", h.Notification.Routes())
			me.Mount("/", h.Account.MeRoutes())
		})

		api.Mount("/", h.Reference.Routes())
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

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
