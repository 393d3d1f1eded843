// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the MangaShelf HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables.
//  2. Initialize structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services, the event bus and HTTP handlers.
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

	"github.com/taibuivan/mangashelf/internal/api"
	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/catalog/reference"
	"github.com/taibuivan/mangashelf/internal/library/mangalist"
	"github.com/taibuivan/mangashelf/internal/library/notification"
	"github.com/taibuivan/mangashelf/internal/platform/config"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/logger"
	"github.com/taibuivan/mangashelf/internal/platform/migration"
	pgstore "github.com/taibuivan/mangashelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangashelf/internal/platform/redis"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/storage"
	"github.com/taibuivan/mangashelf/internal/social/comment"
	"github.com/taibuivan/mangashelf/internal/social/rating"
	"github.com/taibuivan/mangashelf/internal/users/account"
	"github.com/taibuivan/mangashelf/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Errors here are printed by a bootstrap logger, the real one needs cfg.
	cfg, err := config.Load()
	must(slog.New(slog.NewJSONHandler(os.Stderr, nil)), err, "load configuration")

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, closeLog := logger.New(logger.Options{
		App:        constants.AppName,
		Debug:      cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompression,
	})
	defer func() { _ = closeLog() }()
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log, pgstore.PoolOptions{
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Shared infrastructure ──────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	media := storage.NewLocal(cfg.MediaRoot, cfg.MediaBaseURL)
	bus := events.NewBus(log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	referenceService := reference.NewService(reference.NewPostgresRepository(pool), log)
	mangaService := manga.NewService(manga.NewPostgresRepository(pool), media, log)
	chapterService := chapter.NewService(chapter.NewPostgresRepository(pool), mangaService, media, bus, log)
	ratingService := rating.NewService(rating.NewPostgresRepository(pool), mangaService, log)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), mangaService, chapterService, log)

	accountService := account.NewService(
		account.NewPostgresRepository(pool),
		account.NewRedisTokenStore(rdb),
		media,
		account.LogMailer{Logger: log},
		log,
	)
	authService := auth.NewService(accountService, auth.NewRedisSessionStore(rdb), jwtSvc, log)

	listService := mangalist.NewService(mangalist.NewPostgresRepository(pool), mangaService, log)
	notificationService := notification.NewService(notification.NewPostgresRepository(pool), listService, chapterService, log)
	notificationService.Register(bus)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Media:        http.FileServer(http.Dir(media.Root())),
		Auth:         auth.NewHandler(authService),
		Account:      account.NewHandler(accountService),
		Reference:    reference.NewHandler(referenceService),
		Manga:        manga.NewHandler(mangaService),
		Chapter:      chapter.NewHandler(chapterService),
		Rating:       rating.NewHandler(ratingService),
		Comment:      comment.NewHandler(commentService),
		MangaList:    mangalist.NewHandler(listService),
		Notification: notification.NewHandler(notificationService),
	}

	rootCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()

	server := api.NewServer(rootCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_start_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
