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

	"github.com/jackc/pgx/v5/pgxpool"

	"booklibrary/internal/auth"
	"booklibrary/internal/book"
	"booklibrary/internal/config"
	"booklibrary/internal/httpx"
	"booklibrary/internal/platform/logging"
	"booklibrary/internal/platform/memstore"
	"booklibrary/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := openStorage(cfg)
	if err != nil {
		logger.Error("cannot open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.close()

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	handler := newServer(cfg, logger, store, rateLimiter)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go auth.RunCleanup(ctx, store.revocations, time.Hour)

	go func() {
		logger.Info("starting server", "addr", cfg.Addr, "storage", cfg.StorageDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// storage bundles the repositories of one backend with its readiness probe.
type storage struct {
	users       user.Repository
	books       book.Repository
	revocations auth.Revocations
	ping        func(context.Context) error
	close       func()
}

func openStorage(cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return openMemoryStorage()
	}

	pool, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return &storage{
		users:       user.NewPostgresRepo(pool, cfg.DBTimeout),
		books:       book.NewPostgresRepo(pool, cfg.DBTimeout),
		revocations: auth.NewPostgresRevocations(pool, cfg.DBTimeout),
		ping:        pool.Ping,
		close:       pool.Close,
	}, nil
}

func openMemoryStorage() (*storage, error) {
	db, err := memstore.New()
	if err != nil {
		return nil, err
	}
	return &storage{
		users:       user.NewMemoryRepo(db),
		books:       book.NewMemoryRepo(db),
		revocations: auth.NewMemoryRevocations(db),
		ping:        func(context.Context) error { return nil },
		close:       func() {},
	}, nil
}

func openDB(dsn string) (*pgxpool.Pool, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		slog.Error("cannot ping database", "dsn", config.RedactDSN(dsn), "error", err)
		return nil, err
	}
	slog.Info("database connection OK")
	return pool, nil
}
