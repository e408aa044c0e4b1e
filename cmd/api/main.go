package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/catalog"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/loan"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"
	"libraryapi/internal/session"
	"libraryapi/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

const revocationCleanupInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}

	log, closer, err := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Dir:         cfg.LogDir,
		ServiceName: "libraryapi",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.Open(ctx, cfg.DB.DSN, 2*time.Second)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("database connection OK", "dsn", postgres.RedactDSN(cfg.DB.DSN))

	revocations, err := newRevocations(ctx, cfg, dbPool, log)
	if err != nil {
		return err
	}

	realClock := clock.NewRealClock()
	catalogService := catalog.NewService(catalog.NewPostgresRepo(dbPool, cfg.DB.Timeout), realClock)
	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.DB.Timeout), catalogService, realClock)
	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DB.Timeout))
	authService := auth.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, userService, revocations)
	loanEngine := loan.NewEngine(loan.NewPostgresStore(dbPool, cfg.DB.Timeout), realClock, log)

	router := newRouter(handlers{
		auth:    auth.NewHTTPHandler(authService),
		users:   user.NewHTTPHandler(userService),
		catalog: catalog.NewHTTPHandler(catalogService),
		books:   book.NewHTTPHandler(bookService),
		loans:   loan.NewHTTPHandler(loanEngine),
	}, routerConfig{
		jwtSecret:   cfg.JWTSecret,
		identities:  userService,
		revocations: revocations,
		ready:       dbPool.Ping,
	})

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(
		httpx.MetricsMiddleware(router),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newRevocations prefers Redis when REDIS_ADDR is set and falls back to the
// token_revocations table, which needs periodic cleanup.
func newRevocations(ctx context.Context, cfg config.APIConfig, dbPool *pgxpool.Pool, log *slog.Logger) (session.Revocations, error) {
	if cfg.RedisAddr != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, 2*time.Second)
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, func() { _ = client.Close() })
		log.Info("revocation list backend", "backend", "redis")
		return session.NewRedisRevocations(client), nil
	}

	revocations := session.NewPostgresRevocations(dbPool, cfg.DB.Timeout)
	go session.RunCleanup(ctx, revocations, revocationCleanupInterval, log)
	log.Info("revocation list backend", "backend", "postgres")
	return revocations, nil
}
