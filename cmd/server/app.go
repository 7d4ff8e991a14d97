package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
	"github.com/phrazzld/storefront-api/internal/platform/sqlstore"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/store/memstore"
)

// application holds the long-lived dependencies shared by every request.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the memory driver is configured.
	db *sql.DB

	userStore    store.UserStore
	productStore store.ProductStore

	tokens *auth.TokenService
	hasher *auth.BcryptHasher

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// limiter is nil when rate limiting is disabled.
	limiter middleware.Limiter
	redis   *redis.Client
}

func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize token service; rejects secrets under 32 characters
	var err error
	app.tokens, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Token service initialized", "token_lifetime", app.tokens.TTL())

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// Without a database the memory driver is in use, so back the API with maps
	if db != nil {
		app.userStore = sqlstore.NewUserStore(db, dialect, logger)
		app.productStore = sqlstore.NewProductStore(db, dialect, logger)
	} else {
		app.userStore = memstore.NewUserStore()
		app.productStore = memstore.NewProductStore()
	}

	// Private registry so tests can build several applications in one process
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		app.registry.MustRegister(collectors.NewDBStatsCollector(db, dialect.Name))
	}
	app.metrics = metrics.New(app.registry)

	if err := app.setupRateLimiter(ctx); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRateLimiter picks the Redis limiter when a Redis URL is configured and
// the in-memory one otherwise.
func (app *application) setupRateLimiter(ctx context.Context) error {
	cfg := app.config.RateLimit
	if !cfg.Enabled {
		app.logger.Info("Rate limiting disabled")
		return nil
	}

	// Per-process buckets unless a shared Redis is configured
	if cfg.RedisURL == "" {
		app.limiter = middleware.NewMemoryLimiter(cfg.RequestsPerSecond, cfg.Burst)
	} else {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid rate limit redis url: %w", err)
		}
		app.redis = redis.NewClient(opts)

		// Fail startup rather than answer 500 on every request later
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := app.redis.Ping(pingCtx).Err(); err != nil {
			_ = app.redis.Close()
			return fmt.Errorf("failed to connect to rate limit redis: %w", err)
		}

		window := time.Duration(cfg.WindowSeconds) * time.Second
		app.limiter = middleware.NewRedisLimiter(app.redis, cfg.RequestsPerSecond, cfg.Burst, window)
	}

	app.logger.Info("Rate limiting enabled",
		middleware.LimiterAttr(app.limiter),
		"requests_per_second", cfg.RequestsPerSecond,
		"burst", cfg.Burst)
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// healthCheck reports whether the backing database answers.
func (app *application) healthCheck(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return app.db.PingContext(pingCtx)
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	// Close Redis before the database; both are safe to skip when unset
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
