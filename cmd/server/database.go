package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/sqlstore"
)

// DriverMemory selects the in-process stores; no database is opened.
const DriverMemory = "memory"

// setupAppDatabase opens and pings the configured database and applies
// pending migrations when auto_migrate is set. For the memory driver it
// returns a nil *sql.DB.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, sqlstore.Dialect, error) {
	if cfg.Driver == DriverMemory {
		logger.Warn("Using in-memory stores; data is lost on restart")
		return nil, sqlstore.Dialect{}, nil
	}

	db, dialect, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, sqlstore.Dialect{}, err
	}

	if cfg.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, dialect, "up", logger); err != nil {
			_ = db.Close()
			return nil, sqlstore.Dialect{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	logger.Info("Database connection established", "driver", dialect.Name)
	return db, dialect, nil
}

// openDatabase opens a pooled connection for the configured SQL driver and
// verifies it with a ping.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, sqlstore.Dialect, error) {
	dialect, err := sqlstore.DialectFor(cfg.Driver)
	if err != nil {
		return nil, sqlstore.Dialect{}, err
	}

	db, err := sql.Open(dialect.DriverName, dialect.PrepareDSN(cfg.URL))
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, sqlstore.Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, dialect, nil
}
