package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/platform/postgres"
)

const databasePingTimeout = 5 * time.Second

// setupAppDatabase opens the history database, checks the connection, and
// applies pending migrations.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required for the %s history backend", config.HistoryBackendPostgres)
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, databasePingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database connection established")
	return db, nil
}
