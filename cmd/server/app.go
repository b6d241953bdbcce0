package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/memory"
	"github.com/phrazzld/promptgen-api/internal/platform/metrics"
	"github.com/phrazzld/promptgen-api/internal/platform/postgres"
	"github.com/phrazzld/promptgen-api/internal/service"
	"github.com/phrazzld/promptgen-api/internal/store"
)

// application holds the dependencies shared by the HTTP handlers.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	generator *generation.Service
	history   service.HistoryService
}

// newApplication wires the gateway, generation service, and history store
// described by cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)

	gateway, err := newGateway(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM gateway initialized", slog.String("provider", cfg.LLM.Provider))

	app.generator, err = generation.NewService(
		app.metrics.InstrumentGateway(gateway, cfg.LLM.Provider),
		logger,
		generation.WithRecorder(app.metrics),
		generation.WithTimeout(time.Duration(cfg.Server.GenerationTimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	historyStore, err := app.setupHistoryStore(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.history, err = service.NewHistoryService(historyStore, cfg.History.Limit, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) setupHistoryStore(ctx context.Context) (store.HistoryStore, error) {
	switch app.config.History.Backend {
	case config.HistoryBackendPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		return postgres.NewPostgresHistoryStore(db, app.logger), nil
	case config.HistoryBackendMemory, "":
		return memory.NewHistoryStore(app.logger), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", app.config.History.Backend)
	}
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
