// Package main is the entry point for the prompt generation API server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	_ "go.uber.org/automaxprocs"

	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("promptgen-api: %v", err)
	}
}

// run loads configuration, builds the application, and serves until a
// shutdown signal arrives.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("history_backend", cfg.History.Backend))

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
