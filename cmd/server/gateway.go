package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/anthropic"
	"github.com/phrazzld/promptgen-api/internal/platform/cohere"
	"github.com/phrazzld/promptgen-api/internal/platform/gemini"
	"github.com/phrazzld/promptgen-api/internal/platform/openai"
)

// newGateway builds the LLM gateway for the configured provider.
func newGateway(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (generation.Gateway, error) {
	log = log.With(slog.String("component", "llm_gateway"), slog.String("provider", cfg.Provider))

	var (
		gateway generation.Gateway
		err     error
	)
	switch cfg.Provider {
	case config.ProviderCohere:
		var g *cohere.Gateway
		if g, err = cohere.NewGateway(log, cfg); err == nil {
			gateway = g
		}
	case config.ProviderGemini:
		var g *gemini.Gateway
		if g, err = gemini.NewGateway(ctx, log, cfg); err == nil {
			gateway = g
		}
	case config.ProviderAnthropic:
		var g *anthropic.Gateway
		if g, err = anthropic.NewGateway(log, cfg); err == nil {
			gateway = g
		}
	case config.ProviderOpenAI:
		var g *openai.Gateway
		if g, err = openai.NewGateway(log, cfg); err == nil {
			gateway = g
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s gateway: %w", cfg.Provider, err)
	}

	return gateway, nil
}
