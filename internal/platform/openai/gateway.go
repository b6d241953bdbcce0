// Package openai implements generation.Gateway on the OpenAI chat completions
// API. Any OpenAI-compatible vendor works by setting llm.base_url.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
)

// ProviderName identifies this adapter in errors, logs, and metrics.
const ProviderName = "openai"

// DefaultModel is used when neither configuration nor the request names one.
var DefaultModel = string(openai.ChatModelGPT4oMini)

// Gateway implements generation.Gateway using chat completions.
type Gateway struct {
	logger *slog.Logger
	client openai.Client
	model  string
}

var _ generation.Gateway = (*Gateway)(nil)

// NewGateway creates an OpenAI gateway from cfg. The SDK's automatic retries
// are disabled.
func NewGateway(log *slog.Logger, cfg config.LLMConfig) (*Gateway, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Gateway{
		logger: log.With(slog.String("component", "openai_gateway")),
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Invoke implements generation.Gateway.
func (g *Gateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	if model == "" {
		model = g.model
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemDirective),
			openai.UserMessage(instruction),
		},
	})
	if err != nil {
		log.DebugContext(ctx, "openai call failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return "", generation.NewGatewayError(ProviderName, err)
	}

	if len(resp.Choices) == 0 {
		return "", generation.NewGatewayError(ProviderName, fmt.Errorf("%w: no choices", generation.ErrEmptyResponse))
	}
	message := resp.Choices[0].Message

	text := generation.TextReply(message.Content).Flatten()
	if strings.TrimSpace(text) == "" {
		if message.Refusal != "" {
			return "", generation.NewGatewayError(ProviderName, fmt.Errorf("model refused: %s", message.Refusal))
		}
		return "", generation.NewGatewayError(ProviderName, generation.ErrEmptyResponse)
	}

	log.DebugContext(ctx, "openai call succeeded",
		slog.String("model", model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return text, nil
}
