// Package anthropic implements generation.Gateway on the Anthropic Messages
// API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
)

const (
	// ProviderName identifies this adapter in errors, logs, and metrics.
	ProviderName = "anthropic"

	// DefaultMaxTokens caps replies when configuration leaves it unset.
	DefaultMaxTokens = 1024
)

// DefaultModel is used when neither configuration nor the request names one.
var DefaultModel = string(anthropic.ModelClaude3_5HaikuLatest)

// Gateway implements generation.Gateway using Claude models.
type Gateway struct {
	logger    *slog.Logger
	client    *anthropic.Client
	model     string
	maxTokens int64
}

var _ generation.Gateway = (*Gateway)(nil)

// NewGateway creates an Anthropic gateway from cfg. The SDK's automatic
// retries are disabled.
func NewGateway(log *slog.Logger, cfg config.LLMConfig) (*Gateway, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: anthropic API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Gateway{
		logger:    log.With(slog.String("component", "anthropic_gateway")),
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Invoke implements generation.Gateway.
func (g *Gateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	if model == "" {
		model = g.model
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		System:    []anthropic.TextBlockParam{{Text: systemDirective}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(instruction))},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		log.DebugContext(ctx, "anthropic call failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return "", generation.NewGatewayError(ProviderName, err)
	}

	reply := replyFromMessage(resp)
	text := reply.Flatten()
	if strings.TrimSpace(text) == "" {
		return "", generation.NewGatewayError(ProviderName, generation.ErrEmptyResponse)
	}

	log.DebugContext(ctx, "anthropic call succeeded",
		slog.String("model", model),
		slog.String("stop_reason", string(resp.StopReason)))
	return text, nil
}

// replyFromMessage keeps text blocks as text segments and every other block
// kind (tool use, thinking) as a non-textual segment.
func replyFromMessage(msg *anthropic.Message) generation.Reply {
	if msg == nil {
		return generation.SegmentsReply()
	}

	segments := make([]generation.Segment, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			segments = append(segments, generation.Segment{Kind: generation.SegmentKindText, Text: b.Text})
		default:
			segments = append(segments, generation.Segment{Kind: block.Type})
		}
	}
	return generation.SegmentsReply(segments...)
}
