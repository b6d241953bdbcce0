package cohere

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"github.com/tidwall/gjson"
)

const (
	// ProviderName identifies this adapter in errors, logs, and metrics.
	ProviderName = "cohere"

	// DefaultModel is used when neither configuration nor the request names one.
	DefaultModel = "command-a-03-2025"

	// DefaultBaseURL is the Cohere API root.
	DefaultBaseURL = "https://api.cohere.com"

	chatPath = "/v2/chat"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Gateway implements generation.Gateway using Cohere's chat API.
type Gateway struct {
	logger   *slog.Logger
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

var _ generation.Gateway = (*Gateway)(nil)

// NewGateway creates a Cohere gateway from cfg. An empty cfg.Model selects
// DefaultModel and an empty cfg.BaseURL selects DefaultBaseURL.
func NewGateway(log *slog.Logger, cfg config.LLMConfig) (*Gateway, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: cohere API key cannot be empty", generation.ErrInvalidConfig)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &Gateway{
		logger:   log.With(slog.String("component", "cohere_gateway")),
		client:   http.DefaultClient,
		endpoint: strings.TrimRight(base, "/") + chatPath,
		apiKey:   cfg.APIKey,
		model:    model,
	}, nil
}

// Invoke implements generation.Gateway.
func (g *Gateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	if model == "" {
		model = g.model
	}

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemDirective},
			{Role: "user", Content: instruction},
		},
	}

	var (
		body    string
		respErr errorResponse
	)
	err := requests.
		URL(g.endpoint).
		Client(g.client).
		Post().
		Bearer(g.apiKey).
		Accept("application/json").
		BodyJSON(payload).
		ToString(&body).
		ErrorJSON(&respErr).
		Fetch(ctx)
	if err != nil {
		log.DebugContext(ctx, "cohere chat request failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		if respErr.Message != "" {
			return "", generation.NewGatewayError(ProviderName, errors.New(respErr.Message))
		}
		return "", generation.NewGatewayError(ProviderName, err)
	}

	reply, err := decodeReply(body)
	if err != nil {
		return "", generation.NewGatewayError(ProviderName, err)
	}

	text := reply.Flatten()
	if strings.TrimSpace(text) == "" {
		return "", generation.NewGatewayError(ProviderName, generation.ErrEmptyResponse)
	}

	log.DebugContext(ctx, "cohere chat request succeeded",
		slog.String("model", model),
		slog.Bool("segmented", !reply.IsText()),
		slog.String("finish_reason", gjson.Get(body, "finish_reason").String()))
	return text, nil
}

// decodeReply reads message.content, which Cohere returns either as a plain
// string or as a list of typed segments.
func decodeReply(body string) (generation.Reply, error) {
	if !gjson.Valid(body) {
		return generation.Reply{}, fmt.Errorf("%w: malformed response body", generation.ErrEmptyResponse)
	}

	content := gjson.Get(body, "message.content")
	switch {
	case !content.Exists():
		return generation.Reply{}, generation.ErrEmptyResponse
	case content.Type == gjson.String:
		return generation.TextReply(content.String()), nil
	case content.IsArray():
		var segments []generation.Segment
		content.ForEach(func(_, value gjson.Result) bool {
			segments = append(segments, generation.Segment{
				Kind: value.Get("type").String(),
				Text: value.Get("text").String(),
			})
			return true
		})
		return generation.SegmentsReply(segments...), nil
	default:
		return generation.Reply{}, fmt.Errorf("%w: unexpected content type", generation.ErrEmptyResponse)
	}
}
