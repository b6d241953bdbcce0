package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"google.golang.org/genai"
)

const (
	// ProviderName identifies this adapter in errors, logs, and metrics.
	ProviderName = "gemini"

	// DefaultModel is used when neither configuration nor the request names one.
	DefaultModel = "gemini-2.5-flash"

	segmentKindThought = "thought"
	segmentKindOther   = "other"
)

// Gateway implements the generation.Gateway interface using Gemini's
// GenerateContent API.
type Gateway struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the default model name
	model string
}

var _ generation.Gateway = (*Gateway)(nil)

// NewGateway creates a Gemini gateway from cfg.
func NewGateway(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Gateway, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Gateway{
		logger: log.With(slog.String("component", "gemini_gateway")),
		client: client,
		model:  model,
	}, nil
}

// Invoke implements generation.Gateway. The system directive is sent as the
// system instruction and the composed instruction as the user content.
func (g *Gateway) Invoke(ctx context.Context, systemDirective, instruction, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	if model == "" {
		model = g.model
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(instruction),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemDirective}},
			},
			CandidateCount: 1,
		},
	)
	if err != nil {
		log.DebugContext(ctx, "gemini call failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return "", generation.NewGatewayError(ProviderName, err)
	}

	reply, err := replyFromResponse(resp)
	if err != nil {
		return "", generation.NewGatewayError(ProviderName, err)
	}

	text := reply.Flatten()
	if strings.TrimSpace(text) == "" {
		return "", generation.NewGatewayError(ProviderName, generation.ErrEmptyResponse)
	}

	log.DebugContext(ctx, "gemini call succeeded",
		slog.String("model", model),
		slog.Int("segments", len(reply.Segments())))
	return text, nil
}

// replyFromResponse converts the first candidate into a segmented reply.
// Thought parts and non-text parts become non-textual segments.
func replyFromResponse(resp *genai.GenerateContentResponse) (generation.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
			return generation.Reply{}, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return generation.Reply{}, fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		if candidate.FinishReason == genai.FinishReasonSafety {
			return generation.Reply{}, errors.New("response blocked by safety filters")
		}
		return generation.Reply{}, fmt.Errorf("%w: empty candidate", generation.ErrEmptyResponse)
	}

	segments := make([]generation.Segment, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.Thought:
			segments = append(segments, generation.Segment{Kind: segmentKindThought, Text: part.Text})
		case part.Text != "":
			segments = append(segments, generation.Segment{Kind: generation.SegmentKindText, Text: part.Text})
		default:
			segments = append(segments, generation.Segment{Kind: segmentKindOther})
		}
	}

	return generation.SegmentsReply(segments...), nil
}
