package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
)

// Generation outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Recorder observes the outcome of each generation.
type Recorder interface {
	ObserveGeneration(category, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, string, time.Duration) {}

// Service orchestrates a single prompt generation: validate, resolve the
// category profile, compose, invoke the gateway, and extract the result.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	gateway  Gateway
	catalog  *domain.Catalog
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the default category catalog.
func WithCatalog(catalog *domain.Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithRecorder sets the recorder that observes generation outcomes.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithTimeout bounds each gateway call. Zero means no deadline beyond the
// caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewService creates a Service that generates prompts through gateway.
func NewService(gateway Gateway, log *slog.Logger, opts ...Option) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		gateway:  gateway,
		catalog:  domain.DefaultCatalog(),
		logger:   log.With(slog.String("component", "generation_service")),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Catalog returns the category catalog used by the service.
func (s *Service) Catalog() *domain.Catalog {
	return s.catalog
}

// Generate produces a prompt for req.
//
// It returns a *domain.ValidationError when the topic or category is blank,
// and a *GatewayError when the model call fails. Unparseable model output is
// not an error: it yields a fallback result. The returned Category is always
// the normalized request category.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()

	// Received -> Validated
	if err := req.Validate(); err != nil {
		log.DebugContext(ctx, "generation request rejected", slog.String("error", err.Error()))
		s.recorder.ObserveGeneration("", OutcomeRejected, time.Since(start))
		return domain.GenerationResult{}, err
	}
	req = req.Normalize()
	log.DebugContext(ctx, "generation request validated",
		slog.String("category", req.Category),
		slog.Int("topic_length", len(req.Topic)))

	// Validated -> Composed
	profile := s.catalog.ResolveProfile(req.Category)
	instruction, err := Compose(req.Topic, req.Category, profile)
	if err != nil {
		log.ErrorContext(ctx, "failed to compose instruction", slog.String("error", err.Error()))
		s.recorder.ObserveGeneration(req.Category, OutcomeFailed, time.Since(start))
		return domain.GenerationResult{}, fmt.Errorf("failed to compose instruction: %w", err)
	}
	log.DebugContext(ctx, "instruction composed",
		slog.Bool("known_category", s.catalog.IsKnown(req.Category)),
		slog.Int("instruction_length", len(instruction)))

	// Composed -> Invoked
	raw, err := s.invoke(ctx, instruction, req.Model)
	if err != nil {
		log.ErrorContext(ctx, "llm gateway call failed",
			slog.String("category", req.Category),
			slog.String("error", err.Error()))
		s.recorder.ObserveGeneration(req.Category, OutcomeFailed, time.Since(start))
		return domain.GenerationResult{}, err
	}
	log.DebugContext(ctx, "llm gateway call succeeded", slog.Int("response_length", len(raw)))

	// Invoked -> Extracted
	result, fellBack := ExtractWithOutcome(raw, req.Category)
	outcome := OutcomeSuccess
	if fellBack {
		outcome = OutcomeFallback
		log.WarnContext(ctx, "model output was not valid JSON, using fallback result",
			slog.String("category", req.Category),
			slog.Int("response_length", len(raw)))
	} else if result.Category != req.Category {
		log.DebugContext(ctx, "model reported a different category, keeping request category",
			slog.String("model_category", result.Category),
			slog.String("category", req.Category))
	}
	result.Category = req.Category

	// Extracted -> Responded
	s.recorder.ObserveGeneration(req.Category, outcome, time.Since(start))
	log.InfoContext(ctx, "prompt generated",
		slog.String("category", req.Category),
		slog.String("outcome", outcome),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *Service) invoke(ctx context.Context, instruction, model string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.gateway.Invoke(ctx, SystemDirective, instruction, model)
	if err != nil {
		if errors.Is(err, ErrGateway) {
			return "", err
		}
		return "", NewGatewayError("unknown", err)
	}

	return raw, nil
}
