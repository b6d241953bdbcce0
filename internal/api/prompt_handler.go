package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"github.com/phrazzld/promptgen-api/internal/service"
)

// PromptGenerator produces a structured prompt for a topic and category.
type PromptGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// PromptHandler serves prompt generation.
type PromptHandler struct {
	generator          PromptGenerator
	history            service.HistoryService
	allowModelOverride bool
	logger             *slog.Logger
}

// PromptHandlerOption configures a PromptHandler.
type PromptHandlerOption func(*PromptHandler)

// WithHistory records every successful generation in history.
func WithHistory(history service.HistoryService) PromptHandlerOption {
	return func(h *PromptHandler) {
		h.history = history
	}
}

// WithModelOverride lets clients pick the model per request.
func WithModelOverride(allow bool) PromptHandlerOption {
	return func(h *PromptHandler) {
		h.allowModelOverride = allow
	}
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(generator PromptGenerator, log *slog.Logger, opts ...PromptHandlerOption) *PromptHandler {
	if log == nil {
		log = slog.Default()
	}
	h := &PromptHandler{
		generator: generator,
		logger:    log.With(slog.String("component", "prompt_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GeneratePrompt handles POST /api/generate-prompt.
//
// A missing, blank, or unparseable topic or category yields 400 with a fixed
// message. A failed model call yields 500 carrying the redacted provider
// message. Output the model did not format as JSON still yields 200 with
// the fallback title.
func (h *PromptHandler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GeneratePromptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MissingInputMessage, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MissingInputMessage, err)
		return
	}

	genReq := domain.GenerationRequest{Topic: req.Topic, Category: req.Category}
	if h.allowModelOverride {
		genReq.Model = req.Model
	} else if req.Model != "" {
		log.Debug("ignoring model override", slog.String("model", req.Model))
	}

	result, err := h.generator.Generate(r.Context(), genReq)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.record(r, result, req.Topic)

	shared.RespondWithJSON(w, r, http.StatusOK, generationResponseFromDomain(result))
}

// record stores result in history. Failures are logged and never change the
// generation response.
func (h *PromptHandler) record(r *http.Request, result domain.GenerationResult, topic string) {
	if h.history == nil {
		return
	}
	if _, err := h.history.Record(r.Context(), historyKey(r), result, topic); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to record history",
			slog.String("error", err.Error()),
			slog.String("category", result.Category))
	}
}
