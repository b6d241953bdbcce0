package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"github.com/phrazzld/promptgen-api/internal/service"
)

// HistoryHandler serves the prompt history endpoints. Every request operates
// on the list named by the X-History-Key header.
type HistoryHandler struct {
	history service.HistoryService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history service.HistoryService, log *slog.Logger) *HistoryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HistoryHandler{
		history: history,
		logger:  log.With(slog.String("component", "history_handler")),
	}
}

// ListHistory handles GET /api/history. The optional category query
// parameter filters the list.
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.List(r.Context(), historyKey(r), r.URL.Query().Get("category"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list history")
		return
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryListResponse{Items: items})
}

// CreateHistoryItem handles POST /api/history.
func (h *HistoryHandler) CreateHistoryItem(w http.ResponseWriter, r *http.Request) {
	var req CreateHistoryItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	req.Normalize()
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.history.Record(r.Context(), historyKey(r),
		domain.GenerationResult{Prompt: req.Prompt, Category: req.Category}, req.Topic)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save history item")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("history item created",
		slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// DeleteHistoryItem handles DELETE /api/history/{id}.
func (h *HistoryHandler) DeleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.history.Delete(r.Context(), historyKey(r), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete history item")
		return
	}

	shared.RespondWithNoContent(w)
}

// ClearHistory handles DELETE /api/history.
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context(), historyKey(r)); err != nil {
		HandleAPIError(w, r, err, "Failed to clear history")
		return
	}

	shared.RespondWithNoContent(w)
}
