package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/promptgen-api/internal/domain"
)

// HistoryKeyHeader lets a client keep its own history list. Requests without
// it share the default list.
const HistoryKeyHeader = "X-History-Key"

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// historyKey returns the raw history key sent by the client. Normalization
// and length checks happen in the history service.
func historyKey(r *http.Request) string {
	return r.Header.Get(HistoryKeyHeader)
}
