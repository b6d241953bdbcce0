package api

import (
	"strings"

	"github.com/phrazzld/promptgen-api/internal/domain"
)

// GeneratePromptRequest is the body of POST /api/generate-prompt.
type GeneratePromptRequest struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`

	// Model is honored only when model overrides are enabled.
	Model string `json:"model,omitempty"`
}

// Validate requires a non-blank topic and category.
func (r *GeneratePromptRequest) Validate() error {
	return domain.GenerationRequest{Topic: r.Topic, Category: r.Category}.Validate()
}

// GeneratePromptResponse is the body of a successful generation.
type GeneratePromptResponse struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// CategoriesResponse lists the categories the service has profiles for.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Default    string   `json:"default"`
}

// CreateHistoryItemRequest is the body of POST /api/history.
type CreateHistoryItemRequest struct {
	Topic    string `json:"topic"    validate:"required"`
	Prompt   string `json:"prompt"   validate:"required"`
	Category string `json:"category" validate:"required"`
}

// Normalize trims the request fields in place.
func (r *CreateHistoryItemRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Category = strings.TrimSpace(r.Category)
}

// HistoryListResponse wraps a page of history items, newest first.
type HistoryListResponse struct {
	Items []domain.HistoryItem `json:"items"`
}

func generationResponseFromDomain(result domain.GenerationResult) GeneratePromptResponse {
	return GeneratePromptResponse{
		Title:    result.Title,
		Prompt:   result.Prompt,
		Category: result.Category,
	}
}
