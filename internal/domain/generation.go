package domain

import "strings"

// GenerationRequest is the caller's input for a single prompt generation.
type GenerationRequest struct {
	Topic    string
	Category string

	// Model optionally overrides the configured LLM model for this request.
	Model string
}

// Normalize returns a copy with Topic and Model trimmed and Category trimmed
// and lower-cased.
func (r GenerationRequest) Normalize() GenerationRequest {
	return GenerationRequest{
		Topic:    strings.TrimSpace(r.Topic),
		Category: NormalizeCategory(r.Category),
		Model:    strings.TrimSpace(r.Model),
	}
}

// Validate checks that both topic and category are present and not blank.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return NewValidationError("topic", "is required", ErrValidation)
	}
	if strings.TrimSpace(r.Category) == "" {
		return NewValidationError("category", "is required", ErrValidation)
	}
	return nil
}

// GenerationResult is the structured prompt returned to the caller.
type GenerationResult struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}
