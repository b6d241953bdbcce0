package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultHistoryKey names the history list used when a client does not
	// provide its own key.
	DefaultHistoryKey = "prompt-history"

	// DefaultHistoryLimit is the maximum number of items retained per list.
	DefaultHistoryLimit = 50
)

// HistoryItem is a previously generated prompt kept for later reuse.
// Timestamp is the creation time in Unix milliseconds.
type HistoryItem struct {
	ID        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	Topic     string    `json:"topic"`
	Category  string    `json:"category"`
	Timestamp int64     `json:"timestamp"`
}

// NewHistoryItem builds a history entry from a successful generation and the
// topic that produced it.
func NewHistoryItem(result GenerationResult, topic string) (*HistoryItem, error) {
	item := &HistoryItem{
		ID:        uuid.New(),
		Prompt:    result.Prompt,
		Topic:     strings.TrimSpace(topic),
		Category:  NormalizeCategory(result.Category),
		Timestamp: time.Now().UnixMilli(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks that the item carries an ID and its generated content.
func (h *HistoryItem) Validate() error {
	if h.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(h.Prompt) == "" {
		return NewValidationError("prompt", "cannot be empty", ErrEmptyContent)
	}
	if strings.TrimSpace(h.Topic) == "" {
		return NewValidationError("topic", "cannot be empty", ErrEmptyContent)
	}
	if strings.TrimSpace(h.Category) == "" {
		return NewValidationError("category", "cannot be empty", ErrEmptyContent)
	}
	return nil
}

// CreatedAt returns Timestamp as a time.Time in UTC.
func (h *HistoryItem) CreatedAt() time.Time {
	return time.UnixMilli(h.Timestamp).UTC()
}
