package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
)

// HistoryStore persists generated prompts per history key, newest first.
//
// A history key identifies one client's list; requests without a key share
// domain.DefaultHistoryKey. Implementations must be safe for concurrent use.
type HistoryStore interface {
	// Add stores item at the front of the list for key and drops the oldest
	// entries beyond limit. Returns ErrInvalidEntity if item fails validation.
	Add(ctx context.Context, key string, item domain.HistoryItem, limit int) error

	// List returns the items for key, newest first. An unknown key yields an
	// empty slice.
	List(ctx context.Context, key string) ([]domain.HistoryItem, error)

	// Delete removes a single item.
	// Returns ErrHistoryItemNotFound if no item with id exists under key.
	Delete(ctx context.Context, key string, id uuid.UUID) error

	// Clear removes every item stored under key.
	Clear(ctx context.Context, key string) error
}
