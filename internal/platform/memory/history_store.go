package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
	"github.com/phrazzld/promptgen-api/internal/store"
	"github.com/samber/lo"
)

// HistoryStore implements store.HistoryStore with a map of slices guarded by
// a read-write mutex. Each slice is kept newest first.
type HistoryStore struct {
	mu     sync.RWMutex
	lists  map[string][]domain.HistoryItem
	logger *slog.Logger
}

var _ store.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates an empty in-memory history store.
// If logger is nil, a default logger will be used.
func NewHistoryStore(logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &HistoryStore{
		lists:  make(map[string][]domain.HistoryItem),
		logger: logger.With(slog.String("component", "memory_history_store")),
	}
}

// Add implements store.HistoryStore.Add.
func (s *HistoryStore) Add(ctx context.Context, key string, item domain.HistoryItem, limit int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("history item validation failed",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := append([]domain.HistoryItem{item}, s.lists[key]...)
	dropped := 0
	if len(items) > limit {
		dropped = len(items) - limit
		items = items[:limit]
	}
	s.lists[key] = items

	log.Debug("history item added",
		slog.String("item_id", item.ID.String()),
		slog.Int("size", len(items)),
		slog.Int("dropped", dropped))
	return nil
}

// List implements store.HistoryStore.List.
func (s *HistoryStore) List(_ context.Context, key string) ([]domain.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := slices.Clone(s.lists[key])
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return items, nil
}

// Delete implements store.HistoryStore.Delete.
func (s *HistoryStore) Delete(ctx context.Context, key string, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.lists[key]
	remaining := lo.Reject(items, func(item domain.HistoryItem, _ int) bool {
		return item.ID == id
	})
	if len(remaining) == len(items) {
		log.Debug("history item not found", slog.String("item_id", id.String()))
		return store.ErrHistoryItemNotFound
	}

	if len(remaining) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = remaining
	}

	log.Debug("history item deleted", slog.String("item_id", id.String()))
	return nil
}

// Clear implements store.HistoryStore.Clear.
func (s *HistoryStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.lists, key)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("history cleared")
	return nil
}
