package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/store"
	"github.com/samber/lo"
)

// MaxHistoryKeyLength bounds client-supplied history keys.
const MaxHistoryKeyLength = 128

// HistoryService manages the bounded, newest-first prompt history lists.
type HistoryService interface {
	// Record stores a successful generation for topic under key.
	Record(ctx context.Context, key string, result domain.GenerationResult, topic string) (*domain.HistoryItem, error)

	// List returns the items under key, newest first. A non-blank category
	// keeps only items of that (normalized) category.
	List(ctx context.Context, key, category string) ([]domain.HistoryItem, error)

	// Delete removes one item. Returns store.ErrHistoryItemNotFound if absent.
	Delete(ctx context.Context, key string, id uuid.UUID) error

	// Clear removes every item under key.
	Clear(ctx context.Context, key string) error
}

// HistoryServiceError wraps errors from the history service with context.
type HistoryServiceError struct {
	// Operation is the operation that failed (e.g., "record", "list")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for HistoryServiceError.
func (e *HistoryServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("history service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("history service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *HistoryServiceError) Unwrap() error {
	return e.Err
}

// NewHistoryServiceError creates a new HistoryServiceError.
// Validation and not-found errors are returned unwrapped so callers can map
// them directly.
func NewHistoryServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, store.ErrHistoryItemNotFound) {
		return err
	}

	return &HistoryServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

type historyServiceImpl struct {
	store  store.HistoryStore
	limit  int
	logger *slog.Logger
}

// NewHistoryService creates a HistoryService backed by historyStore that
// keeps at most limit items per key. A non-positive limit means
// domain.DefaultHistoryLimit.
func NewHistoryService(historyStore store.HistoryStore, limit int, logger *slog.Logger) (HistoryService, error) {
	if historyStore == nil {
		return nil, &HistoryServiceError{
			Operation: "create_service",
			Message:   "historyStore cannot be nil",
		}
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &historyServiceImpl{
		store:  historyStore,
		limit:  limit,
		logger: logger.With("component", "history_service"),
	}, nil
}

// NormalizeHistoryKey trims key and substitutes the default key when blank.
func NormalizeHistoryKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.DefaultHistoryKey, nil
	}
	if len(key) > MaxHistoryKeyLength {
		return "", domain.NewValidationError("history_key",
			fmt.Sprintf("must be at most %d characters", MaxHistoryKeyLength), nil)
	}
	return key, nil
}

func (s *historyServiceImpl) Record(
	ctx context.Context,
	key string,
	result domain.GenerationResult,
	topic string,
) (*domain.HistoryItem, error) {
	key, err := NormalizeHistoryKey(key)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewHistoryItem(result, topic)
	if err != nil {
		s.logger.DebugContext(ctx, "rejected history item", slog.String("error", err.Error()))
		return nil, NewHistoryServiceError("record", "invalid history item", err)
	}

	if err := s.store.Add(ctx, key, *item, s.limit); err != nil {
		s.logger.ErrorContext(ctx, "failed to store history item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return nil, NewHistoryServiceError("record", "failed to store history item", err)
	}

	s.logger.DebugContext(ctx, "history item recorded",
		slog.String("item_id", item.ID.String()),
		slog.String("category", item.Category))
	return item, nil
}

func (s *historyServiceImpl) List(ctx context.Context, key, category string) ([]domain.HistoryItem, error) {
	key, err := NormalizeHistoryKey(key)
	if err != nil {
		return nil, err
	}

	items, err := s.store.List(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list history", slog.String("error", err.Error()))
		return nil, NewHistoryServiceError("list", "failed to list history", err)
	}

	category = domain.NormalizeCategory(category)
	if category == "" {
		return items, nil
	}

	return lo.Filter(items, func(item domain.HistoryItem, _ int) bool {
		return item.Category == category
	}), nil
}

func (s *historyServiceImpl) Delete(ctx context.Context, key string, id uuid.UUID) error {
	key, err := NormalizeHistoryKey(key)
	if err != nil {
		return err
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "cannot be empty", domain.ErrInvalidID)
	}

	if err := s.store.Delete(ctx, key, id); err != nil {
		return NewHistoryServiceError("delete", "failed to delete history item", err)
	}
	return nil
}

func (s *historyServiceImpl) Clear(ctx context.Context, key string) error {
	key, err := NormalizeHistoryKey(key)
	if err != nil {
		return err
	}

	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear history", slog.String("error", err.Error()))
		return NewHistoryServiceError("clear", "failed to clear history", err)
	}
	return nil
}
