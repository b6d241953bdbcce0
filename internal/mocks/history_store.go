package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/store"
)

// MockHistoryStore implements store.HistoryStore for testing.
// Each method delegates to its function field when set; otherwise it
// returns the matching *Err field (or an empty result).
type MockHistoryStore struct {
	AddFn    func(ctx context.Context, key string, item domain.HistoryItem, limit int) error
	ListFn   func(ctx context.Context, key string) ([]domain.HistoryItem, error)
	DeleteFn func(ctx context.Context, key string, id uuid.UUID) error
	ClearFn  func(ctx context.Context, key string) error

	AddErr    error
	ListErr   error
	DeleteErr error
	ClearErr  error

	mu        sync.Mutex
	addCalls  []domain.HistoryItem
	addKeys   []string
	addLimits []int
}

var _ store.HistoryStore = (*MockHistoryStore)(nil)

// Add implements store.HistoryStore.
func (m *MockHistoryStore) Add(ctx context.Context, key string, item domain.HistoryItem, limit int) error {
	m.mu.Lock()
	m.addCalls = append(m.addCalls, item)
	m.addKeys = append(m.addKeys, key)
	m.addLimits = append(m.addLimits, limit)
	m.mu.Unlock()

	if m.AddFn != nil {
		return m.AddFn(ctx, key, item, limit)
	}
	return m.AddErr
}

// List implements store.HistoryStore.
func (m *MockHistoryStore) List(ctx context.Context, key string) ([]domain.HistoryItem, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, key)
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return []domain.HistoryItem{}, nil
}

// Delete implements store.HistoryStore.
func (m *MockHistoryStore) Delete(ctx context.Context, key string, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key, id)
	}
	return m.DeleteErr
}

// Clear implements store.HistoryStore.
func (m *MockHistoryStore) Clear(ctx context.Context, key string) error {
	if m.ClearFn != nil {
		return m.ClearFn(ctx, key)
	}
	return m.ClearErr
}

// AddedItems returns a copy of every item passed to Add.
func (m *MockHistoryStore) AddedItems() []domain.HistoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryItem(nil), m.addCalls...)
}

// AddedKeys returns the history keys passed to Add, in call order.
func (m *MockHistoryStore) AddedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.addKeys...)
}

// AddedLimits returns the limits passed to Add, in call order.
func (m *MockHistoryStore) AddedLimits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.addLimits...)
}
