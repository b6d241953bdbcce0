package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/mocks"
	"github.com/phrazzld/promptgen-api/internal/platform/memory"
	"github.com/phrazzld/promptgen-api/internal/service"
	"github.com/phrazzld/promptgen-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryHistoryService(t *testing.T, limit int) service.HistoryService {
	t.Helper()
	svc, err := service.NewHistoryService(memory.NewHistoryStore(nil), limit, nil)
	require.NoError(t, err)
	return svc
}

func TestNewHistoryService_NilStore(t *testing.T) {
	_, err := service.NewHistoryService(nil, 50, nil)

	var svcErr *service.HistoryServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_service", svcErr.Operation)
}

func TestHistoryService_Record(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryHistoryService(t, 50)

	item, err := svc.Record(ctx, "", domain.GenerationResult{
		Title:    "Weather App with React",
		Prompt:   "Build a weather application",
		Category: "Coding",
	}, "  weather apps ")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "weather apps", item.Topic)
	assert.Equal(t, "coding", item.Category)
	assert.NotZero(t, item.Timestamp)

	items, err := svc.List(ctx, domain.DefaultHistoryKey, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *item, items[0])
}

func TestHistoryService_RecordRejectsBlankFields(t *testing.T) {
	svc := newMemoryHistoryService(t, 50)

	_, err := svc.Record(context.Background(), "", domain.GenerationResult{Prompt: "p", Category: "fun"}, "   ")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "topic", validationErr.Field)
}

func TestHistoryService_KeepsNewestWithinLimit(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryHistoryService(t, 0)

	for i := 0; i < 51; i++ {
		_, err := svc.Record(ctx, "", domain.GenerationResult{
			Title:    "T",
			Prompt:   fmt.Sprintf("prompt %d", i),
			Category: "fun",
		}, "topic")
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, items, domain.DefaultHistoryLimit)
	assert.Equal(t, "prompt 50", items[0].Prompt)
	assert.Equal(t, "prompt 1", items[len(items)-1].Prompt)
}

func TestHistoryService_ListFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryHistoryService(t, 50)

	for _, category := range []string{"art", "coding", "art", "fun"} {
		_, err := svc.Record(ctx, "k", domain.GenerationResult{Prompt: "p", Category: category}, "t")
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		category string
		want     int
	}{
		{name: "no filter", category: "", want: 4},
		{name: "exact", category: "art", want: 2},
		{name: "normalized", category: "  ART ", want: 2},
		{name: "no matches", category: "business", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(ctx, "k", tt.category)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestHistoryService_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryHistoryService(t, 50)

	item, err := svc.Record(ctx, "k", domain.GenerationResult{Prompt: "p", Category: "fun"}, "t")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "k", domain.GenerationResult{Prompt: "q", Category: "fun"}, "t")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "k", item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "k", item.ID), store.ErrHistoryItemNotFound)

	err = svc.Delete(ctx, "k", uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	require.NoError(t, svc.Clear(ctx, "k"))
	items, err := svc.List(ctx, "k", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistoryService_KeyTooLong(t *testing.T) {
	svc := newMemoryHistoryService(t, 50)
	key := strings.Repeat("k", service.MaxHistoryKeyLength+1)

	_, err := svc.List(context.Background(), key, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHistoryService_PassesLimitToStore(t *testing.T) {
	historyStore := &mocks.MockHistoryStore{}
	svc, err := service.NewHistoryService(historyStore, 7, nil)
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), " team ", domain.GenerationResult{Prompt: "p", Category: "fun"}, "t")

	require.NoError(t, err)
	assert.Equal(t, []int{7}, historyStore.AddedLimits())
	assert.Equal(t, []string{"team"}, historyStore.AddedKeys())
}

func TestHistoryService_WrapsStoreFailures(t *testing.T) {
	storeErr := errors.New("connection refused")
	historyStore := &mocks.MockHistoryStore{
		AddErr:   storeErr,
		ListErr:  storeErr,
		ClearErr: storeErr,
	}
	svc, err := service.NewHistoryService(historyStore, 50, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Record(ctx, "", domain.GenerationResult{Prompt: "p", Category: "fun"}, "t")
	var svcErr *service.HistoryServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "record", svcErr.Operation)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.List(ctx, "", "")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list", svcErr.Operation)

	err = svc.Clear(ctx, "")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "clear", svcErr.Operation)
}

func TestHistoryService_NotFoundPassesThrough(t *testing.T) {
	historyStore := &mocks.MockHistoryStore{DeleteErr: store.ErrHistoryItemNotFound}
	svc, err := service.NewHistoryService(historyStore, 50, nil)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "", uuid.New())

	assert.Same(t, store.ErrHistoryItemNotFound, err)
}
