package api_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/promptgen-api/internal/api"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/platform/memory"
	"github.com/phrazzld/promptgen-api/internal/service"
	"github.com/phrazzld/promptgen-api/internal/store"
)

const testHistoryLimit = 50

type testServer struct {
	router  http.Handler
	history service.HistoryService
}

type serverOptions struct {
	store         store.HistoryStore
	modelOverride bool
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the handlers onto a chi router the same way the
// server binary does, backed by gateway and an in-memory history store
// unless opts supplies another.
func newTestServer(t *testing.T, gateway generation.Gateway, opts serverOptions) *testServer {
	t.Helper()

	log := discardLogger()

	historyStore := opts.store
	if historyStore == nil {
		historyStore = memory.NewHistoryStore(log)
	}
	history, err := service.NewHistoryService(historyStore, testHistoryLimit, log)
	require.NoError(t, err)

	generator, err := generation.NewService(gateway, log)
	require.NoError(t, err)

	prompts := api.NewPromptHandler(generator, log,
		api.WithHistory(history),
		api.WithModelOverride(opts.modelOverride))
	categories := api.NewCategoryHandler(generator.Catalog())
	historyHandler := api.NewHistoryHandler(history, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-prompt", prompts.GeneratePrompt)
		r.Get("/categories", categories.ListCategories)
		r.Get("/history", historyHandler.ListHistory)
		r.Post("/history", historyHandler.CreateHistoryItem)
		r.Delete("/history", historyHandler.ClearHistory)
		r.Delete("/history/{id}", historyHandler.DeleteHistoryItem)
	})

	return &testServer{router: r, history: history}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
