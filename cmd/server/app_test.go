package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/config"
	"github.com/phrazzld/promptgen-api/internal/generation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 8080, LogLevel: "info", GenerationTimeoutSeconds: 5},
		LLM:     config.LLMConfig{Provider: config.ProviderCohere, APIKey: "test-key", BaseURL: baseURL},
		History: config.HistoryConfig{Backend: config.HistoryBackendMemory, Limit: 50},
	}
}

// newCohereStub answers every chat call with reply wrapped in Cohere's v2
// response envelope.
func newCohereStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(map[string]any{
			"finish_reason": "COMPLETE",
			"message": map[string]any{
				"role":    "assistant",
				"content": []map[string]string{{"type": "text", "text": reply}},
			},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	return app
}

func serve(app *application, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, req)
	return rec
}

func TestNewGateway(t *testing.T) {
	providers := []string{
		config.ProviderCohere,
		config.ProviderGemini,
		config.ProviderAnthropic,
		config.ProviderOpenAI,
	}

	for _, provider := range providers {
		t.Run(provider, func(t *testing.T) {
			gateway, err := newGateway(context.Background(), config.LLMConfig{
				Provider: provider,
				APIKey:   "test-key",
			}, discardLogger())

			require.NoError(t, err)
			assert.NotNil(t, gateway)
		})
	}
}

func TestNewGateway_Errors(t *testing.T) {
	_, err := newGateway(context.Background(), config.LLMConfig{Provider: "mistral", APIKey: "k"}, discardLogger())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newGateway(context.Background(), config.LLMConfig{Provider: config.ProviderCohere}, discardLogger())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewApplication_PostgresRequiresURL(t *testing.T) {
	cfg := testConfig("")
	cfg.History.Backend = config.HistoryBackendPostgres

	_, err := newApplication(context.Background(), cfg, discardLogger())

	assert.ErrorContains(t, err, "database URL is required")
}

func TestRouter_GeneratePromptEndToEnd(t *testing.T) {
	stub := newCohereStub(t,
		`{"title":"Dystopian City Story","prompt":"Write a narrative...","category":"writing"}`)
	app := newTestApp(t, testConfig(stub.URL))

	rec := serve(app, http.MethodPost, "/api/generate-prompt",
		`{"topic":"a sci-fi story about robots","category":"writing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"title":"Dystopian City Story","prompt":"Write a narrative...","category":"writing"}`,
		rec.Body.String())
	assert.Len(t, rec.Header().Get(shared.TraceIDHeader), 32)

	rec = serve(app, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"topic":"a sci-fi story about robots"`)
}

func TestRouter_GeneratePromptGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"message":"trial key rate limit exceeded"}`)
	}))
	t.Cleanup(server.Close)
	app := newTestApp(t, testConfig(server.URL))

	rec := serve(app, http.MethodPost, "/api/generate-prompt", `{"topic":"robots","category":"fun"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"trial key rate limit exceeded"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t, testConfig(""))

	rec := serve(app, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Categories(t *testing.T) {
	app := newTestApp(t, testConfig(""))

	rec := serve(app, http.MethodGet, "/api/categories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"default":"fun"`)
}

func TestRouter_MetricsExposeRequests(t *testing.T) {
	stub := newCohereStub(t, `{"title":"T","prompt":"P","category":"fun"}`)
	app := newTestApp(t, testConfig(stub.URL))

	require.Equal(t, http.StatusOK,
		serve(app, http.MethodPost, "/api/generate-prompt", `{"topic":"t","category":"fun"}`).Code)

	rec := serve(app, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `promptgen_generation_total{category="fun",outcome="success"} 1`)
	assert.Contains(t, body, `promptgen_llm_call_total{provider="cohere",status="success"} 1`)
	assert.Contains(t, body, `route="/api/generate-prompt"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRun_PortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer listener.Close()

	cfg := testConfig("")
	cfg.Server.Port = listener.Addr().(*net.TCPAddr).Port
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = app.Run(ctx)

	require.Error(t, err)
	assert.ErrorContains(t, err, "server failed")
	assert.NoError(t, ctx.Err(), "Run should fail on the listener error, not on the timeout")
}

func TestRun_ContextCancelShutsDown(t *testing.T) {
	cfg := testConfig("")
	cfg.Server.Port = 0
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, app.Run(ctx))
}
