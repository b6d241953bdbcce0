package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/promptgen-api/internal/api"
	apiMiddleware "github.com/phrazzld/promptgen-api/internal/api/middleware"
	"github.com/phrazzld/promptgen-api/internal/platform/metrics"
)

// setupRouter registers the API routes and shared middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.Recover)
	r.Use(app.metrics.Middleware)

	promptHandler := api.NewPromptHandler(app.generator, app.logger,
		api.WithHistory(app.history),
		api.WithModelOverride(app.config.LLM.AllowModelOverride))
	categoryHandler := api.NewCategoryHandler(app.generator.Catalog())
	historyHandler := api.NewHistoryHandler(app.history, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-prompt", promptHandler.GeneratePrompt)
		r.Get("/categories", categoryHandler.ListCategories)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.ListHistory)
			r.Post("/", historyHandler.CreateHistoryItem)
			r.Delete("/", historyHandler.ClearHistory)
			r.Delete("/{id}", historyHandler.DeleteHistoryItem)
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
