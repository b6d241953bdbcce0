package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/platform/logger"
)

// Recover turns a handler panic into a 500 with the standard JSON error body.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContextOrDefault(r.Context(), slog.Default()).Error("handler panicked",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))

			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"An unexpected error occurred", fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
