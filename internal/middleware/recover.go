package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/utils"
)

// Recover turns a panic into the generic 500 envelope.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "panic in handler",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
					"request_id", utils.RequestIDFromContext(r.Context()),
				)
				utils.WriteError(w, r, nil, common.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
