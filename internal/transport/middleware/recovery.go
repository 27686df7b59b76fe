package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/transport"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RecoveryMiddleware turns a panic into a 500 response. The panic is logged
// at error level with its stack, which also lands in the diagnostics log.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
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

				logger.Error("panic recovered",
					"error", rec,
					"request_id", chiMiddleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				status, body := errors.NewInternalError("internal server error", nil).ToHTTPResponse()
				base.WriteJSON(w, status, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
