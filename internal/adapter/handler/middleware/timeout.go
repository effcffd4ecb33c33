package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// exemptPaths are never given a deadline.
var exemptPaths = map[string]bool{
	"/metrics": true,
	"/health":  true,
	"/ready":   true,
}

// Timeout attaches a deadline to the request context.
// Handlers run synchronously and pass the context to every outbound call,
// so a slow backend is cut off instead of holding the request open.
func Timeout(timeout time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 || exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if ctx.Err() == context.DeadlineExceeded {
				logger.Warn("request deadline exceeded",
					"path", r.URL.Path,
					"method", r.Method,
					"timeout", timeout.String(),
					"request_id", GetRequestID(r.Context()),
				)
			}
		})
	}
}
