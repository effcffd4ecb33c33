package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// Observability records HTTP metrics and opens a server span per request.
// A nil tracer skips tracing.
func Observability(metrics *observability.Metrics, tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			metrics.AddActiveRequests(ctx, 1)
			defer metrics.AddActiveRequests(ctx, -1)

			if tracer != nil {
				var span trace.Span
				ctx, span = tracer.Start(ctx, r.Method+" "+r.URL.Path,
					trace.WithSpanKind(trace.SpanKindServer),
					trace.WithAttributes(
						attribute.String("http.method", r.Method),
						attribute.String("http.route", r.URL.Path),
					))
				defer span.End()
				r = r.WithContext(ctx)
			}

			rw := wrap(w)
			next.ServeHTTP(rw, r)

			if span := trace.SpanFromContext(ctx); span.IsRecording() {
				span.SetAttributes(attribute.Int("http.status_code", rw.statusCode))
				if rw.statusCode >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
				}
			}

			metrics.RecordHTTPRequest(ctx, r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}
