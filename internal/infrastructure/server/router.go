package server

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/adapter/handler/middleware"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// SlackCommandsPath is the slash command webhook route.
const SlackCommandsPath = "/webhook/slack/commands"

// Handlers holds all HTTP handlers.
type Handlers struct {
	SlackCommands *handler.SlackCommandsHandler
	Health        *handler.HealthHandler
	Ready         *handler.ReadyHandler
	Metrics       *handler.MetricsHandler
}

// RouterOptions carries the cross-cutting dependencies of the middleware stack.
type RouterOptions struct {
	Logger         *slog.Logger
	Metrics        *observability.Metrics
	Tracer         trace.Tracer
	RequestTimeout time.Duration
}

// NewRouter creates the HTTP router with all handlers.
func NewRouter(handlers *Handlers, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handlers.Health)
	mux.Handle("/ready", handlers.Ready)

	if handlers.Metrics != nil {
		mux.Handle("/metrics", handlers.Metrics)
	}
	if handlers.SlackCommands != nil {
		mux.Handle(SlackCommandsPath, handlers.SlackCommands)
	}

	return middleware.Chain(mux,
		middleware.Recovery(opts.Logger),
		middleware.RequestID,
		middleware.Logging(opts.Logger),
		middleware.Observability(opts.Metrics, opts.Tracer),
		middleware.Timeout(opts.RequestTimeout, opts.Logger),
	)
}
