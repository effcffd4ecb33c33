package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/server"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/usecase/timereport"
)

// Version is set at build time.
var Version = "dev"

// Application holds all application dependencies and lifecycle
type Application struct {
	config    *config.Config
	logger    *slog.Logger
	telemetry *observability.Telemetry

	// Infrastructure clients
	clients *Clients

	// Use cases
	dispatcher *timereport.Dispatcher

	// Entry points
	handlers *server.Handlers
	lambda   *handler.LambdaHandler
	server   *server.Server
}

// New creates a new Application instance
func New(configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}

	return app, nil
}

// Start runs the HTTP server until context is cancelled
func (app *Application) Start(ctx context.Context) error {
	app.logger.Info("starting timereport-bridge",
		"version", Version,
		"port", app.config.Server.Port,
	)

	return app.server.Run(ctx)
}

// Router returns the fully wired HTTP handler.
func (app *Application) Router() http.Handler {
	return app.server.Handler()
}

// LambdaHandler returns the API Gateway entry point sharing the same wiring.
func (app *Application) LambdaHandler() *handler.LambdaHandler {
	return app.lambda
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Shutdown gracefully stops the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down timereport-bridge")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.telemetry.Shutdown(ctx); err != nil {
		app.logger.Error("failed to shutdown telemetry", "error", err)
		return err
	}

	app.logger.Info("timereport-bridge stopped")
	return nil
}
