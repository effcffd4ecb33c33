package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/server"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/usecase/timereport"
)

func (app *Application) initializeUseCases() {
	app.dispatcher = timereport.NewDispatcher(
		app.clients.Backend,
		timereport.Settings{
			ValidReasons: app.config.TimeReport.ValidReasons,
			MaxRangeDays: app.config.TimeReport.MaxRangeDays,
			DefaultHours: app.config.TimeReport.Hours(),
			Location:     app.config.Location(),
		},
		&slogAdapter{logger: app.logger},
	)
}

func (app *Application) initializeHandlers() {
	readyHandler := handler.NewReadyHandler()
	readyHandler.AddChecker("backend", app.clients.Backend)

	var gatherer prometheus.Gatherer
	if app.telemetry.Registry != nil {
		gatherer = app.telemetry.Registry
	}

	opts := []handler.SlackCommandsOption{
		handler.WithMetrics(app.telemetry.Metrics),
		handler.WithTracer(app.telemetry.Tracer()),
	}
	if app.clients.Slack != nil {
		opts = append(opts, handler.WithConfirmationSender(app.clients.Slack))
	}

	slackCommands := handler.NewSlackCommandsHandler(
		app.dispatcher,
		app.clients.Verifier,
		app.clients.Responder,
		app.logger,
		opts...,
	)

	app.handlers = &server.Handlers{
		SlackCommands: slackCommands,
		Health:        handler.NewHealthHandler(),
		Ready:         readyHandler,
		Metrics:       handler.NewMetricsHandler(gatherer),
	}
	app.lambda = handler.NewLambdaHandler(slackCommands, app.logger)
}

func (app *Application) setupServer() {
	router := server.NewRouter(app.handlers, server.RouterOptions{
		Logger:         app.logger,
		Metrics:        app.telemetry.Metrics,
		Tracer:         app.telemetry.Tracer(),
		RequestTimeout: app.config.Server.RequestTimeout,
	})
	app.server = server.New(app.config.Server, router, app.logger)
}
