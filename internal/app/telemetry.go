package app

import (
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// setupTelemetry initializes OpenTelemetry metrics and the no-op tracer.
func (app *Application) setupTelemetry() error {
	telemetry, err := observability.NewTelemetry(observability.ServiceName, Version)
	if err != nil {
		return err
	}

	app.telemetry = telemetry

	app.logger.Info("telemetry initialized",
		"service", observability.ServiceName,
		"metrics_enabled", true,
		"tracing_enabled", false,
	)

	return nil
}
