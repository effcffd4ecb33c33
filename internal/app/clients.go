package app

import (
	"fmt"
	"net/http"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/backend"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/slack"
)

// Clients holds all external integration clients
type Clients struct {
	Backend   *backend.Client
	Verifier  *slack.SignatureVerifier
	Responder *slack.Responder
	Slack     *slack.Client // nil unless a bot token is configured
}

func (app *Application) initializeClients() error {
	logger := &slogAdapter{logger: app.logger}
	metrics := app.telemetry.Metrics

	backendClient, err := backend.NewClient(
		app.config.Backend.URL,
		app.config.Backend.Token,
		app.config.Backend.Timeout,
		backend.WithMetrics(metrics),
		backend.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	app.clients = &Clients{
		Backend:   backendClient,
		Verifier:  slack.NewSignatureVerifier(app.config.Slack.SigningSecret),
		Responder: slack.NewResponder(&http.Client{Timeout: app.config.Backend.Timeout}, metrics, logger),
	}

	if app.config.IsBotEnabled() {
		app.clients.Slack = slack.NewClient(
			app.config.Slack.BotToken,
			metrics,
			logger,
			app.config.Slack.APIURL,
		)
		app.logger.Info("Slack bot confirmations enabled")
	}

	return nil
}
