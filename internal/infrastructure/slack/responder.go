package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/logger"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// ErrMissingResponseURL is returned when there is nowhere to send a reply.
var ErrMissingResponseURL = errors.New("response_url is empty")

// Responder posts plain text replies to a slash command's response_url.
type Responder struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     logger.Logger
}

// NewResponder creates a responder. A nil httpClient uses a client with a 10s timeout.
func NewResponder(httpClient *http.Client, metrics *observability.Metrics, log logger.Logger) *Responder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Responder{
		httpClient: httpClient,
		metrics:    metrics,
		logger:     log,
	}
}

// Respond posts {"text": text} to responseURL as application/json.
func (r *Responder) Respond(ctx context.Context, responseURL, text string) error {
	if responseURL == "" {
		r.logger.Error("response_url is empty, cannot send reply")
		return ErrMissingResponseURL
	}

	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, r.httpClient, msg); err != nil {
		r.metrics.RecordDelivery(ctx, "webhook", false)
		r.logger.Error("failed to send reply to response_url", "error", err)
		return fmt.Errorf("posting to response_url: %w", err)
	}

	r.metrics.RecordDelivery(ctx, "webhook", true)
	r.logger.Debug("reply sent to response_url")
	return nil
}
