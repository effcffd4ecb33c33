package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Command metrics
	CommandsProcessedTotal metric.Int64Counter
	CommandDuration        metric.Float64Histogram
	SignatureFailuresTotal metric.Int64Counter

	// Backend metrics
	BackendRequestsTotal   metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram

	// Slack delivery metrics
	DeliveriesTotal metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Command metrics
	m.CommandsProcessedTotal, err = meter.Int64Counter(
		"commands.processed.total",
		metric.WithDescription("Total number of slash commands processed"),
		metric.WithUnit("{commands}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands_processed_total: %w", err)
	}

	m.CommandDuration, err = meter.Float64Histogram(
		"commands.processing.duration",
		metric.WithDescription("Slash command processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command_duration: %w", err)
	}

	m.SignatureFailuresTotal, err = meter.Int64Counter(
		"commands.signature_failures.total",
		metric.WithDescription("Total number of requests rejected by signature verification"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signature_failures_total: %w", err)
	}

	// Backend metrics
	m.BackendRequestsTotal, err = meter.Int64Counter(
		"backend.requests.total",
		metric.WithDescription("Total number of time-report backend requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend_requests_total: %w", err)
	}

	m.BackendRequestDuration, err = meter.Float64Histogram(
		"backend.request.duration",
		metric.WithDescription("Time-report backend request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend_request_duration: %w", err)
	}

	// Delivery metrics
	m.DeliveriesTotal, err = meter.Int64Counter(
		"slack.deliveries.total",
		metric.WithDescription("Total number of messages delivered to Slack"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating deliveries_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// AddActiveRequests adjusts the in-flight request gauge.
func (m *Metrics) AddActiveRequests(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPRequestsActive.Add(ctx, delta)
}

// RecordCommand records a processed slash command.
func (m *Metrics) RecordCommand(ctx context.Context, action string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("action", action))

	m.CommandsProcessedTotal.Add(ctx, 1, attrs)
	m.CommandDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSignatureFailure records a request rejected by signature verification.
func (m *Metrics) RecordSignatureFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.SignatureFailuresTotal.Add(ctx, 1)
}

// RecordBackendRequest records a backend call.
func (m *Metrics) RecordBackendRequest(ctx context.Context, operation string, statusCode int, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("success", success),
	)

	m.BackendRequestsTotal.Add(ctx, 1, attrs)
	m.BackendRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDelivery records a message delivered to Slack.
// mode is "webhook" for response_url replies and "bot" for structured messages.
func (m *Metrics) RecordDelivery(ctx context.Context, mode string, success bool) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	))
}
