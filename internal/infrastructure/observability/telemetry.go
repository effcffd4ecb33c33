package observability

import (
	"context"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// ServiceName is the name of this service for observability
	ServiceName = "timereport-bridge"

	// instrumentationName scopes the tracer used for command spans.
	instrumentationName = "github.com/qj0r9j0vc2/timereport-bridge"
)

// Telemetry holds the OpenTelemetry providers for tracing and metrics.
type Telemetry struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Metrics        *Metrics

	// Registry is the Prometheus registry backing /metrics.
	// Nil when a custom reader is used.
	Registry *promclient.Registry
}

// Option customizes telemetry construction.
type Option func(*options)

type options struct {
	reader sdkmetric.Reader
}

// WithReader replaces the Prometheus exporter with the given metric reader.
// Tests use an sdkmetric.ManualReader to inspect recorded values.
func WithReader(reader sdkmetric.Reader) Option {
	return func(o *options) {
		o.reader = reader
	}
}

// NewTelemetry creates and initializes OpenTelemetry telemetry.
// Metrics are exported through the Prometheus registry served on /metrics.
// Tracing uses a no-op provider.
func NewTelemetry(serviceName, serviceVersion string, opts ...Option) (*Telemetry, error) {
	if serviceName == "" {
		serviceName = ServiceName
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var registry *promclient.Registry
	reader := o.reader
	if reader == nil {
		registry = promclient.NewRegistry()
		prometheusExporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("creating prometheus exporter: %w", err)
		}
		reader = prometheusExporter
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	metrics, err := NewMetrics(meterProvider.Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	tracerProvider := noop.NewTracerProvider()

	// Only the default exporter owns the process-wide providers.
	if o.reader == nil {
		otel.SetMeterProvider(meterProvider)
		otel.SetTracerProvider(tracerProvider)
	}

	return &Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Metrics:        metrics,
		Registry:       registry,
	}, nil
}

// Tracer returns the tracer used for slash command spans.
func (t *Telemetry) Tracer() trace.Tracer {
	if t == nil || t.TracerProvider == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return t.TracerProvider.Tracer(instrumentationName)
}

// Shutdown cleanly shuts down the telemetry providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	if mp, ok := t.MeterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutting down meter provider: %w", err)
		}
	}
	return nil
}
