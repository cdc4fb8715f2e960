package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingOptions configures the tracer provider
type TracingOptions struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Output         io.Writer
}

// Tracer owns a tracer provider and its shutdown
type Tracer struct {
	provider trace.TracerProvider
	shutdown func(context.Context) error
}

// NewTracer creates a provider exporting spans as JSON to Output
// when enabled, and a no-op provider otherwise
func NewTracer(opts TracingOptions) (*Tracer, error) {
	if !opts.Enabled {
		return &Tracer{
			provider: noop.NewTracerProvider(),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	exporterOpts := []stdouttrace.Option{}
	if opts.Output != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(opts.Output))
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("service.version", opts.ServiceVersion),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	return &Tracer{provider: provider, shutdown: provider.Shutdown}, nil
}

// Tracer returns a named tracer from the provider
func (t *Tracer) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

// Shutdown flushes pending spans
func (t *Tracer) Shutdown(ctx context.Context) error {
	if err := t.shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer: %w", err)
	}
	return nil
}
