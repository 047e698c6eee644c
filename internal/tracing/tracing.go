// Package tracing installs the OpenTelemetry tracer provider used by the
// pipeline spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
)

// Config configures trace export.
type Config struct {
	ServiceName string
	// Endpoint is the OTLP HTTP host:port. Empty disables export.
	Endpoint   string
	Insecure   bool
	SampleRate float64
}

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(ctx context.Context) error

// Init installs a batching OTLP tracer provider as the global provider.
// With no endpoint the global no-op provider is left in place.
func Init(ctx context.Context, cfg Config, log logger.Logger) (ShutdownFunc, error) {
	// W3C trace context is honoured either way so incoming ids are kept.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Endpoint == "" {
		log.Debug(ctx, "Tracing disabled: no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "Tracing enabled: exporting to %s (sample rate %.2f)", cfg.Endpoint, cfg.SampleRate)
	return tp.Shutdown, nil
}

// sampler maps a rate onto a sampler. Zero means "not set" and samples
// everything, matching the default.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0 || rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}
