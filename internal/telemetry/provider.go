// Package telemetry traces biblio commands and the API calls they make.
//
// InitProvider installs the global tracer provider. The API client's otelhttp
// transport reads that global, so every request becomes a child of the command span.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds tracer settings
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled false installs a noop provider
	Enabled bool

	// Endpoint is the OTLP/HTTP collector, either host:port or a full URL.
	// Empty means spans are recorded but never exported.
	Endpoint string

	// SampleRate is the fraction of traces kept, 0.0 to 1.0
	SampleRate float64
}

// DefaultConfig has tracing disabled
func DefaultConfig() Config {
	return Config{
		ServiceName:    "biblio",
		ServiceVersion: "dev",
		SampleRate:     1.0,
	}
}

// Shutdown flushes and stops a provider
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitProvider installs the global tracer provider and the W3C trace context
// propagator. The returned shutdown flushes pending spans.
func InitProvider(ctx context.Context, cfg Config) (Shutdown, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
		resource.WithOS(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	}

	if cfg.Endpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			endpointOption(cfg.Endpoint),
			otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func sampler(rate float64) sdktrace.Sampler {
	if rate >= 1.0 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

func endpointOption(endpoint string) otlptracehttp.Option {
	if strings.Contains(endpoint, "://") {
		return otlptracehttp.WithEndpointURL(endpoint)
	}
	return otlptracehttp.WithEndpoint(endpoint)
}

// Tracer returns the biblio tracer from the global provider
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer("github.com/felixgeelhaar/biblio")
}
