package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an in-memory provider for the duration of the test
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	prev := otel.GetTracerProvider()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func attr(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsString(), true
		}
	}
	return "", false
}

func TestStartCommandSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	ctx := context.Background()
	spanCtx, span := StartCommandSpan(ctx, "biblio library mine")
	if spanCtx == ctx {
		t.Error("expected a new context carrying the span")
	}
	RecordRoute(span, "/my-library", "/my-library", "user")
	End(span, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	got := spans[0]
	if got.Name != "biblio library mine" {
		t.Errorf("span name = %q, want %q", got.Name, "biblio library mine")
	}
	if got.Status.Code != codes.Ok {
		t.Errorf("status = %v, want Ok", got.Status.Code)
	}

	tests := map[string]string{
		"command":         "biblio library mine",
		"component":       "cli",
		"route.requested": "/my-library",
		"route.final":     "/my-library",
		"user.role":       "user",
	}
	for key, want := range tests {
		if v, ok := attr(got.Attributes, key); !ok || v != want {
			t.Errorf("attribute %s = %q, want %q", key, v, want)
		}
	}
}

func TestEnd_Error(t *testing.T) {
	exporter := setupTestTracer(t)

	_, span := StartCommandSpan(context.Background(), "biblio users list")
	End(span, errors.New("forbidden"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status.Code)
	}
	if spans[0].Status.Description != "forbidden" {
		t.Errorf("description = %q, want %q", spans[0].Status.Description, "forbidden")
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestInitProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tests := []struct {
		name string
		cfg  func() Config
		// exporting cases stay empty so shutdown never dials the collector
		span bool
	}{
		{"disabled", DefaultConfig, true},
		{"enabled without exporter", func() Config {
			cfg := DefaultConfig()
			cfg.Enabled = true
			return cfg
		}, true},
		{"collector host and port", func() Config {
			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.Endpoint = "localhost:4318"
			cfg.SampleRate = 0.5
			return cfg
		}, false},
		{"collector url", func() Config {
			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.Endpoint = "https://collector.example.com/v1/traces"
			return cfg
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			shutdown, err := InitProvider(ctx, tt.cfg())
			if err != nil {
				t.Fatalf("InitProvider failed: %v", err)
			}
			if shutdown == nil {
				t.Fatal("expected shutdown function, got nil")
			}

			if tt.span {
				_, span := StartCommandSpan(ctx, "biblio version")
				End(span, nil)
			}

			if err := shutdown(ctx); err != nil {
				t.Fatalf("shutdown returned error: %v", err)
			}
		})
	}
}
