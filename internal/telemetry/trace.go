package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartCommandSpan creates a span for one CLI command, e.g. "biblio library mine".
//
// Usage:
//
//	ctx, span := telemetry.StartCommandSpan(ctx, cmd.CommandPath())
//	defer span.End()
func StartCommandSpan(ctx context.Context, commandPath string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, commandPath, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String("command", commandPath),
		attribute.String("component", "cli"),
	)
	return ctx, span
}

// RecordRoute adds the navigation outcome to a command span
func RecordRoute(span trace.Span, requested, final, role string) {
	span.SetAttributes(
		attribute.String("route.requested", requested),
		attribute.String("route.final", final),
		attribute.String("user.role", role),
	)
}

// End closes span with an error status when err is set
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
