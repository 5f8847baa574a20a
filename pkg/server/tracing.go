package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for sessions.
const defaultTracerName = "connect"

// TracerName is the name used for the default tracer. Set before creating
// sessions to match the application's naming.
var TracerName = defaultTracerName

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// startSpan starts a span for a session operation.
func (s *Session) startSpan(name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("connect.session_id", s.ID))
	return s.tracer.Start(s.ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
