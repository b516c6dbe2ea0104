package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the instrumentation name used for vmini spans.
const DefaultTracerName = "vmini"

// Tracer returns the tracer used for vmini spans from the global provider.
// Without a configured provider the spans are no-ops.
func Tracer() trace.Tracer {
	return otel.Tracer(DefaultTracerName)
}

// StartSpan starts a span named name with attrs. A nil tracer uses Tracer().
// The returned end function records err (if non-nil) and ends the span.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	if tracer == nil {
		tracer = Tracer()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
