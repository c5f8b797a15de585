package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// WithStoreSpan runs fn inside a client span describing one session store
// operation. It works with or without InitTracing; the global provider is a
// no-op until tracing is configured.
func WithStoreSpan(ctx context.Context, system, operation, key string, fn func(ctx context.Context) error) error {
	tracer := otel.Tracer(instrumentationName)

	spanCtx, span := tracer.Start(ctx, "session."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemKey.String(system),
			semconv.DBOperationKey.String(operation),
			attribute.String("session.key", key),
		),
	)
	defer span.End()

	err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
