package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OpMeta identifies a cache operation for telemetry purposes.
type OpMeta struct {
	Component string // Originating component: cache, index, storage (may be empty)
	Op        string // Operation name: get, put, scan, verify (required)
	Method    string // Storage method: standard or context_aware (optional)
	Key       string // Cache key (optional; only a prefix reaches telemetry)
}

// SpanName returns the deterministic span name for this operation.
// Format: cache.<component>.<op> or cache.<op>
func (m OpMeta) SpanName() string {
	if m.Component != "" {
		return "cache." + m.Component + "." + m.Op
	}
	return "cache." + m.Op
}

// Validate checks that the metadata names an operation.
func (m OpMeta) Validate() error {
	if m.Op == "" {
		return ErrMissingOp
	}
	return nil
}

// KeyPrefix returns a truncated form of the key for attributes. Keys are
// derived from queries, so full keys stay out of telemetry.
func (m OpMeta) KeyPrefix() string {
	const n = 8
	if len(m.Key) <= n {
		return m.Key
	}
	return m.Key[:n]
}

// Tracer wraps OpenTelemetry tracing with cache-operation span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a cache operation.
	StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.op", meta.Op),
		attribute.Bool("cache.error", false), // Will be updated in EndSpan if error
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("cache.component", meta.Component))
	}
	if meta.Method != "" {
		attrs = append(attrs, attribute.String("cache.method", meta.Method))
	}
	if meta.Key != "" {
		attrs = append(attrs, attribute.String("cache.key_prefix", meta.KeyPrefix()))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("cache.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
