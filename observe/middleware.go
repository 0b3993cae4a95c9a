package observe

import (
	"context"
	"time"
)

// OpFunc is the signature for instrumented cache operations. The outcome
// string (hit, fallback_hit, miss, stored) feeds lookup metrics; return
// "" for operations without a lookup outcome.
type OpFunc func(ctx context.Context, meta OpMeta) (outcome string, err error)

// Middleware wraps cache operations with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe OpFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Metrics returns the middleware's metrics recorder, for wiring into a
// cache store.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Wrap wraps an OpFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn OpFunc) OpFunc {
	return func(ctx context.Context, meta OpMeta) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		outcome, err := fn(ctx, meta)
		duration := time.Since(start)

		// End span (records error status if err != nil)
		m.tracer.EndSpan(span, err)

		if outcome != "" {
			m.metrics.RecordLookup(ctx, meta.Method, outcome, duration)
		}

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if outcome != "" {
			fields = append(fields, Field{Key: "outcome", Value: outcome})
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "cache operation failed", fields...)
		} else {
			opLogger.Debug(ctx, "cache operation completed", fields...)
		}

		return outcome, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}

// NewMetrics creates a Metrics recorder from an Observer's meter. The
// result satisfies cache.Recorder.
func NewMetrics(obs Observer) (Metrics, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return newMetrics(obs.Meter())
}
