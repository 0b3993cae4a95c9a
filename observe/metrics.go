package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a cache lookup and its outcome
	// (hit, fallback_hit, or miss).
	RecordLookup(ctx context.Context, method string, outcome string, elapsed time.Duration)

	// RecordStore records a successful store of sizeBytes.
	RecordStore(ctx context.Context, method string, sizeBytes int64, elapsed time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	lookupCount  metric.Int64Counter
	storeCount   metric.Int64Counter
	storeBytes   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"cache.lookup.total",
		metric.WithDescription("Total number of cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	storeCount, err := meter.Int64Counter(
		"cache.store.total",
		metric.WithDescription("Total number of cache stores"),
		metric.WithUnit("{store}"),
	)
	if err != nil {
		return nil, err
	}

	storeBytes, err := meter.Int64Counter(
		"cache.store.bytes",
		metric.WithDescription("Total payload bytes written to the cache"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.op.duration_ms",
		metric.WithDescription("Cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		lookupCount:  lookupCount,
		storeCount:   storeCount,
		storeBytes:   storeBytes,
		durationHist: durationHist,
	}, nil
}

// RecordLookup records one lookup with its outcome.
func (m *metricsImpl) RecordLookup(ctx context.Context, method string, outcome string, elapsed time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("cache.method", method),
		attribute.String("cache.outcome", outcome),
	)

	m.lookupCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(elapsed)/float64(time.Millisecond),
		metric.WithAttributes(
			attribute.String("cache.op", "get"),
			attribute.String("cache.outcome", outcome),
		))
}

// RecordStore records one successful store.
func (m *metricsImpl) RecordStore(ctx context.Context, method string, sizeBytes int64, elapsed time.Duration) {
	opt := metric.WithAttributes(attribute.String("cache.method", method))

	m.storeCount.Add(ctx, 1, opt)
	m.storeBytes.Add(ctx, sizeBytes, opt)
	m.durationHist.Record(ctx, float64(elapsed)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("cache.op", "put")))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLookup(ctx context.Context, method string, outcome string, elapsed time.Duration) {
}

func (m *noopMetrics) RecordStore(ctx context.Context, method string, sizeBytes int64, elapsed time.Duration) {
}
