package observe

import (
	"context"
	"testing"
	"time"
)

func TestObserverContract_Noops(t *testing.T) {
	cfg := Config{
		ServiceName: "observe-test",
		Tracing: TracingConfig{
			Enabled:  false,
			Exporter: "none",
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Exporter: "none",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Fatalf("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Fatalf("expected non-nil meter")
	}
	if obs.Logger() == nil {
		t.Fatalf("expected non-nil logger")
	}
}

func TestLoggerContract_WithOp(t *testing.T) {
	logger := &noopLogger{}
	if logger.WithOp(OpMeta{Op: "get"}) == nil {
		t.Fatalf("WithOp should return non-nil logger")
	}
}

func TestMetricsContract_NoPanic(t *testing.T) {
	metrics := &noopMetrics{}
	metrics.RecordLookup(context.Background(), "standard", "hit", 10*time.Millisecond)
	metrics.RecordStore(context.Background(), "standard", 64, 10*time.Millisecond)
}

func TestTracerContract_NoPanic(t *testing.T) {
	tracer := newNoopTracer()
	ctx := context.Background()
	_, span := tracer.StartSpan(ctx, OpMeta{Op: "get"})
	tracer.EndSpan(span, nil)
}
