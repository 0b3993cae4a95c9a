package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func healthyChecker(name, message string) *CheckerFunc {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		return Healthy(message)
	})
}

func TestNewAggregator_Defaults(t *testing.T) {
	agg := NewAggregator()

	if agg.config.Timeout != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", agg.config.Timeout)
	}
	if !agg.config.Parallel {
		t.Error("default Parallel should be true")
	}
}

func TestNewAggregator_WithConfig(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout:  5 * time.Second,
		Parallel: false,
	})

	if agg.config.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", agg.config.Timeout)
	}
	if agg.config.Parallel {
		t.Error("Parallel should be false")
	}
}

func TestAggregator_RegisterAndUnregister(t *testing.T) {
	agg := NewAggregator()

	agg.Register("index", healthyChecker("index", "consistent"))
	agg.Register("storage", healthyChecker("storage", "probe ok"))

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "index" || names[1] != "storage" {
		t.Fatalf("CheckerNames() = %v, want [index storage]", names)
	}

	agg.Unregister("index")
	names = agg.CheckerNames()
	if len(names) != 1 || names[0] != "storage" {
		t.Errorf("CheckerNames() after unregister = %v, want [storage]", names)
	}
}

func TestAggregator_Check(t *testing.T) {
	agg := NewAggregator()
	agg.Register("index", healthyChecker("index", "consistent"))

	result, err := agg.Check(context.Background(), "index")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}

	_, err = agg.Check(context.Background(), "watcher")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()

	agg.Register("storage", healthyChecker("storage", "probe ok"))
	agg.Register("index", NewCheckerFunc("index", func(ctx context.Context) Result {
		return Degraded("3 untracked files")
	}))

	results := agg.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["storage"].Status != StatusHealthy {
		t.Errorf("storage status = %v, want StatusHealthy", results["storage"].Status)
	}
	if results["index"].Status != StatusDegraded {
		t.Errorf("index status = %v, want StatusDegraded", results["index"].Status)
	}
	if results["index"].Duration <= 0 {
		t.Error("expected a measured duration")
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	results := NewAggregator().CheckAll(context.Background())
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestAggregator_CheckAllSequential(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Parallel: false})

	agg.Register("index", healthyChecker("index", "ok"))
	agg.Register("storage", healthyChecker("storage", "ok"))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestAggregator_CheckAllTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 50 * time.Millisecond})

	agg.Register("slow-scan", NewCheckerFunc("slow-scan", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	results := agg.CheckAll(context.Background())

	if results["slow-scan"].Status != StatusUnhealthy {
		t.Errorf("slow-scan status = %v, want StatusUnhealthy", results["slow-scan"].Status)
	}
	if !errors.Is(results["slow-scan"].Error, ErrCheckTimeout) {
		t.Errorf("slow-scan error = %v, want ErrCheckTimeout", results["slow-scan"].Error)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()

	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{
			name:    "empty",
			results: map[string]Result{},
			want:    StatusHealthy,
		},
		{
			name: "all healthy",
			results: map[string]Result{
				"index":   Healthy("consistent"),
				"storage": Healthy("probe ok"),
			},
			want: StatusHealthy,
		},
		{
			name: "one degraded",
			results: map[string]Result{
				"index":   Degraded("untracked files"),
				"storage": Healthy("probe ok"),
			},
			want: StatusDegraded,
		},
		{
			name: "one unhealthy",
			results: map[string]Result{
				"index":   Healthy("consistent"),
				"storage": Unhealthy("disk full", nil),
			},
			want: StatusUnhealthy,
		},
		{
			name: "unhealthy overrides degraded",
			results: map[string]Result{
				"index":   Degraded("untracked files"),
				"storage": Unhealthy("disk full", nil),
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_Checker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("index", healthyChecker("index", "consistent"))

	checker := agg.Checker()
	if checker.Name() != "aggregate" {
		t.Errorf("Name() = %v, want 'aggregate'", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}
	if result.Details == nil {
		t.Error("Details should not be nil")
	}
}

func TestAggregator_CheckerWithUnhealthy(t *testing.T) {
	agg := NewAggregator()
	agg.Register("storage", NewCheckerFunc("storage", func(ctx context.Context) Result {
		return Unhealthy("disk full", nil)
	}))

	result := agg.Checker().Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if result.Message != "some checks failed" {
		t.Errorf("Message = %v, want 'some checks failed'", result.Message)
	}
}

func TestAggregator_RegisterReplaces(t *testing.T) {
	agg := NewAggregator()

	agg.Register("index", healthyChecker("index", "first"))
	agg.Register("index", healthyChecker("index", "second"))

	names := agg.CheckerNames()
	if len(names) != 1 {
		t.Errorf("expected 1 checker after replacement, got %d", len(names))
	}

	result, _ := agg.Check(context.Background(), "index")
	if result.Message != "second" {
		t.Errorf("Message = %v, want 'second'", result.Message)
	}
}
