package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/jonwraymond/researchcache/health"
	"github.com/jonwraymond/researchcache/storage"
)

func ExampleNewStorageChecker() {
	dir, _ := os.MkdirTemp("", "cache-health")
	defer os.RemoveAll(dir)
	backend, _ := storage.NewFileStore(dir)

	checker := health.NewStorageChecker(backend)
	result := checker.Check(context.Background())

	fmt.Println("Checker name:", checker.Name())
	fmt.Println("Status:", result.Status.String())
	// Output:
	// Checker name: storage
	// Status: healthy
}

func ExampleNewCheckerFunc() {
	hitRateChecker := health.NewCheckerFunc("hit-rate", func(ctx context.Context) health.Result {
		return health.Healthy("hit rate above target")
	})

	result := hitRateChecker.Check(context.Background())

	fmt.Println("Checker name:", hitRateChecker.Name())
	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	// Output:
	// Checker name: hit-rate
	// Status: healthy
	// Message: hit rate above target
}

func ExampleUnhealthy() {
	err := errors.New("disk full")
	result := health.Unhealthy("storage write failed", err)

	fmt.Println("Status:", result.Status.String())
	fmt.Println("Message:", result.Message)
	fmt.Println("Has error:", result.Error != nil)
	// Output:
	// Status: unhealthy
	// Message: storage write failed
	// Has error: true
}

func ExampleResult_WithDetails() {
	result := health.Healthy("index consistent").WithDetails(map[string]any{
		"hit_rate": 0.95,
		"entries":  1234,
	})

	fmt.Println("Status:", result.Status.String())
	fmt.Printf("Hit rate: %.0f%%\n", result.Details["hit_rate"].(float64)*100)
	// Output:
	// Status: healthy
	// Hit rate: 95%
}

func ExampleNewAggregator() {
	dir, _ := os.MkdirTemp("", "cache-health")
	defer os.RemoveAll(dir)
	backend, _ := storage.NewFileStore(dir)

	agg := health.NewAggregator()
	agg.Register("storage", health.NewStorageChecker(backend))
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))

	fmt.Println("Registered checkers:", agg.CheckerNames())
	// Output:
	// Registered checkers: [storage memory]
}

func ExampleAggregator_OverallStatus() {
	agg := health.NewAggregator()

	results := map[string]health.Result{
		"index":   health.Healthy("ok"),
		"storage": health.Healthy("ok"),
	}
	fmt.Println("All healthy:", agg.OverallStatus(results).String())

	results["index"] = health.Degraded("untracked files")
	fmt.Println("One degraded:", agg.OverallStatus(results).String())

	results["storage"] = health.Unhealthy("disk full", nil)
	fmt.Println("One unhealthy:", agg.OverallStatus(results).String())
	// Output:
	// All healthy: healthy
	// One degraded: degraded
	// One unhealthy: unhealthy
}

func ExampleAggregator_Check() {
	agg := health.NewAggregator()
	agg.Register("watcher", health.NewCheckerFunc("watcher", func(ctx context.Context) health.Result {
		return health.Healthy("no external changes")
	}))

	ctx := context.Background()
	result, err := agg.Check(ctx, "watcher")
	if err == nil {
		fmt.Println("Status:", result.Status.String())
	}

	_, err = agg.Check(ctx, "unknown")
	fmt.Println("Unknown checker error:", errors.Is(err, health.ErrCheckerNotFound))
	// Output:
	// Status: healthy
	// Unknown checker error: true
}

func ExampleAggregator_Checker() {
	agg := health.NewAggregator(health.AggregatorConfig{
		Timeout:  5 * time.Second,
		Parallel: true,
	})
	agg.Register("index", health.NewCheckerFunc("index", func(ctx context.Context) health.Result {
		return health.Healthy("consistent")
	}))

	checker := agg.Checker()
	result := checker.Check(context.Background())

	fmt.Println("Checker name:", checker.Name())
	fmt.Println("Overall status:", result.Status.String())
	fmt.Println("Has sub-check details:", result.Details != nil)
	// Output:
	// Checker name: aggregate
	// Overall status: healthy
	// Has sub-check details: true
}

func ExampleLivenessHandler() {
	handler := health.LivenessHandler()

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	fmt.Println("Status code:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// Status code: 200
	// Body: OK
}

func ExampleDetailedHandler() {
	agg := health.NewAggregator()
	agg.Register("index", health.NewCheckerFunc("index", func(ctx context.Context) health.Result {
		return health.Healthy("consistent")
	}))

	handler := health.DetailedHandler(agg)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response health.HealthResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &response)

	fmt.Println("Status code:", rec.Code)
	fmt.Println("Overall status:", response.Status)
	fmt.Println("Has checks:", len(response.Checks) > 0)
	// Output:
	// Status code: 200
	// Overall status: healthy
	// Has checks: true
}

func ExampleRegisterHandlers() {
	agg := health.NewAggregator()
	agg.Register("index", health.NewCheckerFunc("index", func(ctx context.Context) health.Result {
		return health.Healthy("ok")
	}))

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)

	for _, ep := range []string{"/healthz", "/readyz", "/health"} {
		req := httptest.NewRequest("GET", ep, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		fmt.Printf("%s: %d\n", ep, rec.Code)
	}
	// Output:
	// /healthz: 200
	// /readyz: 200
	// /health: 200
}
