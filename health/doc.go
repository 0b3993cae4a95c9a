// Package health provides health checking for the cache subsystem.
//
// It combines a generic checker framework (Checker, Result, Aggregator,
// HTTP handlers) with cache-specific probes: IndexChecker verifies that
// the in-memory index agrees with the files on disk, and StorageChecker
// exercises the backend with a write/read/delete cycle.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, or Unhealthy.
//
// # Basic Usage
//
//	check := health.NewStorageChecker(backend)
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("storage probe failed: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("index", health.NewIndexChecker(store))
//	agg.Register("storage", health.NewStorageChecker(backend))
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health
