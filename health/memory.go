package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the allocation ratio that reports degraded.
	// Must fall in (0, 1); defaults to 0.8.
	WarningThreshold float64

	// CriticalThreshold is the allocation ratio that reports unhealthy.
	// Must fall in (0, 1) and above WarningThreshold; defaults to 0.95.
	CriticalThreshold float64

	// MaxAlloc caps expected allocation in bytes. Zero means use the
	// bytes the runtime has obtained from the OS.
	MaxAlloc uint64
}

// MemoryChecker reports process heap pressure. The hot payload cache
// holds payloads in heap, so sustained growth here usually means the
// hot-cache size ceiling is set too high for the workload.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

var _ Checker = (*MemoryChecker)(nil)

// NewMemoryChecker creates a memory checker, clamping out-of-range
// thresholds to their defaults.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}

	return &MemoryChecker{config: config}
}

// Name identifies this checker in aggregate reports.
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check reads runtime memory stats and grades allocation against the
// configured ceiling.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	if maxAlloc == 0 {
		return Healthy("memory stats unavailable").WithDetails(map[string]any{
			"alloc":  stats.Alloc,
			"sys":    stats.Sys,
			"num_gc": stats.NumGC,
		})
	}

	ratio := float64(stats.Alloc) / float64(maxAlloc)

	details := map[string]any{
		"alloc_bytes":    stats.Alloc,
		"alloc_mb":       float64(stats.Alloc) / (1024 * 1024),
		"max_alloc":      maxAlloc,
		"usage_percent":  ratio * 100,
		"heap_alloc":     stats.HeapAlloc,
		"heap_sys":       stats.HeapSys,
		"heap_in_use":    stats.HeapInuse,
		"heap_objects":   stats.HeapObjects,
		"gc_pause_total": stats.PauseTotalNs,
		"num_gc":         stats.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	}

	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy(
			fmt.Sprintf("memory usage critical: %.1f%%", ratio*100),
			ErrCheckFailed,
		).WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded(
			fmt.Sprintf("memory usage high: %.1f%%", ratio*100),
		).WithDetails(details)
	default:
		return Healthy(
			fmt.Sprintf("memory usage normal: %.1f%%", ratio*100),
		).WithDetails(details)
	}
}

// ForceGC triggers a garbage collection so the next Check reads
// settled numbers.
func (m *MemoryChecker) ForceGC() {
	runtime.GC()
}
