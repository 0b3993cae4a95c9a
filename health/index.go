package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/researchcache/index"
)

// IndexVerifier is the slice of the cache store the index checker
// needs. *cache.Store satisfies it.
type IndexVerifier interface {
	// Verify compares index membership against the storage listing.
	Verify(ctx context.Context) error

	// Stats returns a point-in-time view of the index.
	Stats() index.Stats
}

// IndexChecker reports whether the in-memory index agrees with what is
// actually on disk. Untracked files are recoverable (the fallback scan
// re-indexes them on the next lookup), so they only degrade the status.
// Ghost records mean lookups can return entries whose payloads are
// gone, which is a failure.
type IndexChecker struct {
	verifier IndexVerifier
}

// NewIndexChecker creates a checker over the given verifier.
func NewIndexChecker(verifier IndexVerifier) *IndexChecker {
	return &IndexChecker{verifier: verifier}
}

// Name returns the name of this checker.
func (c *IndexChecker) Name() string {
	return "index"
}

// Check verifies index/storage consistency.
func (c *IndexChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	stats := c.verifier.Stats()
	details := map[string]any{
		"entries":          stats.Entries,
		"expired":          stats.Expired,
		"total_size_bytes": stats.TotalSizeBytes,
		"hit_rate":         stats.HitRate,
	}

	err := c.verifier.Verify(ctx)
	if err == nil {
		return Healthy(fmt.Sprintf("index consistent: %d entries", stats.Entries)).
			WithDetails(details)
	}

	var drift *index.InconsistencyError
	if errors.As(err, &drift) {
		details["ghost_keys"] = len(drift.Ghosts)
		details["untracked_keys"] = len(drift.Untracked)

		if len(drift.Ghosts) > 0 {
			return Unhealthy(
				fmt.Sprintf("index has %d ghost records", len(drift.Ghosts)),
				err,
			).WithDetails(details)
		}
		return Degraded(
			fmt.Sprintf("%d stored files are untracked", len(drift.Untracked)),
		).WithDetails(details)
	}

	return Unhealthy("index verification failed", err).WithDetails(details)
}

// Info returns index statistics without running the consistency pass.
func (c *IndexChecker) Info(ctx context.Context) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	stats := c.verifier.Stats()
	info := map[string]any{
		"entries":             stats.Entries,
		"expired":             stats.Expired,
		"total_size_bytes":    stats.TotalSizeBytes,
		"hits":                stats.Hits,
		"misses":              stats.Misses,
		"hit_rate":            stats.HitRate,
		"average_age_seconds": stats.AverageAgeSeconds,
	}
	return info, nil
}

var _ InfoChecker = (*IndexChecker)(nil)
