package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is the entry lifetime to use when none is specified.
	// If zero, entries never expire.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration

	// TargetHitRate is the hit rate the cache is expected to sustain;
	// MeetsTarget reports whether observed stats reach it.
	TargetHitRate float64

	// HotPayloadBytes is the per-entry size ceiling for the in-memory
	// payload layer. Larger payloads are always read from disk.
	HotPayloadBytes int64
}

// DefaultPolicy returns the default caching policy:
// DefaultTTL 24h, MaxTTL 7 days, TargetHitRate 0.8.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL:      24 * time.Hour,
		MaxTTL:          7 * 24 * time.Hour,
		TargetHitRate:   0.8,
		HotPayloadBytes: 1 << 20,
	}
}

// EffectiveTTL returns the TTL to use, applying the default and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}

// MeetsTarget reports whether hitRate reaches the policy's target.
// A zero target always passes.
func (p Policy) MeetsTarget(hitRate float64) bool {
	if p.TargetHitRate <= 0 {
		return true
	}
	return hitRate >= p.TargetHitRate
}
