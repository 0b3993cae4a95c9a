package cache

import (
	"context"
	"time"

	"github.com/jonwraymond/researchcache/cachekey"
	"github.com/jonwraymond/researchcache/index"
)

// Result is a successful lookup: the stored payload plus its index
// metadata and how the lookup found it.
type Result struct {
	// Key is the key the entry was found under, which may differ from
	// the lookup key when the hit came from a method fallback.
	Key string

	// Method is the write path that produced the entry.
	Method cachekey.Method

	// Payload is the stored research result.
	Payload []byte

	// Entry is the index metadata for the hit.
	Entry index.Entry

	// Outcome is OutcomeHit or OutcomeFallbackHit.
	Outcome Outcome
}

// Recorder receives cache operation telemetry. observe.Metrics satisfies
// this interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Latency: implementations must not block; lookups are on the hot path.
type Recorder interface {
	// RecordLookup records one lookup and its outcome.
	RecordLookup(ctx context.Context, method string, outcome string, elapsed time.Duration)

	// RecordStore records one successful store.
	RecordStore(ctx context.Context, method string, sizeBytes int64, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordLookup(context.Context, string, string, time.Duration) {}
func (nopRecorder) RecordStore(context.Context, string, int64, time.Duration)   {}
