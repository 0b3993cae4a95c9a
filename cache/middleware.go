package cache

import (
	"context"

	"github.com/jonwraymond/researchcache/cachekey"
)

// ExecutorFunc performs the actual research for a request and returns the
// serialized result.
type ExecutorFunc func(ctx context.Context, req cachekey.Request) ([]byte, error)

// SkipRule reports whether caching should be skipped for a request, e.g.
// for queries that must always be answered fresh.
type SkipRule func(req cachekey.Request) bool

// Middleware wraps a research executor with read-through caching.
//
// On a hit (direct or cross-method fallback) the executor is not called.
// On a miss the executor runs and its result is cached; executor errors
// are returned as-is and never cached. Cache write failures degrade to a
// pass-through: the caller still gets the fresh result.
type Middleware struct {
	store    *Store
	skipRule SkipRule
}

// NewMiddleware creates a Middleware over store. A nil skipRule caches
// every request.
func NewMiddleware(store *Store, skipRule SkipRule) *Middleware {
	return &Middleware{store: store, skipRule: skipRule}
}

// Execute answers req from the cache or by running executor.
func (m *Middleware) Execute(ctx context.Context, method cachekey.Method, req cachekey.Request, executor ExecutorFunc) ([]byte, error) {
	if m.skipRule != nil && m.skipRule(req) {
		return executor(ctx, req)
	}

	if res, ok := m.store.GetByRequest(ctx, method, req); ok {
		return res.Payload, nil
	}

	payload, err := executor(ctx, req)
	if err != nil {
		return nil, err
	}

	// A failed store is not the caller's problem.
	_, _ = m.store.Put(ctx, method, req, payload, 0)
	return payload, nil
}
