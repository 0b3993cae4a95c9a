// Package cache composes key derivation, the in-memory index, and file
// storage into a research-result cache.
//
// Store is the main entry point. A Put derives the cache key for the
// request, persists the payload, and only then records the entry in the
// index, so a failed write never leaves a ghost entry. Lookups fall back
// across storage methods: a result written via the context-aware path is
// still found by a standard lookup, and vice versa.
//
// Cache failures degrade to misses. Middleware wraps a research executor
// so callers get transparent read-through caching without handling cache
// errors themselves.
package cache
