// Package observe provides observability primitives for cache operations.
//
// It is a pure instrumentation library: no key derivation, no storage, no I/O
// beyond exporter setup. Consumers wire the observer into the cache store or
// the retrieval middleware.
package observe
