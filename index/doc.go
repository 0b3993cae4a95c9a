// Package index maintains the authoritative record of cache entries.
//
// The index mirrors what is actually persisted in storage: every stored
// entry has exactly one index record and vice versa. It provides O(1)
// existence checks, hit/miss statistics, JSON persistence, and repair
// (verify/rebuild) against a storage listing.
package index
