package index

import (
	"sync"
	"sync/atomic"
	"time"
)

// Index is the authoritative, concurrency-safe mapping from cache key to
// entry metadata.
//
// Contract:
// - Concurrency: safe for concurrent use; per-key operations are
//   linearizable (the map is guarded by a single mutex, held only for
//   the in-memory update, never across I/O).
// - Consistency: callers must sequence Put after the storage write it
//   mirrors and must not Put when that write failed.
// - Errors: lookups never error; a miss is (Entry{}, false).
type Index struct {
	mu      sync.RWMutex
	entries map[string]Entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Put inserts or overwrites the record for entry.Key. Re-storing the
// same key is idempotent with respect to entry count.
func (ix *Index) Put(entry Entry) {
	ix.mu.Lock()
	ix.entries[entry.Key] = entry
	ix.mu.Unlock()
}

// Get returns the entry for key and records a hit or miss. Expired
// entries are removed lazily and reported as misses. A hit refreshes the
// entry's last-accessed time.
func (ix *Index) Get(key string) (Entry, bool) {
	ix.mu.RLock()
	entry, ok := ix.entries[key]
	ix.mu.RUnlock()

	if !ok {
		ix.misses.Add(1)
		return Entry{}, false
	}

	if entry.Expired() {
		ix.mu.Lock()
		// Re-check under the write lock; a concurrent re-store wins.
		if current, stillThere := ix.entries[key]; stillThere && current.Expired() {
			delete(ix.entries, key)
		}
		ix.mu.Unlock()
		ix.misses.Add(1)
		return Entry{}, false
	}

	ix.mu.Lock()
	if current, stillThere := ix.entries[key]; stillThere {
		current.LastAccessed = time.Now().UTC()
		ix.entries[key] = current
		entry = current
	}
	ix.mu.Unlock()

	ix.hits.Add(1)
	return entry, true
}

// Contains reports whether key has a live (non-expired) record without
// touching hit/miss counters.
func (ix *Index) Contains(key string) bool {
	ix.mu.RLock()
	entry, ok := ix.entries[key]
	ix.mu.RUnlock()
	return ok && !entry.Expired()
}

// Peek returns the entry for key without counters or access-time updates.
func (ix *Index) Peek(key string) (Entry, bool) {
	ix.mu.RLock()
	entry, ok := ix.entries[key]
	ix.mu.RUnlock()
	if !ok || entry.Expired() {
		return Entry{}, false
	}
	return entry, true
}

// Delete removes the record for key. Idempotent.
func (ix *Index) Delete(key string) {
	ix.mu.Lock()
	delete(ix.entries, key)
	ix.mu.Unlock()
}

// Len returns the number of records, including expired ones not yet
// cleaned up.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Keys returns all recorded keys.
func (ix *Index) Keys() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a copy of all entries.
func (ix *Index) Snapshot() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entries := make([]Entry, 0, len(ix.entries))
	for _, e := range ix.entries {
		entries = append(entries, e)
	}
	return entries
}

// Cleanup removes expired records and returns how many were removed.
func (ix *Index) Cleanup() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	removed := 0
	for k, e := range ix.entries {
		if e.Expired() {
			delete(ix.entries, k)
			removed++
		}
	}
	return removed
}

// replaceAll swaps the entire entry map. Used by Load and Rebuild.
func (ix *Index) replaceAll(entries map[string]Entry) {
	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
}
