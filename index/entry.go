package index

import (
	"time"

	"github.com/jonwraymond/researchcache/cachekey"
)

// Entry is the metadata record for one stored research result. The heavy
// payload lives in storage; the index holds only what existence checks
// and statistics need.
type Entry struct {
	// Key is the derived cache key.
	Key string `json:"key"`

	// Path is the storage-relative location of the payload file.
	Path string `json:"path"`

	// ResearchType classifies the entry.
	ResearchType string `json:"research_type"`

	// Query is the original (un-normalized) query text.
	Query string `json:"query"`

	// Method is the write path that produced the entry.
	Method cachekey.Method `json:"method"`

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed is updated on every successful lookup.
	LastAccessed time.Time `json:"last_accessed"`

	// ExpiresAt is when the entry stops being served. Zero means the
	// entry never expires.
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	// SizeBytes is the payload size.
	SizeBytes int64 `json:"size_bytes"`

	// ContentHash deduplicates identical payloads.
	ContentHash string `json:"content_hash"`
}

// NewEntry creates an entry expiring after ttl. A zero ttl means no
// expiry.
func NewEntry(key, path, researchType, query string, method cachekey.Method, sizeBytes int64, contentHash string, ttl time.Duration) Entry {
	now := time.Now().UTC()
	e := Entry{
		Key:          key,
		Path:         path,
		ResearchType: researchType,
		Query:        query,
		Method:       method,
		CreatedAt:    now,
		LastAccessed: now,
		SizeBytes:    sizeBytes,
		ContentHash:  contentHash,
	}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return e
}

// Expired reports whether the entry has passed its expiry.
func (e Entry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Age returns how long ago the entry was created.
func (e Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}
