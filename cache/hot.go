package cache

import (
	"sync"
	"time"
)

// hotCache keeps recently read payloads in memory so repeat lookups skip
// the disk read. It is an acceleration layer only; the index and file
// storage remain authoritative.
type hotCache struct {
	mu       sync.RWMutex
	payloads map[string]*hotEntry
	maxBytes int64
}

type hotEntry struct {
	payload   []byte
	expiresAt time.Time
}

func newHotCache(maxBytes int64) *hotCache {
	return &hotCache{
		payloads: make(map[string]*hotEntry),
		maxBytes: maxBytes,
	}
}

// get returns the payload for key, or (nil, false) on miss or expiry.
func (c *hotCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.payloads[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.payloads, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

// set stores a payload. Payloads over the size ceiling are not kept.
// A zero expiry means the entry never expires here.
func (c *hotCache) set(key string, payload []byte, expiresAt time.Time) {
	if c.maxBytes > 0 && int64(len(payload)) > c.maxBytes {
		return
	}
	c.mu.Lock()
	c.payloads[key] = &hotEntry{payload: payload, expiresAt: expiresAt}
	c.mu.Unlock()
}

// drop removes a payload. Idempotent.
func (c *hotCache) drop(key string) {
	c.mu.Lock()
	delete(c.payloads, key)
	c.mu.Unlock()
}
