package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/researchcache/cachekey"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("storage: entry not found")
	ErrInvalidKey = errors.New("storage: key is invalid")
)

// Ref locates a payload in storage. The key alone is not enough: the
// write path (method) and classification decide the directory layout.
type Ref struct {
	// Key is the derived cache key; it becomes the file name.
	Key string

	// ResearchType is the top-level directory (e.g. "learning").
	ResearchType string

	// Method selects the standard or context-aware subtree.
	Method cachekey.Method

	// Audience, Domain, and Urgency name the context-aware subtree for
	// MethodContextAware writes. Empty values are skipped.
	Audience string
	Domain   string
	Urgency  string
}

// StoredFile describes one payload file found by a storage listing.
type StoredFile struct {
	// Key is recovered from the file name.
	Key string

	// Path is relative to the storage root.
	Path string

	// Method is inferred from the file's location in the tree.
	Method cachekey.Method

	// ResearchType is inferred from the top-level directory.
	ResearchType string

	// SizeBytes is the payload file size.
	SizeBytes int64

	// ModTime is the file modification time.
	ModTime time.Time
}

// Backend is the persistence contract the cache subsystem consumes.
// The cache index mirrors a Backend's content; the Backend is the
// source of truth.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use;
//   concurrent writers to the same key resolve last-write-wins.
// - Context: methods must honor cancellation/deadlines.
// - Errors: Read and Scan return ErrNotFound for a missing key; Write
//   failures must leave no partial file visible to readers.
type Backend interface {
	// Write persists payload at the location described by ref and
	// returns the storage-relative path.
	Write(ctx context.Context, ref Ref, payload []byte) (string, error)

	// Read returns the payload at a storage-relative path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Scan searches every layout for a payload stored under key,
	// regardless of which method wrote it.
	Scan(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the payload at a storage-relative path. Idempotent.
	Delete(ctx context.Context, path string) error

	// List walks the storage tree and describes every payload file.
	List(ctx context.Context) ([]StoredFile, error)
}
