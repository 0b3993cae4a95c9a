// Package storage persists research-result payloads as files on disk.
//
// It provides the Backend contract the cache subsystem consumes, a file
// implementation with separate standard and context-aware directory
// layouts, and a watcher that flags external mutations of the storage
// tree so the index can be verified and rebuilt.
package storage
