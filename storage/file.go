package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonwraymond/researchcache/cachekey"
)

// File permission constants for storage operations.
const (
	storageDirPerm  = 0o750 // rwxr-x---
	storageFilePerm = 0o600 // rw-------
)

// resultsDir is the subtree holding payload files. Keeping payloads
// under their own subtree keeps persisted indices out of scans.
const resultsDir = "results"

// contextDir is the subtree marker for context-aware writes.
const contextDir = "context-aware"

// FileStore implements Backend on the local filesystem.
//
// Layout, relative to the storage root:
//
//	results/<research_type>/<key>.json
//	results/<research_type>/context-aware/<audience>/<domain>/<urgency>/<key>.json
type FileStore struct {
	root  string
	retry writeRetry
}

// NewFileStore creates a file store rooted at root, creating the
// results subtree if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(root, resultsDir), storageDirPerm); err != nil {
		return nil, fmt.Errorf("storage: create results directory: %w", err)
	}
	return &FileStore{root: root, retry: defaultWriteRetry}, nil
}

// Root returns the storage root directory.
func (s *FileStore) Root() string {
	return s.root
}

// PathFor returns the storage-relative path a ref resolves to.
func (s *FileStore) PathFor(ref Ref) string {
	researchType := sanitizeComponent(ref.ResearchType)
	if researchType == "" {
		researchType = "general"
	}

	parts := []string{resultsDir, researchType}
	if ref.Method == cachekey.MethodContextAware {
		parts = append(parts, contextDir)
		for _, dim := range []string{ref.Audience, ref.Domain, ref.Urgency} {
			if c := sanitizeComponent(dim); c != "" {
				parts = append(parts, c)
			}
		}
	}
	parts = append(parts, sanitizeComponent(ref.Key)+".json")
	return filepath.Join(parts...)
}

// Write persists payload atomically: the file appears under its final
// name only after a complete temp-file write and rename, so readers
// never observe a partial payload. Transient errors are retried with
// backoff.
func (s *FileStore) Write(ctx context.Context, ref Ref, payload []byte) (string, error) {
	if strings.TrimSpace(ref.Key) == "" {
		return "", ErrInvalidKey
	}

	rel := s.PathFor(ref)
	abs := filepath.Join(s.root, rel)

	err := s.retry.do(ctx, func() error {
		if err := os.MkdirAll(filepath.Dir(abs), storageDirPerm); err != nil {
			return err
		}
		tmp := abs + ".tmp"
		if err := os.WriteFile(tmp, payload, storageFilePerm); err != nil {
			return err
		}
		return os.Rename(tmp, abs)
	})
	if err != nil {
		return "", fmt.Errorf("storage: write %s: %w", rel, err)
	}
	return rel, nil
}

// Read returns the payload at a storage-relative path.
func (s *FileStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(filepath.Join(s.root, path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Scan searches the whole results tree for <key>.json, covering both
// the standard and context-aware layouts. This is what makes an entry
// written via one method reachable from a lookup issued via another.
func (s *FileStore) Scan(ctx context.Context, key string) ([]byte, string, error) {
	if strings.TrimSpace(key) == "" {
		return nil, "", ErrInvalidKey
	}
	target := sanitizeComponent(key) + ".json"

	var found string
	root := filepath.Join(s.root, resultsDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep scanning
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() && d.Name() == target {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("storage: scan %s: %w", key, err)
	}
	if found == "" {
		return nil, "", ErrNotFound
	}

	rel, err := filepath.Rel(s.root, found)
	if err != nil {
		return nil, "", fmt.Errorf("storage: scan %s: %w", key, err)
	}
	data, err := s.Read(ctx, rel)
	if err != nil {
		return nil, "", err
	}
	return data, rel, nil
}

// Delete removes the payload at a storage-relative path. Idempotent.
func (s *FileStore) Delete(_ context.Context, path string) error {
	err := os.Remove(filepath.Clean(filepath.Join(s.root, path)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// List walks the results tree and describes every payload file,
// inferring the method and research type from the file's location.
func (s *FileStore) List(ctx context.Context) ([]StoredFile, error) {
	var files []StoredFile

	root := filepath.Join(s.root, resultsDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}

		files = append(files, StoredFile{
			Key:          strings.TrimSuffix(d.Name(), ".json"),
			Path:         rel,
			Method:       methodForPath(rel),
			ResearchType: researchTypeForPath(rel),
			SizeBytes:    info.Size(),
			ModTime:      info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return files, nil
}

// methodForPath infers the write method from a storage-relative path.
func methodForPath(rel string) cachekey.Method {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == contextDir {
			return cachekey.MethodContextAware
		}
	}
	return cachekey.MethodStandard
}

// researchTypeForPath extracts the research-type directory.
func researchTypeForPath(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) >= 2 && parts[0] == resultsDir {
		return parts[1]
	}
	return ""
}

// sanitizeComponent makes a value safe as a single path component.
func sanitizeComponent(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), ".")
}

// Ensure FileStore implements Backend
var _ Backend = (*FileStore)(nil)
