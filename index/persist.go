package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	indexDirPerm  = 0o750
	indexFilePerm = 0o600
)

// indexFile is the on-disk format of a persisted index.
type indexFile struct {
	SavedAt time.Time        `json:"saved_at"`
	Entries map[string]Entry `json:"entries"`
}

// Save writes the index to path atomically (temp file + rename), so a
// crash mid-write never leaves a partially-written index behind.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	out := indexFile{
		SavedAt: time.Now().UTC(),
		Entries: make(map[string]Entry, len(ix.entries)),
	}
	for k, e := range ix.entries {
		out.Entries[k] = e
	}
	ix.mu.RUnlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), indexDirPerm); err != nil {
		return fmt.Errorf("index: create index directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, indexFilePerm); err != nil {
		return fmt.Errorf("index: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("index: rename: %w", err)
	}
	return nil
}

// Load replaces the index content from a persisted file. A missing file
// is not an error: the index simply starts empty. A file that cannot be
// decoded returns ErrCorrupt; callers should Rebuild from storage.
func (ix *Index) Load(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("index: read: %w", err)
	}

	var in indexFile
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	if in.Entries == nil {
		in.Entries = make(map[string]Entry)
	}

	ix.replaceAll(in.Entries)
	return nil
}
