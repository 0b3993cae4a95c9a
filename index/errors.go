package index

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt indicates a persisted index file could not be decoded.
	ErrCorrupt = errors.New("index: persisted index is corrupt")
)

// InconsistencyError reports disagreement between the index and storage.
// It is a bug-class error: callers should run a Rebuild rather than
// tolerate it.
type InconsistencyError struct {
	// Ghosts are keys the index claims but storage does not have.
	Ghosts []string

	// Untracked are keys present in storage with no index record.
	Untracked []string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("index: inconsistent with storage: %d ghost, %d untracked",
		len(e.Ghosts), len(e.Untracked))
}
