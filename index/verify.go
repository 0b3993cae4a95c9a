package index

import "sort"

// Verify compares index membership against the authoritative list of
// keys actually present in storage. It returns nil when they agree and
// an *InconsistencyError naming the drift otherwise. Expired index
// records are not counted as ghosts: storage cleanup lags lazily.
func (ix *Index) Verify(storedKeys []string) error {
	stored := make(map[string]struct{}, len(storedKeys))
	for _, k := range storedKeys {
		stored[k] = struct{}{}
	}

	var inconsistency InconsistencyError

	ix.mu.RLock()
	for k, e := range ix.entries {
		if _, ok := stored[k]; !ok && !e.Expired() {
			inconsistency.Ghosts = append(inconsistency.Ghosts, k)
		}
	}
	for k := range stored {
		if _, ok := ix.entries[k]; !ok {
			inconsistency.Untracked = append(inconsistency.Untracked, k)
		}
	}
	ix.mu.RUnlock()

	if len(inconsistency.Ghosts) == 0 && len(inconsistency.Untracked) == 0 {
		return nil
	}

	sort.Strings(inconsistency.Ghosts)
	sort.Strings(inconsistency.Untracked)
	return &inconsistency
}

// Rebuild replaces the whole index with entries scanned from storage.
// This is the repair pass for a detected inconsistency.
func (ix *Index) Rebuild(entries []Entry) {
	fresh := make(map[string]Entry, len(entries))
	for _, e := range entries {
		fresh[e.Key] = e
	}
	ix.replaceAll(fresh)
}
