package index

// TypeStats aggregates entries for one research type.
type TypeStats struct {
	Entries   int   `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

// Stats is a point-in-time view of the index.
type Stats struct {
	// Entries is the number of live records.
	Entries int `json:"entries"`

	// Expired is the number of records past expiry not yet cleaned up.
	Expired int `json:"expired"`

	// TotalSizeBytes sums payload sizes across live records.
	TotalSizeBytes int64 `json:"total_size_bytes"`

	// Hits and Misses count Get outcomes since construction.
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`

	// HitRate is Hits / (Hits + Misses), 0 when no lookups happened.
	HitRate float64 `json:"hit_rate"`

	// AverageAgeSeconds is the mean live-entry age.
	AverageAgeSeconds float64 `json:"average_age_seconds"`

	// ByResearchType breaks live entries down per research type.
	ByResearchType map[string]TypeStats `json:"by_research_type"`
}

// Stats computes current statistics.
func (ix *Index) Stats() Stats {
	hits := ix.hits.Load()
	misses := ix.misses.Load()

	s := Stats{
		Hits:           hits,
		Misses:         misses,
		ByResearchType: make(map[string]TypeStats),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var ageSum float64
	for _, e := range ix.entries {
		if e.Expired() {
			s.Expired++
			continue
		}
		s.Entries++
		s.TotalSizeBytes += e.SizeBytes
		ageSum += e.Age().Seconds()

		ts := s.ByResearchType[e.ResearchType]
		ts.Entries++
		ts.SizeBytes += e.SizeBytes
		s.ByResearchType[e.ResearchType] = ts
	}
	if s.Entries > 0 {
		s.AverageAgeSeconds = ageSum / float64(s.Entries)
	}

	return s
}
