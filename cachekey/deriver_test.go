package cachekey

import (
	"strings"
	"testing"
	"time"
)

func testRequest(query string) Request {
	return Request{
		Query:         query,
		ResearchType:  "learning",
		AudienceLevel: "intermediate",
		Technology:    "rust",
		Frameworks:    []string{"tokio", "axum"},
		Tags:          []string{"async", "web"},
	}
}

func TestDeriver_Deterministic(t *testing.T) {
	d := NewDeriver()
	req := testRequest("How to implement async programming in Rust?")

	keys := make([]string, 5)
	for i := range keys {
		keys[i] = d.Derive(MethodStandard, req)
	}

	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[0] {
			t.Errorf("Derive should be deterministic:\n  keys[0]=%s\n  keys[%d]=%s", keys[0], i, keys[i])
		}
	}
}

func TestDeriver_TagOrderIndependent(t *testing.T) {
	d := NewDeriver()

	permutations := [][]string{
		{"async", "web", "performance"},
		{"web", "performance", "async"},
		{"performance", "async", "web"},
		{"Async", "WEB", "Performance"}, // case must not matter either
	}

	var first string
	for i, tags := range permutations {
		req := testRequest("rust async patterns")
		req.Tags = tags

		key := d.Derive(MethodStandard, req)
		if i == 0 {
			first = key
			continue
		}
		if key != first {
			t.Errorf("tag permutation %d changed the key:\n  first=%s\n  got=%s", i, first, key)
		}
	}
}

func TestDeriver_FrameworkOrderIndependent(t *testing.T) {
	d := NewDeriver()

	for _, method := range Methods() {
		req1 := testRequest("rust web services")
		req1.Frameworks = []string{"axum", "tokio", "serde"}

		req2 := testRequest("rust web services")
		req2.Frameworks = []string{"serde", "axum", "tokio"}

		key1 := d.Derive(method, req1)
		key2 := d.Derive(method, req2)
		if key1 != key2 {
			t.Errorf("%s: framework order changed the key:\n  key1=%s\n  key2=%s", method, key1, key2)
		}
	}
}

func TestDeriver_ConfidenceBandStability(t *testing.T) {
	d := NewDeriver()

	// Values equal up to floating-point noise must derive the same key,
	// even when they straddle a band boundary.
	pairs := [][2]float64{
		{0.8500000001, 0.8499999999},
		{0.85, 0.8500000001},
		{0.1999999999, 0.2000000001},
		{0.5, 0.5000000001},
	}

	for _, pair := range pairs {
		req1 := testRequest("rust async patterns")
		req1.Context = &ContextSignal{
			AudienceLevel:   "intermediate",
			TechnicalDomain: "rust",
			UrgencyLevel:    "planned",
			Confidence:      pair[0],
		}

		req2 := testRequest("rust async patterns")
		req2.Context = &ContextSignal{
			AudienceLevel:   "intermediate",
			TechnicalDomain: "rust",
			UrgencyLevel:    "planned",
			Confidence:      pair[1],
		}

		for _, method := range Methods() {
			key1 := d.Derive(method, req1)
			key2 := d.Derive(method, req2)
			if key1 != key2 {
				t.Errorf("%s: confidence %v vs %v produced different keys:\n  key1=%s\n  key2=%s",
					method, pair[0], pair[1], key1, key2)
			}
		}
	}
}

func TestDeriver_ConfidenceOutOfRangeClamped(t *testing.T) {
	d := NewDeriver()

	req := testRequest("rust async patterns")
	req.Context = &ContextSignal{Confidence: 1.7}

	clamped := testRequest("rust async patterns")
	clamped.Context = &ContextSignal{Confidence: 1.0}

	if got, want := d.Derive(MethodStandard, req), d.Derive(MethodStandard, clamped); got != want {
		t.Errorf("confidence above 1.0 should clamp to 1.0:\n  got=%s\n  want=%s", got, want)
	}

	req.Context.Confidence = -0.3
	clamped.Context.Confidence = 0.0
	if got, want := d.Derive(MethodStandard, req), d.Derive(MethodStandard, clamped); got != want {
		t.Errorf("negative confidence should clamp to 0.0:\n  got=%s\n  want=%s", got, want)
	}
}

func TestDeriver_DistinctInputsDistinctKeys(t *testing.T) {
	d := NewDeriver()

	reqs := []Request{
		testRequest("rust async programming"),
		testRequest("rust error handling"),
		testRequest("python async programming"),
	}

	// Same query, different research type must also differ.
	other := testRequest("rust async programming")
	other.ResearchType = "implementation"
	reqs = append(reqs, other)

	seen := make(map[string]int)
	for i, req := range reqs {
		key := d.Derive(MethodStandard, req)
		if prev, dup := seen[key]; dup {
			t.Errorf("requests %d and %d collided on key %s", prev, i, key)
		}
		seen[key] = i
	}
}

func TestDeriver_KeyFormat(t *testing.T) {
	d := NewDeriver()
	req := testRequest("rust async patterns")

	standard := d.Derive(MethodStandard, req)
	if len(standard) != 16 {
		t.Errorf("standard key should be 16 hex chars, got %d: %q", len(standard), standard)
	}
	for _, c := range standard {
		isLowerHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		if !isLowerHex {
			t.Errorf("standard key should be lowercase hex, got %q in %q", string(c), standard)
			break
		}
	}

	enhanced := d.Derive(MethodContextAware, req)
	if !strings.HasPrefix(enhanced, ContextAwarePrefix) {
		t.Errorf("context-aware key should have prefix %q, got %q", ContextAwarePrefix, enhanced)
	}
	if len(enhanced) != len(ContextAwarePrefix)+16 {
		t.Errorf("context-aware key has wrong length: %q", enhanced)
	}
}

func TestDeriver_ProcessingTimeCategoryOnlyInContextKey(t *testing.T) {
	d := NewDeriver()

	req1 := testRequest("rust async patterns")
	req1.Context = &ContextSignal{Confidence: 0.9, ProcessingTime: 50 * time.Millisecond}

	req2 := testRequest("rust async patterns")
	req2.Context = &ContextSignal{Confidence: 0.9, ProcessingTime: 5 * time.Second}

	// Standard keys ignore processing time entirely.
	if k1, k2 := d.Derive(MethodStandard, req1), d.Derive(MethodStandard, req2); k1 != k2 {
		t.Errorf("standard keys should not depend on processing time:\n  k1=%s\n  k2=%s", k1, k2)
	}

	// Context-aware keys differ across time categories.
	if k1, k2 := d.Derive(MethodContextAware, req1), d.Derive(MethodContextAware, req2); k1 == k2 {
		t.Errorf("context-aware keys should differ across time categories, both %s", k1)
	}

	// Within one category the exact duration must not matter.
	req2.Context.ProcessingTime = 80 * time.Millisecond
	if k1, k2 := d.Derive(MethodContextAware, req1), d.Derive(MethodContextAware, req2); k1 != k2 {
		t.Errorf("durations in the same category should derive the same key:\n  k1=%s\n  k2=%s", k1, k2)
	}
}

func TestStripMethodPrefix(t *testing.T) {
	tests := []struct {
		key        string
		wantDigest string
		wantMethod Method
	}{
		{"abcdef0123456789", "abcdef0123456789", MethodStandard},
		{"enhanced-abcdef0123456789", "abcdef0123456789", MethodContextAware},
		{"enhanced-", "", MethodContextAware},
	}

	for _, tt := range tests {
		digest, method := StripMethodPrefix(tt.key)
		if digest != tt.wantDigest || method != tt.wantMethod {
			t.Errorf("StripMethodPrefix(%q) = (%q, %v), want (%q, %v)",
				tt.key, digest, method, tt.wantDigest, tt.wantMethod)
		}
	}
}
