package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strings"
)

// ContextAwarePrefix marks keys derived under MethodContextAware.
const ContextAwarePrefix = "enhanced-"

// Deriver produces cache keys from a request and a storage method.
//
// Contract:
// - Totality: Derive never fails; malformed inputs are clamped or ignored.
// - Determinism: same request content must produce the same key regardless
//   of tag/framework ordering or confidence noise within one band.
// - Concurrency: implementations must be safe for concurrent use.
type Deriver interface {
	// Derive generates the cache key for req under the given method.
	Derive(method Method, req Request) string
}

// DefaultDeriver derives SHA-256 based keys with query normalization and
// confidence banding.
type DefaultDeriver struct {
	banding    Banding
	normalizer *Normalizer
}

// Option configures a DefaultDeriver.
type Option func(*DefaultDeriver)

// WithBandWidth sets the confidence band width.
func WithBandWidth(width float64) Option {
	return func(d *DefaultDeriver) {
		d.banding = Banding{Width: width}
	}
}

// WithStopWords adds extra stop words to query normalization.
func WithStopWords(words ...string) Option {
	return func(d *DefaultDeriver) {
		d.normalizer = NewNormalizer(words...)
	}
}

// NewDeriver creates a deriver with the default banding and normalizer.
func NewDeriver(opts ...Option) *DefaultDeriver {
	d := &DefaultDeriver{
		banding:    Banding{Width: DefaultBandWidth},
		normalizer: NewNormalizer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive generates a cache key.
// Format: <hex-digest> for the standard method, "enhanced-" + <hex-digest>
// for the context-aware method, where the digest is the first 8 bytes of
// SHA-256 over the canonical field encoding (16 hex characters, matching
// the reference-library key width).
func (d *DefaultDeriver) Derive(method Method, req Request) string {
	h := sha256.New()

	writeField(h, "query", d.normalizer.Normalize(req.Query))
	writeField(h, "research_type", strings.ToLower(req.ResearchType))
	writeField(h, "audience", strings.ToLower(req.AudienceLevel))
	writeField(h, "technology", strings.ToLower(req.Technology))

	// Set-typed inputs are sorted into canonical order: insertion order
	// must never affect the key.
	writeSet(h, "frameworks", req.Frameworks)
	writeSet(h, "tags", req.Tags)

	if ctx := req.Context; ctx != nil {
		writeField(h, "ctx_audience", strings.ToLower(ctx.AudienceLevel))
		writeField(h, "ctx_domain", strings.ToLower(ctx.TechnicalDomain))
		writeField(h, "ctx_urgency", strings.ToLower(ctx.UrgencyLevel))
		writeField(h, "ctx_confidence", d.banding.Band(ctx.Confidence))

		if method == MethodContextAware {
			writeField(h, "ctx_time", timeCategory(ctx.ProcessingTime))
		}
	}

	digest := hex.EncodeToString(h.Sum(nil)[:8])
	if method == MethodContextAware {
		return ContextAwarePrefix + digest
	}
	return digest
}

// writeField writes a labeled field to the hash. The label and NUL
// delimiters keep adjacent fields from bleeding into each other.
func writeField(h hash.Hash, label, value string) {
	fmt.Fprintf(h, "%s\x00%s\x00", label, value)
}

// writeSet lowercases, sorts, and writes a set-typed field.
func writeSet(h hash.Hash, label string, values []string) {
	sorted := make([]string, len(values))
	for i, v := range values {
		sorted[i] = strings.ToLower(v)
	}
	sort.Strings(sorted)
	writeField(h, label, strings.Join(sorted, ","))
}

// StripMethodPrefix returns the bare digest and the method the key was
// derived under.
func StripMethodPrefix(key string) (string, Method) {
	if rest, ok := strings.CutPrefix(key, ContextAwarePrefix); ok {
		return rest, MethodContextAware
	}
	return key, MethodStandard
}

// Ensure DefaultDeriver implements Deriver
var _ Deriver = (*DefaultDeriver)(nil)
