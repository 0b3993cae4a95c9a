package cachekey

import "time"

// ContextSignal carries the context detection outcome folded into
// context-aware keys. Confidence is banded before hashing so that
// floating-point noise never leaks into key identity.
type ContextSignal struct {
	// AudienceLevel is the detected audience (e.g. "beginner", "advanced").
	AudienceLevel string

	// TechnicalDomain is the detected domain (e.g. "rust", "web").
	TechnicalDomain string

	// UrgencyLevel is the detected urgency (e.g. "immediate", "planned").
	UrgencyLevel string

	// Confidence is the detection confidence in [0, 1]. Values outside
	// the range are clamped, never rejected.
	Confidence float64

	// ProcessingTime is how long context detection took.
	ProcessingTime time.Duration
}

// Request is the semantic identity of a research query. Two requests
// that are logically the same must derive the same key regardless of
// tag/framework ordering or confidence noise.
type Request struct {
	// Query is the original query text. It is normalized before hashing.
	Query string

	// ResearchType classifies the request (e.g. "learning", "implementation").
	ResearchType string

	// AudienceLevel is the caller-declared audience context.
	AudienceLevel string

	// Technology is the primary technology of the domain context.
	Technology string

	// Frameworks is unordered classification metadata.
	Frameworks []string

	// Tags is unordered classification metadata.
	Tags []string

	// Context is the optional context detection signal. When present it
	// is folded into the key for both methods; the context-aware method
	// additionally folds the processing-time category.
	Context *ContextSignal
}
