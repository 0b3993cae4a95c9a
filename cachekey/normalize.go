package cachekey

import (
	"strings"
	"unicode"
)

// defaultStopWords are filtered out of queries before hashing. Filler
// words carry no semantic weight and would otherwise split near-duplicate
// queries into distinct keys.
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "how", "what", "why", "when", "where", "which",
	"that", "this", "these", "those", "do", "i", "you", "we", "they",
	"can", "could", "should", "would", "will", "is", "are", "was", "were",
}

// synonyms maps technical-term variants to a canonical form so that
// equivalent wordings collapse to the same key.
var synonyms = map[string]string{
	"asynchronous": "async",
	"asyncio":      "async",

	"implementation": "implement",
	"implementing":   "implement",
	"implements":     "implement",
	"implemented":    "implement",

	"programming": "program",
	"coding":      "program",
	"development": "develop",
	"developing":  "develop",
}

// Normalizer normalizes query text for key derivation.
//
// Contract:
// - Determinism: same input always produces the same output.
// - Concurrency: safe for concurrent use (read-only after construction).
type Normalizer struct {
	stop map[string]struct{}
}

// NewNormalizer creates a normalizer with the default stop-word list plus
// any extra stop words.
func NewNormalizer(extraStopWords ...string) *Normalizer {
	stop := make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stop: stop}
}

// Normalize lowercases the query, strips punctuation, collapses
// whitespace, removes stop words, and maps technical-term synonyms to a
// canonical form. Word order is preserved: "rust async program" and
// "python async program" must remain distinct.
func (n *Normalizer) Normalize(query string) string {
	lowered := strings.ToLower(query)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	out := words[:0]
	for _, w := range words {
		if _, skip := n.stop[w]; skip {
			continue
		}
		if canonical, ok := synonyms[w]; ok {
			w = canonical
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}
