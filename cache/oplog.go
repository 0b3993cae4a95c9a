package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies the result of a cache operation.
type Outcome string

const (
	// OutcomeHit means the entry was found under the requested method.
	OutcomeHit Outcome = "hit"

	// OutcomeFallbackHit means the entry was found under a different
	// method than the lookup requested.
	OutcomeFallbackHit Outcome = "fallback_hit"

	// OutcomeMiss means no entry was found under any method.
	OutcomeMiss Outcome = "miss"

	// OutcomeStored means the payload was written and indexed.
	OutcomeStored Outcome = "stored"

	// OutcomeError means the operation failed.
	OutcomeError Outcome = "error"
)

// Op is one recorded cache operation.
type Op struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"` // "get" or "put"
	Key      string        `json:"key"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// opLog is a fixed-size ring of recent operations, kept for diagnostics.
type opLog struct {
	mu   sync.Mutex
	ops  []Op
	next int
	full bool
}

func newOpLog(size int) *opLog {
	if size <= 0 {
		size = 128
	}
	return &opLog{ops: make([]Op, size)}
}

func (l *opLog) record(kind, key string, outcome Outcome, elapsed time.Duration) {
	op := Op{
		ID:       uuid.NewString(),
		Kind:     kind,
		Key:      key,
		Outcome:  outcome,
		Duration: elapsed,
		At:       time.Now().UTC(),
	}
	l.mu.Lock()
	l.ops[l.next] = op
	l.next++
	if l.next == len(l.ops) {
		l.next = 0
		l.full = true
	}
	l.mu.Unlock()
}

// recent returns the recorded operations, oldest first.
func (l *opLog) recent() []Op {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]Op, l.next)
		copy(out, l.ops[:l.next])
		return out
	}
	out := make([]Op, 0, len(l.ops))
	out = append(out, l.ops[l.next:]...)
	out = append(out, l.ops[:l.next]...)
	return out
}
