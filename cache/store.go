package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/researchcache/cachekey"
	"github.com/jonwraymond/researchcache/index"
	"github.com/jonwraymond/researchcache/storage"
)

// Sentinel errors for store construction and writes.
var (
	ErrNilBackend = errors.New("cache: storage backend is nil")
	ErrStoreWrite = errors.New("cache: storage write failed")
)

// Store is the research-result cache: key derivation, write-through file
// storage, and an authoritative in-memory index.
//
// Contract:
// - Concurrency: safe for concurrent use; per-key operations are
//   linearizable through the index.
// - Rollback: a failed storage write leaves the index untouched.
// - Lookups never error; a miss is (Result{}, false).
type Store struct {
	deriver cachekey.Deriver
	idx     *index.Index
	backend storage.Backend
	policy  Policy
	rec     Recorder
	hot     *hotCache
	log     *opLog
	sf      singleflight.Group
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDeriver replaces the default key deriver.
func WithDeriver(d cachekey.Deriver) StoreOption {
	return func(s *Store) { s.deriver = d }
}

// WithIndex supplies a pre-populated index, e.g. one loaded from disk.
func WithIndex(ix *index.Index) StoreOption {
	return func(s *Store) { s.idx = ix }
}

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) StoreOption {
	return func(s *Store) { s.policy = p }
}

// WithRecorder attaches a telemetry recorder.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) { s.rec = r }
}

// NewStore creates a Store over the given backend.
func NewStore(backend storage.Backend, opts ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	s := &Store{
		deriver: cachekey.NewDeriver(),
		idx:     index.New(),
		backend: backend,
		policy:  DefaultPolicy(),
		rec:     nopRecorder{},
		log:     newOpLog(128),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hot = newHotCache(s.policy.HotPayloadBytes)
	return s, nil
}

// Index returns the store's index, for persistence and verification.
func (s *Store) Index() *index.Index {
	return s.idx
}

// Put derives the key for req under method, writes the payload, and
// records the entry. ttl=0 uses the policy default. The index is updated
// only after the storage write succeeds.
func (s *Store) Put(ctx context.Context, method cachekey.Method, req cachekey.Request, payload []byte, ttl time.Duration) (index.Entry, error) {
	start := time.Now()
	key := s.deriver.Derive(method, req)

	path, err := s.backend.Write(ctx, refFor(key, method, req), payload)
	if err != nil {
		s.log.record("put", key, OutcomeError, time.Since(start))
		return index.Entry{}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	sum := sha256.Sum256(payload)
	entry := index.NewEntry(key, path, req.ResearchType, req.Query, method,
		int64(len(payload)), hex.EncodeToString(sum[:8]), s.policy.EffectiveTTL(ttl))
	s.idx.Put(entry)
	s.hot.set(key, payload, entry.ExpiresAt)

	elapsed := time.Since(start)
	s.log.record("put", key, OutcomeStored, elapsed)
	s.rec.RecordStore(ctx, method.String(), entry.SizeBytes, elapsed)
	return entry, nil
}

// Get looks up a stored entry by its exact key. On an index miss it scans
// storage for an untracked file with that key and re-indexes it if found.
// A miss is (Result{}, false), never an error.
func (s *Store) Get(ctx context.Context, key string) (Result, bool) {
	start := time.Now()
	_, method := cachekey.StripMethodPrefix(key)

	if entry, ok := s.idx.Get(key); ok {
		if payload, err := s.readPayload(ctx, entry); err == nil {
			res := Result{Key: key, Method: entry.Method, Payload: payload, Entry: entry, Outcome: OutcomeHit}
			s.finishLookup(ctx, method, res.Outcome, start, key)
			return res, true
		}
		// Ghost entry: indexed but gone from storage.
		s.idx.Delete(key)
		s.hot.drop(key)
	}

	if res, ok := s.recoverFromStorage(ctx, key); ok {
		s.finishLookup(ctx, method, res.Outcome, start, key)
		return res, true
	}

	s.finishLookup(ctx, method, OutcomeMiss, start, key)
	return Result{}, false
}

// GetByRequest looks up the entry for req. It tries the requested
// method's key first, then every other method's key, then a storage scan,
// before declaring a miss. Concurrent lookups for the same key share one
// execution.
func (s *Store) GetByRequest(ctx context.Context, method cachekey.Method, req cachekey.Request) (Result, bool) {
	key := s.deriver.Derive(method, req)

	type lookup struct {
		res Result
		ok  bool
	}
	v, _, _ := s.sf.Do(key, func() (any, error) {
		res, ok := s.lookupAllMethods(ctx, method, req)
		return lookup{res, ok}, nil
	})
	lk := v.(lookup)
	return lk.res, lk.ok
}

func (s *Store) lookupAllMethods(ctx context.Context, method cachekey.Method, req cachekey.Request) (Result, bool) {
	start := time.Now()
	methods := methodOrder(method)

	// Index pass across every method's key form.
	for _, m := range methods {
		key := s.deriver.Derive(m, req)
		entry, ok := s.idx.Get(key)
		if !ok {
			continue
		}
		payload, err := s.readPayload(ctx, entry)
		if err != nil {
			s.idx.Delete(key)
			s.hot.drop(key)
			continue
		}
		outcome := OutcomeHit
		if m != method {
			outcome = OutcomeFallbackHit
		}
		res := Result{Key: key, Method: m, Payload: payload, Entry: entry, Outcome: outcome}
		s.finishLookup(ctx, method, outcome, start, key)
		return res, true
	}

	// Storage pass: catches files the index lost track of.
	for _, m := range methods {
		key := s.deriver.Derive(m, req)
		if res, ok := s.recoverFromStorage(ctx, key); ok {
			s.finishLookup(ctx, method, res.Outcome, start, key)
			return res, true
		}
	}

	key := s.deriver.Derive(method, req)
	s.finishLookup(ctx, method, OutcomeMiss, start, key)
	return Result{}, false
}

// recoverFromStorage scans the storage tree for key and, on a find,
// re-indexes the file so the next lookup is a direct hit.
func (s *Store) recoverFromStorage(ctx context.Context, key string) (Result, bool) {
	payload, path, err := s.backend.Scan(ctx, key)
	if err != nil {
		return Result{}, false
	}
	_, method := cachekey.StripMethodPrefix(key)
	sum := sha256.Sum256(payload)
	entry := index.NewEntry(key, path, researchTypeFromPath(path), "", method,
		int64(len(payload)), hex.EncodeToString(sum[:8]), s.policy.EffectiveTTL(0))
	s.idx.Put(entry)
	s.hot.set(key, payload, entry.ExpiresAt)
	return Result{Key: key, Method: method, Payload: payload, Entry: entry, Outcome: OutcomeFallbackHit}, true
}

// Delete removes an entry from the index, storage, and the hot layer.
// Idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	entry, ok := s.idx.Peek(key)
	if !ok {
		return nil
	}
	if err := s.backend.Delete(ctx, entry.Path); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	s.idx.Delete(key)
	s.hot.drop(key)
	return nil
}

// Stats returns index statistics.
func (s *Store) Stats() index.Stats {
	return s.idx.Stats()
}

// Healthy reports whether the observed hit rate meets the policy target.
func (s *Store) Healthy() bool {
	return s.policy.MeetsTarget(s.Stats().HitRate)
}

// Recent returns the most recent cache operations, oldest first.
func (s *Store) Recent() []Op {
	return s.log.recent()
}

// Verify compares the index against the storage listing.
func (s *Store) Verify(ctx context.Context) error {
	files, err := s.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("cache: verify: %w", err)
	}
	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.Key)
	}
	return s.idx.Verify(keys)
}

func (s *Store) readPayload(ctx context.Context, entry index.Entry) ([]byte, error) {
	if payload, ok := s.hot.get(entry.Key); ok {
		return payload, nil
	}
	payload, err := s.backend.Read(ctx, entry.Path)
	if err != nil {
		return nil, err
	}
	s.hot.set(entry.Key, payload, entry.ExpiresAt)
	return payload, nil
}

func (s *Store) finishLookup(ctx context.Context, method cachekey.Method, outcome Outcome, start time.Time, key string) {
	elapsed := time.Since(start)
	s.log.record("get", key, outcome, elapsed)
	s.rec.RecordLookup(ctx, method.String(), string(outcome), elapsed)
}

// methodOrder returns all methods with first at the front.
func methodOrder(first cachekey.Method) []cachekey.Method {
	out := []cachekey.Method{first}
	for _, m := range cachekey.Methods() {
		if m != first {
			out = append(out, m)
		}
	}
	return out
}

func refFor(key string, method cachekey.Method, req cachekey.Request) storage.Ref {
	ref := storage.Ref{
		Key:          key,
		ResearchType: req.ResearchType,
		Method:       method,
	}
	if req.Context != nil {
		ref.Audience = req.Context.AudienceLevel
		ref.Domain = req.Context.TechnicalDomain
		ref.Urgency = req.Context.UrgencyLevel
	}
	return ref
}

// researchTypeFromPath infers the research type from a storage-relative
// path of the form results/<research_type>/...
func researchTypeFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) >= 2 && parts[0] == "results" {
		return parts[1]
	}
	return ""
}
