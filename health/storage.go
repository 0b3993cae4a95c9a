package health

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/researchcache/cachekey"
	"github.com/jonwraymond/researchcache/storage"
)

// StorageChecker probes the storage backend with a full write, read,
// delete cycle. Probe files live under their own research type so they
// never collide with real cache entries, and each probe uses a fresh
// key so concurrent checks do not race on the same file.
type StorageChecker struct {
	backend storage.Backend
}

// NewStorageChecker creates a checker over the given backend.
func NewStorageChecker(backend storage.Backend) *StorageChecker {
	return &StorageChecker{backend: backend}
}

// Name returns the name of this checker.
func (c *StorageChecker) Name() string {
	return "storage"
}

// Check runs the write/read/delete probe.
func (c *StorageChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	ref := storage.Ref{
		Key:          "probe-" + uuid.NewString(),
		ResearchType: "diagnostics",
		Method:       cachekey.MethodStandard,
	}
	payload := fmt.Appendf(nil, `{"probe":%q,"at":%q}`, ref.Key, time.Now().UTC().Format(time.RFC3339Nano))

	path, err := c.backend.Write(ctx, ref, payload)
	if err != nil {
		return Unhealthy("storage write failed", err)
	}

	got, err := c.backend.Read(ctx, path)
	if err != nil {
		_ = c.backend.Delete(ctx, path)
		return Unhealthy("storage read failed", err)
	}
	if !bytes.Equal(got, payload) {
		_ = c.backend.Delete(ctx, path)
		return Unhealthy("storage probe corrupted", ErrProbeMismatch).
			WithDetails(map[string]any{
				"wrote_bytes": len(payload),
				"read_bytes":  len(got),
			})
	}

	if err := c.backend.Delete(ctx, path); err != nil {
		return Degraded("storage delete failed, probe file left behind").
			WithDetails(map[string]any{"path": path})
	}

	return Healthy("storage probe ok").WithDetails(map[string]any{
		"probe_bytes": len(payload),
	})
}

// Ping performs a lighter reachability check: a write and delete with
// no payload comparison.
func (c *StorageChecker) Ping(ctx context.Context) error {
	ref := storage.Ref{
		Key:          "ping-" + uuid.NewString(),
		ResearchType: "diagnostics",
		Method:       cachekey.MethodStandard,
	}
	path, err := c.backend.Write(ctx, ref, []byte("{}"))
	if err != nil {
		return err
	}
	return c.backend.Delete(ctx, path)
}

var _ PingChecker = (*StorageChecker)(nil)
