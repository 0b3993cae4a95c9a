package health

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/researchcache/storage"
)

func newProbeBackend(t *testing.T) *storage.FileStore {
	t.Helper()
	backend, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return backend
}

func TestStorageChecker_Healthy(t *testing.T) {
	checker := NewStorageChecker(newProbeBackend(t))

	result := checker.Check(context.Background())

	if result.Status != StatusHealthy {
		t.Fatalf("Status = %v (%s), want StatusHealthy", result.Status, result.Message)
	}
	if result.Details["probe_bytes"].(int) <= 0 {
		t.Error("expected positive probe size in details")
	}
}

func TestStorageChecker_ProbeLeavesNoFile(t *testing.T) {
	backend := newProbeBackend(t)
	checker := NewStorageChecker(backend)

	_ = checker.Check(context.Background())

	files, err := backend.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("probe left %d files behind", len(files))
	}
}

// brokenBackend fails every write.
type brokenBackend struct {
	storage.Backend
}

func (b *brokenBackend) Write(ctx context.Context, ref storage.Ref, payload []byte) (string, error) {
	return "", errors.New("disk full")
}

func TestStorageChecker_WriteFailureUnhealthy(t *testing.T) {
	checker := NewStorageChecker(&brokenBackend{Backend: newProbeBackend(t)})

	result := checker.Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if result.Error == nil {
		t.Error("expected error on result")
	}
}

func TestStorageChecker_CancelledContext(t *testing.T) {
	checker := NewStorageChecker(newProbeBackend(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := checker.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
}

func TestStorageChecker_Ping(t *testing.T) {
	backend := newProbeBackend(t)
	checker := NewStorageChecker(backend)

	if err := checker.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	files, _ := backend.List(context.Background())
	if len(files) != 0 {
		t.Errorf("ping left %d files behind", len(files))
	}
}

func TestStorageChecker_Name(t *testing.T) {
	if got := NewStorageChecker(newProbeBackend(t)).Name(); got != "storage" {
		t.Errorf("Name() = %q, want %q", got, "storage")
	}
}
