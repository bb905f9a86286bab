package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

type failingStore struct{}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("store down")
}

func (failingStore) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Purge(context.Context, ...string) error {
	return errors.New("store down")
}

func waitForRestore(t *testing.T, w *Writer, partition usecase.SnapshotPartition, dest any) bool {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ok, err := w.Restore(t.Context(), partition, dest)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if ok {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWriter_EnqueueThenRestore(t *testing.T) {
	writer, err := NewWriter(NewMemoryStore(), 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()

	type payload struct {
		Username string
	}
	writer.Enqueue(usecase.SnapshotPartitionIdentity, payload{Username: "coach"})

	var restored payload
	if !waitForRestore(t, writer, usecase.SnapshotPartitionIdentity, &restored) {
		t.Fatalf("snapshot never became readable")
	}
	if restored.Username != "coach" {
		t.Fatalf("unexpected restored payload: %+v", restored)
	}
}

func TestWriter_LastWriteWins(t *testing.T) {
	writer, err := NewWriter(NewMemoryStore(), 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	type payload struct {
		Revision int
	}
	for rev := 1; rev <= 5; rev++ {
		writer.Enqueue(usecase.SnapshotPartitionTeams, payload{Revision: rev})
	}
	// Close drains the single worker, so all five writes have landed in order.
	writer.Close()

	var restored payload
	ok, err := writer.Restore(t.Context(), usecase.SnapshotPartitionTeams, &restored)
	if err != nil || !ok {
		t.Fatalf("restore: ok=%t err=%v", ok, err)
	}
	if restored.Revision != 5 {
		t.Fatalf("expected last write to win, got revision %d", restored.Revision)
	}
}

// gatedStore blocks Save until the gate opens, holding the queued write on
// the worker while a purge gets submitted behind it.
type gatedStore struct {
	inner *MemoryStore
	gate  chan struct{}
	saves atomic.Int32
}

func (s *gatedStore) Save(ctx context.Context, partition string, payload []byte) error {
	<-s.gate
	s.saves.Add(1)
	return s.inner.Save(ctx, partition, payload)
}

func (s *gatedStore) Load(ctx context.Context, partition string) ([]byte, bool, error) {
	return s.inner.Load(ctx, partition)
}

func (s *gatedStore) Purge(ctx context.Context, partitions ...string) error {
	return s.inner.Purge(ctx, partitions...)
}

func TestWriter_PurgeWaitsForQueuedWrites(t *testing.T) {
	store := &gatedStore{inner: NewMemoryStore(), gate: make(chan struct{})}
	writer, err := NewWriter(store, 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()

	writer.Enqueue(usecase.SnapshotPartitionTeams, map[string]string{"name": "bulls"})

	// Release the blocked save only after the purge is queued behind it.
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(store.gate)
	}()

	if err := writer.Purge(t.Context(), usecase.SnapshotPartitionTeams); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if got := store.saves.Load(); got != 1 {
		t.Fatalf("expected the queued save to run before the purge, saves=%d", got)
	}
	if _, ok, _ := store.inner.Load(t.Context(), "teams"); ok {
		t.Fatalf("save queued before logout survived the purge")
	}
}

func TestWriter_RejectsUnknownPartition(t *testing.T) {
	store := NewMemoryStore()
	writer, err := NewWriter(store, 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	writer.Enqueue(usecase.SnapshotPartition("players"), map[string]string{"nope": "nope"})
	writer.Close()

	if _, ok, _ := store.Load(t.Context(), "players"); ok {
		t.Fatalf("expected unknown partition rejected")
	}
}

func TestWriter_EnqueueSwallowsStoreFailures(t *testing.T) {
	writer, err := NewWriter(failingStore{}, 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	// Must not panic or surface anything to the caller.
	writer.Enqueue(usecase.SnapshotPartitionIdentity, map[string]string{"username": "coach"})
	writer.Close()
}

func TestWriter_PurgeReportsStoreFailure(t *testing.T) {
	writer, err := NewWriter(failingStore{}, 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Purge(t.Context(), usecase.SnapshotPartitions()...); err == nil {
		t.Fatalf("expected purge failure surfaced")
	}
}

func TestWriter_PurgeSkipsUnknownPartitions(t *testing.T) {
	writer, err := NewWriter(failingStore{}, 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()

	// Only unknown partitions requested: nothing reaches the store.
	if err := writer.Purge(t.Context(), usecase.SnapshotPartition("players")); err != nil {
		t.Fatalf("expected no-op purge, got %v", err)
	}
}

func TestWriter_RestoreMissingPartition(t *testing.T) {
	writer, err := NewWriter(NewMemoryStore(), 0, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()

	var dest map[string]string
	ok, err := writer.Restore(t.Context(), usecase.SnapshotPartitionTeams, &dest)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ok || dest != nil {
		t.Fatalf("expected missing partition to leave dest untouched")
	}
}
