package snapshot

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

const defaultWriteTimeout = 5 * time.Second

// Writer persists state after committed mutations without ever blocking or
// failing the mutation itself. Writes run on a single-worker pool, so
// snapshots for a partition land in submission order; a failed write is
// logged and dropped, leaving in-memory state authoritative for the session.
type Writer struct {
	store        Store
	pool         *ants.Pool
	writeTimeout time.Duration
	logger       *logging.Logger
}

func NewWriter(store Store, writeTimeout time.Duration, logger *logging.Logger) (*Writer, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("create snapshot worker pool: %w", err)
	}

	return &Writer{
		store:        store,
		pool:         pool,
		writeTimeout: writeTimeout,
		logger:       logger,
	}, nil
}

func (w *Writer) Enqueue(partition usecase.SnapshotPartition, payload any) {
	if !allowedPartition(partition) {
		w.logger.Warn("snapshot write to unknown partition rejected", "partition", string(partition))
		return
	}

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		w.logger.Warn("encode snapshot failed", "partition", string(partition), "error", err)
		return
	}

	if err := w.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
		defer cancel()

		if err := w.store.Save(ctx, string(partition), encoded); err != nil {
			w.logger.Warn("write snapshot failed", "partition", string(partition), "error", err)
		}
	}); err != nil {
		w.logger.Warn("submit snapshot write failed", "partition", string(partition), "error", err)
	}
}

// Purge clears the given partitions and waits for completion. It runs on the
// same single worker as Enqueue'd saves, so a save submitted before the purge
// can never land after it and resurrect purged state.
func (w *Writer) Purge(ctx context.Context, partitions ...usecase.SnapshotPartition) error {
	names := make([]string, 0, len(partitions))
	for _, partition := range partitions {
		if !allowedPartition(partition) {
			continue
		}
		names = append(names, string(partition))
	}
	if len(names) == 0 {
		return nil
	}

	done := make(chan error, 1)
	if err := w.pool.Submit(func() {
		done <- w.store.Purge(ctx, names...)
	}); err != nil {
		return fmt.Errorf("submit snapshot purge: %w", err)
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("purge snapshots: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restore reads one partition into dest. A missing partition leaves dest
// untouched and reports false.
func (w *Writer) Restore(ctx context.Context, partition usecase.SnapshotPartition, dest any) (bool, error) {
	payload, ok, err := w.store.Load(ctx, string(partition))
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", partition, err)
	}
	if !ok {
		return false, nil
	}

	if err := sonic.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", partition, err)
	}

	return true, nil
}

// Close waits briefly for pending writes, then releases the worker.
func (w *Writer) Close() {
	if err := w.pool.ReleaseTimeout(w.writeTimeout); err != nil {
		w.logger.Warn("release snapshot worker pool", "error", err)
	}
}

func allowedPartition(partition usecase.SnapshotPartition) bool {
	for _, allowed := range usecase.SnapshotPartitions() {
		if partition == allowed {
			return true
		}
	}
	return false
}
