package snapshot

import (
	"context"
	"sync"
)

// Store is the durable key-value collaborator behind session persistence.
// Implementations hold opaque JSON payloads keyed by partition name and make
// each operation atomic per partition.
type Store interface {
	Save(ctx context.Context, partition string, payload []byte) error
	Load(ctx context.Context, partition string) ([]byte, bool, error)
	Purge(ctx context.Context, partitions ...string) error
}

// MemoryStore keeps snapshots in process memory. Default for development and
// tests; state does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, partition string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payloads[partition] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, partition string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.payloads[partition]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), payload...), true, nil
}

func (s *MemoryStore) Purge(_ context.Context, partitions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, partition := range partitions {
		delete(s.payloads, partition)
	}

	return nil
}
