package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/courtsidehq/roster-api/internal/platform/resilience"
)

type cached struct {
	value    any
	deadline time.Time
}

func (c cached) fresh(now time.Time, ttl time.Duration) bool {
	return ttl <= 0 || c.deadline.After(now)
}

// Store is a TTL map with single-flight loading. Player pages are cached here
// keyed by their full request parameters; a fresh entry answers repeat
// requests without touching the upstream provider, an expired one is reloaded
// transparently. Failed loads are never stored.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]cached
}

// NewStore builds a store with the given freshness window. A non-positive ttl
// means entries never expire.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cached),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	item, ok := s.entries[key]
	s.mu.RUnlock()

	switch {
	case !ok:
		return nil, false
	case !item.fresh(s.now(), s.ttl):
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return item.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	item := cached{value: value}
	if s.ttl > 0 {
		item.deadline = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = item
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Purge drops every entry.
func (s *Store) Purge(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]cached)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader once (shared
// across concurrent callers) and caches the result on success.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A concurrent loader may have filled the slot while this call
		// waited on the flight group.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
