package memory

import (
	"context"
	"sync"

	"github.com/courtsidehq/roster-api/internal/domain/identity"
)

// IdentityRepository holds the current session's auth state.
type IdentityRepository struct {
	mu      sync.RWMutex
	current identity.Identity
}

func NewIdentityRepository(initial identity.Identity) *IdentityRepository {
	return &IdentityRepository{current: initial}
}

func (r *IdentityRepository) Current(_ context.Context) (identity.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current, nil
}

func (r *IdentityRepository) Set(_ context.Context, id identity.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = id
	return nil
}

func (r *IdentityRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = identity.Identity{}
	return nil
}
