package identity

import "context"

// Repository describes identity-state needs from use cases. Set and Clear
// are atomic transitions; last write wins.
type Repository interface {
	Current(ctx context.Context) (Identity, error)
	Set(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}
