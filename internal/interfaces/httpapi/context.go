package httpapi

import (
	"context"

	"github.com/courtsidehq/roster-api/internal/domain/identity"
)

type contextKey string

const (
	identityContextKey  contextKey = "httpapi.identity"
	requestIDContextKey contextKey = "httpapi.request_id"
)

func withIdentity(ctx context.Context, current identity.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, current)
}

func identityFromContext(ctx context.Context) (identity.Identity, bool) {
	current, ok := ctx.Value(identityContextKey).(identity.Identity)
	return current, ok
}

// actingUsername names the session owner for audit logs on mutations.
// Empty outside RequireSession-gated routes.
func actingUsername(ctx context.Context) string {
	current, ok := identityFromContext(ctx)
	if !ok {
		return ""
	}
	return current.Username
}

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
