package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

// ContextWithOwnerID returns a new context carrying the authenticated owner.
// The surrounding auth layer is responsible for populating it; this package
// is only the hand-off point.
func ContextWithOwnerID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ownerIDKey, id)
}

// OwnerIDFromContext retrieves the authenticated owner from the context, if any.
func OwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(ownerIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
