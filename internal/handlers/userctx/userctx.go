package userctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const authKey ctxKey = "auth"

// AuthInfo is what the stateless access token proves: who and which session.
type AuthInfo struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// Create a new context with the authenticated identity
func New(ctx context.Context, info AuthInfo) context.Context {
	return context.WithValue(ctx, authKey, info)
}

// Extract the authenticated identity from the context
func FromContext(ctx context.Context) (AuthInfo, bool) {
	info, ok := ctx.Value(authKey).(AuthInfo)
	return info, ok
}
