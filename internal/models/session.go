package models

import (
	"time"

	"github.com/google/uuid"
)

// Session anchors a refresh token to a user and an expiry. Deleting the row
// is the only way to revoke outstanding refresh tokens.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
