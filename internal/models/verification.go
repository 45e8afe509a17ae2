package models

import (
	"time"

	"github.com/google/uuid"
)

type CodeType string

const (
	CodeEmailVerification CodeType = "email_verification"
	CodePasswordReset     CodeType = "password_reset"
)

// VerificationCode is a single use token record. The id is an unguessable
// opaque string sent to the user by email; once used the row is deleted so
// replay fails with not found.
type VerificationCode struct {
	ID        string
	UserID    uuid.UUID
	Type      CodeType
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (c VerificationCode) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
