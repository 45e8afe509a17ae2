package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Telephone      string
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
