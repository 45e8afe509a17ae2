package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Equipment struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	DailyRate   decimal.Decimal
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
