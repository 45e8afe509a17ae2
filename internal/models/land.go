package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Land struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	AreaHa      decimal.Decimal
	Price       decimal.Decimal
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
