package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	Quantity    int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
