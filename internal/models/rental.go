package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalConfirmed RentalStatus = "confirmed"
	RentalCancelled RentalStatus = "cancelled"
)

// Rental is a confirmed booking of equipment for a date range. The daily
// rate is copied from the listing at booking time so later price changes do
// not affect existing rentals.
type Rental struct {
	ID          uuid.UUID
	EquipmentID uuid.UUID
	RenterID    uuid.UUID
	StartsOn    time.Time
	EndsOn      time.Time
	DailyRate   decimal.Decimal
	Status      RentalStatus
	CreatedAt   time.Time
}
