package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aydjer/agrimarket/internal/models"
)

type RentalRepo struct {
	DB DBTX
}

const rentalColumns = "id, equipment_id, renter_id, starts_on, ends_on, daily_rate, status, created_at"

const createRental = `-- name: CreateRental
INSERT INTO rentals (id, equipment_id, renter_id, starts_on, ends_on, daily_rate, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + rentalColumns

func (r *RentalRepo) Create(ctx context.Context, rental models.Rental) (models.Rental, error) {
	rows, _ := r.DB.Query(ctx, createRental,
		rental.ID, rental.EquipmentID, rental.RenterID, rental.StartsOn, rental.EndsOn, rental.DailyRate, rental.Status)
	created, err := pgx.CollectOneRow(rows, rowToRental)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const countOverlappingRentals = `-- name: CountOverlappingRentals
SELECT count(*)
FROM rentals
WHERE equipment_id = $1
  AND status = 'confirmed'
  AND starts_on <= $3
  AND ends_on >= $2
`

func (r *RentalRepo) CountOverlapping(ctx context.Context, equipmentID uuid.UUID, startsOn, endsOn time.Time) (int64, error) {
	rows, _ := r.DB.Query(ctx, countOverlappingRentals, equipmentID, startsOn, endsOn)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

const listRentalsByRenter = `-- name: ListRentalsByRenter
SELECT ` + rentalColumns + `
FROM rentals
WHERE renter_id = $1
ORDER BY created_at DESC
`

func (r *RentalRepo) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]models.Rental, error) {
	rows, _ := r.DB.Query(ctx, listRentalsByRenter, renterID)
	rentals, err := pgx.CollectRows(rows, rowToRental)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rentals, nil
}

const listRentalsByEquipment = `-- name: ListRentalsByEquipment
SELECT ` + rentalColumns + `
FROM rentals
WHERE equipment_id = $1
ORDER BY starts_on
`

func (r *RentalRepo) ListByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]models.Rental, error) {
	rows, _ := r.DB.Query(ctx, listRentalsByEquipment, equipmentID)
	rentals, err := pgx.CollectRows(rows, rowToRental)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rentals, nil
}

func rowToRental(row pgx.CollectableRow) (models.Rental, error) {
	var r models.Rental
	err := row.Scan(&r.ID, &r.EquipmentID, &r.RenterID, &r.StartsOn, &r.EndsOn, &r.DailyRate, &r.Status, &r.CreatedAt)
	return r, err
}
