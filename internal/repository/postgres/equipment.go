package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

type EquipmentRepo struct {
	DB DBTX
}

const equipmentColumns = "id, owner_id, title, description, daily_rate, location, created_at, updated_at"

const createEquipment = `-- name: CreateEquipment
INSERT INTO equipment (id, owner_id, title, description, daily_rate, location)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + equipmentColumns

func (r *EquipmentRepo) Create(ctx context.Context, eq models.Equipment) (models.Equipment, error) {
	rows, _ := r.DB.Query(ctx, createEquipment,
		eq.ID, eq.OwnerID, eq.Title, eq.Description, eq.DailyRate, eq.Location)
	created, err := pgx.CollectOneRow(rows, rowToEquipment)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getEquipment = `-- name: GetEquipment
SELECT ` + equipmentColumns + `
FROM equipment
WHERE id = $1
`

func (r *EquipmentRepo) Get(ctx context.Context, equipmentID uuid.UUID) (models.Equipment, error) {
	rows, _ := r.DB.Query(ctx, getEquipment, equipmentID)
	return collectEquipment(rows)
}

const listEquipment = `-- name: ListEquipment
SELECT ` + equipmentColumns + `
FROM equipment
ORDER BY created_at DESC
`

func (r *EquipmentRepo) List(ctx context.Context) ([]models.Equipment, error) {
	rows, _ := r.DB.Query(ctx, listEquipment)
	items, err := pgx.CollectRows(rows, rowToEquipment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

const listEquipmentByOwner = `-- name: ListEquipmentByOwner
SELECT ` + equipmentColumns + `
FROM equipment
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *EquipmentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Equipment, error) {
	rows, _ := r.DB.Query(ctx, listEquipmentByOwner, ownerID)
	items, err := pgx.CollectRows(rows, rowToEquipment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

const updateEquipment = `-- name: UpdateEquipment
UPDATE equipment
SET title       = COALESCE($3, title),
    description = COALESCE($4, description),
    daily_rate  = COALESCE($5, daily_rate),
    location    = COALESCE($6, location),
    updated_at  = now()
WHERE id = $1 AND owner_id = $2
RETURNING ` + equipmentColumns

func (r *EquipmentRepo) Update(ctx context.Context, equipmentID, ownerID uuid.UUID, arg repository.UpdateEquipmentParams) (models.Equipment, error) {
	rows, _ := r.DB.Query(ctx, updateEquipment,
		equipmentID, ownerID, arg.Title, arg.Description, arg.DailyRate, arg.Location)
	return collectEquipment(rows)
}

const deleteEquipment = `-- name: DeleteEquipment
DELETE FROM equipment
WHERE id = $1 AND owner_id = $2
`

func (r *EquipmentRepo) Delete(ctx context.Context, equipmentID, ownerID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteEquipment, equipmentID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

func collectEquipment(rows pgx.Rows) (models.Equipment, error) {
	eq, err := pgx.CollectOneRow(rows, rowToEquipment)

	switch {
	case err == nil:
		return eq, nil
	case errors.Is(err, pgx.ErrNoRows):
		return eq, apperrors.ErrListingNotFound
	default:
		return eq, fmt.Errorf("db error: %w", err)
	}
}

func rowToEquipment(row pgx.CollectableRow) (models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.DailyRate, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
