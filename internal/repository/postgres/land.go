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

type LandRepo struct {
	DB DBTX
}

const landColumns = "id, owner_id, title, description, area_ha, price, location, created_at, updated_at"

const createLand = `-- name: CreateLand
INSERT INTO lands (id, owner_id, title, description, area_ha, price, location)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + landColumns

func (r *LandRepo) Create(ctx context.Context, land models.Land) (models.Land, error) {
	rows, _ := r.DB.Query(ctx, createLand,
		land.ID, land.OwnerID, land.Title, land.Description, land.AreaHa, land.Price, land.Location)
	created, err := pgx.CollectOneRow(rows, rowToLand)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getLand = `-- name: GetLand
SELECT ` + landColumns + `
FROM lands
WHERE id = $1
`

func (r *LandRepo) Get(ctx context.Context, landID uuid.UUID) (models.Land, error) {
	rows, _ := r.DB.Query(ctx, getLand, landID)
	return collectLand(rows)
}

const listLands = `-- name: ListLands
SELECT ` + landColumns + `
FROM lands
ORDER BY created_at DESC
`

func (r *LandRepo) List(ctx context.Context) ([]models.Land, error) {
	rows, _ := r.DB.Query(ctx, listLands)
	lands, err := pgx.CollectRows(rows, rowToLand)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lands, nil
}

const listLandsByOwner = `-- name: ListLandsByOwner
SELECT ` + landColumns + `
FROM lands
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *LandRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Land, error) {
	rows, _ := r.DB.Query(ctx, listLandsByOwner, ownerID)
	lands, err := pgx.CollectRows(rows, rowToLand)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lands, nil
}

const updateLand = `-- name: UpdateLand
UPDATE lands
SET title       = COALESCE($3, title),
    description = COALESCE($4, description),
    area_ha     = COALESCE($5, area_ha),
    price       = COALESCE($6, price),
    location    = COALESCE($7, location),
    updated_at  = now()
WHERE id = $1 AND owner_id = $2
RETURNING ` + landColumns

func (r *LandRepo) Update(ctx context.Context, landID, ownerID uuid.UUID, arg repository.UpdateLandParams) (models.Land, error) {
	rows, _ := r.DB.Query(ctx, updateLand,
		landID, ownerID, arg.Title, arg.Description, arg.AreaHa, arg.Price, arg.Location)
	return collectLand(rows)
}

const deleteLand = `-- name: DeleteLand
DELETE FROM lands
WHERE id = $1 AND owner_id = $2
`

func (r *LandRepo) Delete(ctx context.Context, landID, ownerID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteLand, landID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

func collectLand(rows pgx.Rows) (models.Land, error) {
	land, err := pgx.CollectOneRow(rows, rowToLand)

	switch {
	case err == nil:
		return land, nil
	case errors.Is(err, pgx.ErrNoRows):
		return land, apperrors.ErrListingNotFound
	default:
		return land, fmt.Errorf("db error: %w", err)
	}
}

func rowToLand(row pgx.CollectableRow) (models.Land, error) {
	var l models.Land
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.AreaHa, &l.Price, &l.Location, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}
