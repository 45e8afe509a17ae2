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

type ProductRepo struct {
	DB DBTX
}

const productColumns = "id, owner_id, title, description, price, quantity, created_at, updated_at"

const createProduct = `-- name: CreateProduct
INSERT INTO products (id, owner_id, title, description, price, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + productColumns

func (r *ProductRepo) Create(ctx context.Context, product models.Product) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct,
		product.ID, product.OwnerID, product.Title, product.Description, product.Price, product.Quantity)
	created, err := pgx.CollectOneRow(rows, rowToProduct)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getProduct = `-- name: GetProduct
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (r *ProductRepo) Get(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProduct, productID)
	return collectProduct(rows)
}

const listProducts = `-- name: ListProducts
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProducts)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

const listProductsByOwner = `-- name: ListProductsByOwner
SELECT ` + productColumns + `
FROM products
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProductsByOwner, ownerID)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

const updateProduct = `-- name: UpdateProduct
UPDATE products
SET title       = COALESCE($3, title),
    description = COALESCE($4, description),
    price       = COALESCE($5, price),
    quantity    = COALESCE($6, quantity),
    updated_at  = now()
WHERE id = $1 AND owner_id = $2
RETURNING ` + productColumns

func (r *ProductRepo) Update(ctx context.Context, productID, ownerID uuid.UUID, arg repository.UpdateProductParams) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, updateProduct,
		productID, ownerID, arg.Title, arg.Description, arg.Price, arg.Quantity)
	return collectProduct(rows)
}

const deleteProduct = `-- name: DeleteProduct
DELETE FROM products
WHERE id = $1 AND owner_id = $2
`

func (r *ProductRepo) Delete(ctx context.Context, productID, ownerID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteProduct, productID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

func collectProduct(rows pgx.Rows) (models.Product, error) {
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return product, nil
	case errors.Is(err, pgx.ErrNoRows):
		return product, apperrors.ErrListingNotFound
	default:
		return product, fmt.Errorf("db error: %w", err)
	}
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
