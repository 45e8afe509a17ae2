package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
)

type CategoryRepo struct {
	DB DBTX
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (id, name)
VALUES ($1, $2)
RETURNING id, name
`

func (r *CategoryRepo) Create(ctx context.Context, name string) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, uuid.New(), name)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return category, apperrors.ErrCategoryTaken
		}
		return category, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

const listCategories = `-- name: ListCategories
SELECT id, name
FROM categories
ORDER BY name
`

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

type TagRepo struct {
	DB DBTX
}

const createTag = `-- name: CreateTag
INSERT INTO tags (id, name)
VALUES ($1, $2)
RETURNING id, name
`

func (r *TagRepo) Create(ctx context.Context, name string) (models.Tag, error) {
	rows, _ := r.DB.Query(ctx, createTag, uuid.New(), name)
	tag, err := pgx.CollectOneRow(rows, rowToTag)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return tag, apperrors.ErrTagTaken
		}
		return tag, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

const listTags = `-- name: ListTags
SELECT id, name
FROM tags
ORDER BY name
`

func (r *TagRepo) List(ctx context.Context) ([]models.Tag, error) {
	rows, _ := r.DB.Query(ctx, listTags)
	tags, err := pgx.CollectRows(rows, rowToTag)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}

func rowToTag(row pgx.CollectableRow) (models.Tag, error) {
	var t models.Tag
	err := row.Scan(&t.ID, &t.Name)
	return t, err
}
