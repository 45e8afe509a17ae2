package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
)

type CodeRepo struct {
	DB DBTX
}

const codeColumns = "id, user_id, type, created_at, expires_at"

const createCode = `-- name: CreateCode
INSERT INTO verification_codes (id, user_id, type, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + codeColumns

func (r *CodeRepo) Create(ctx context.Context, code models.VerificationCode) (models.VerificationCode, error) {
	rows, _ := r.DB.Query(ctx, createCode,
		code.ID, code.UserID, code.Type, code.CreatedAt, code.ExpiresAt)
	created, err := pgx.CollectOneRow(rows, rowToCode)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getCode = `-- name: GetCode
SELECT ` + codeColumns + `
FROM verification_codes
WHERE id = $1 AND type = $2
`

func (r *CodeRepo) Get(ctx context.Context, codeID string, codeType models.CodeType) (models.VerificationCode, error) {
	rows, _ := r.DB.Query(ctx, getCode, codeID, codeType)
	code, err := pgx.CollectOneRow(rows, rowToCode)

	switch {
	case err == nil:
		return code, nil
	case errors.Is(err, pgx.ErrNoRows):
		return code, apperrors.ErrCodeNotFound
	default:
		return code, fmt.Errorf("db error: %w", err)
	}
}

const deleteCode = `-- name: DeleteCode
DELETE FROM verification_codes
WHERE id = $1
`

func (r *CodeRepo) Delete(ctx context.Context, codeID string) error {
	tag, err := r.DB.Exec(ctx, deleteCode, codeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCodeNotFound
	}
	return nil
}

const countCodesSince = `-- name: CountCodesSince
SELECT count(*)
FROM verification_codes
WHERE user_id = $1 AND type = $2 AND created_at > $3
`

func (r *CodeRepo) CountForUserSince(ctx context.Context, userID uuid.UUID, codeType models.CodeType, since time.Time) (int64, error) {
	rows, _ := r.DB.Query(ctx, countCodesSince, userID, codeType, since)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func rowToCode(row pgx.CollectableRow) (models.VerificationCode, error) {
	var c models.VerificationCode
	err := row.Scan(&c.ID, &c.UserID, &c.Type, &c.CreatedAt, &c.ExpiresAt)
	return c, err
}
