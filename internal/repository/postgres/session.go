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

type SessionRepo struct {
	DB DBTX
}

const sessionColumns = "id, user_id, user_agent, created_at, expires_at"

const createSession = `-- name: CreateSession
INSERT INTO sessions (id, user_id, user_agent, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + sessionColumns

func (r *SessionRepo) Create(ctx context.Context, session models.Session) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, createSession,
		session.ID, session.UserID, session.UserAgent, session.CreatedAt, session.ExpiresAt)
	created, err := pgx.CollectOneRow(rows, rowToSession)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getSession = `-- name: GetSession
SELECT ` + sessionColumns + `
FROM sessions
WHERE id = $1
`

// Get returns the session even if expired; expiry is checked lazily by the
// auth service on every use.
func (r *SessionRepo) Get(ctx context.Context, sessionID uuid.UUID) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, getSession, sessionID)
	return collectSession(rows)
}

const extendSession = `-- name: ExtendSession
UPDATE sessions
SET expires_at = $2
WHERE id = $1
RETURNING ` + sessionColumns

func (r *SessionRepo) ExtendExpiry(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, extendSession, sessionID, expiresAt)
	return collectSession(rows)
}

const deleteSession = `-- name: DeleteSession
DELETE FROM sessions
WHERE id = $1
`

func (r *SessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteSession, sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

const deleteUserSessions = `-- name: DeleteUserSessions
DELETE FROM sessions
WHERE user_id = $1
`

func (r *SessionRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteUserSessions, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

const listUserSessions = `-- name: ListUserSessions
SELECT ` + sessionColumns + `
FROM sessions
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *SessionRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	rows, _ := r.DB.Query(ctx, listUserSessions, userID)
	sessions, err := pgx.CollectRows(rows, rowToSession)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sessions, nil
}

func collectSession(rows pgx.Rows) (models.Session, error) {
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt)
	return s, err
}
