package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

const codeIDBytesLen = 16

// issueCode creates and persists a single use verification code with an
// unguessable id.
func issueCode(ctx context.Context, codes repository.CodeRepo, userID uuid.UUID, codeType models.CodeType, ttl time.Duration) (models.VerificationCode, error) {
	b := make([]byte, codeIDBytesLen)
	if _, err := rand.Read(b); err != nil {
		return models.VerificationCode{}, fmt.Errorf("error while generating code id. Err: %w", err)
	}

	now := time.Now().Truncate(time.Second)
	code := models.VerificationCode{
		ID:        hex.EncodeToString(b),
		UserID:    userID,
		Type:      codeType,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	code, err := codes.Create(ctx, code)
	if err != nil {
		return code, fmt.Errorf("error while saving verification code. Err: %w", err)
	}

	return code, nil
}

// consumeCode looks up the code by id and type. Expired or missing codes
// both come back as apperrors.ErrCodeNotFound. Deleting the row after
// successful use is the caller's explicit step.
func consumeCode(ctx context.Context, codes repository.CodeRepo, codeID string, codeType models.CodeType) (models.VerificationCode, error) {
	code, err := codes.Get(ctx, codeID, codeType)
	if err != nil {
		return code, err
	}

	if code.Expired(time.Now()) {
		return code, apperrors.ErrCodeNotFound
	}

	return code, nil
}
