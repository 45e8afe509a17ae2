package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

// Service covers profile reads and updates. Credential changes go through
// the auth service.
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetByID(ctx, userID)
}

type UpdateParams struct {
	Email     *string
	FullName  *string
	Telephone *string
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, arg UpdateParams) (models.User, error) {
	if arg.Email == nil && arg.FullName == nil && arg.Telephone == nil {
		return models.User{}, apperrors.BadRequest("No fields to update")
	}

	return s.storage.User().Update(ctx, userID, repository.UpdateUserParams{
		Email:     arg.Email,
		FullName:  arg.FullName,
		Telephone: arg.Telephone,
	})
}
