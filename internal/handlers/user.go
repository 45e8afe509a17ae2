package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/handlers/render"
	"github.com/aydjer/agrimarket/internal/handlers/userctx"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/service/user"
)

func handleUserMe(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		u, err := userService.Get(r.Context(), info.UserID)

		switch {
		case err == nil:
			render.JSON(w, toUserResponse(u))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to get current user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateMe(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Email     *string `json:"email" validate:"omitempty,email"`
		FullName  *string `json:"fullName" validate:"omitempty,min=2,max=100"`
		Telephone *string `json:"telephone" validate:"omitempty,dzphone"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		u, err := userService.Update(r.Context(), info.UserID, user.UpdateParams{
			Email:     data.Email,
			FullName:  data.FullName,
			Telephone: data.Telephone,
		})

		switch {
		case err == nil:
			render.JSON(w, toUserResponse(u))
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.Error(w, err)
		case apperrors.KindOf(err) == apperrors.KindBadRequest:
			render.Error(w, err)
		default:
			l.Error("Failed to update current user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// handleUserProfile is the public view of a user: no email, no telephone.
func handleUserProfile(userService userService, l logger.Logger) http.Handler {
	type response struct {
		ID        uuid.UUID `json:"id"`
		FullName  string    `json:"fullName"`
		Verified  bool      `json:"verified"`
		CreatedAt time.Time `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.PathValue("userID"))
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		u, err := userService.Get(r.Context(), userID)

		switch {
		case err == nil:
			render.JSON(w, response{
				ID:        u.ID,
				FullName:  u.FullName,
				Verified:  u.Verified,
				CreatedAt: u.CreatedAt,
			})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
