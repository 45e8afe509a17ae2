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
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/service/auth"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Telephone string    `json:"telephone"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Telephone: u.Telephone,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func handleRegister(authService authService, cookies *auth.CookieManager, l logger.Logger) http.Handler {
	type request struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8,max=72"`
		FullName  string `json:"fullName" validate:"required,min=2,max=100"`
		Telephone string `json:"telephone" validate:"required,dzphone"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Register(r.Context(), auth.RegisterParams{
			Email:     data.Email,
			Password:  data.Password,
			FullName:  data.FullName,
			Telephone: data.Telephone,
			UserAgent: r.UserAgent(),
		})

		switch {
		case err == nil:
			cookies.SetPair(w, pair)
			render.JSONWithStatus(w, toUserResponse(user), http.StatusCreated)
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.Error(w, err)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, cookies *auth.CookieManager, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Login(r.Context(), data.Email, data.Password, r.UserAgent())

		switch {
		case err == nil:
			cookies.SetPair(w, pair)
			render.JSON(w, response{Message: "Logged in successfully"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			render.Error(w, err)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTokenRefresh(authService authService, cookies *auth.CookieManager, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, rotated, err := authService.Refresh(r.Context(), auth.RefreshFromRequest(r))

		switch {
		case err == nil:
			cookies.SetAccess(w, access)
			if rotated != nil {
				cookies.SetRefresh(w, *rotated)
			}
			render.JSON(w, response{Message: "Tokens refreshed"})
		case apperrors.KindOf(err) == apperrors.KindUnauthorized:
			render.Error(w, err)
		default:
			l.Error("Failed to refresh tokens", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService, cookies *auth.CookieManager) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Cookies are cleared no matter what the token looked like. The
		// session delete inside is best effort.
		authService.Logout(r.Context(), auth.AccessFromRequest(r))

		cookies.Clear(w)
		render.JSON(w, response{Message: "Logged out successfully"})
	})
}

func handleVerifyEmail(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authService.VerifyEmail(r.Context(), r.PathValue("code"))

		switch {
		case err == nil:
			render.JSON(w, toUserResponse(user))
		case errors.Is(err, apperrors.ErrCodeNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to verify email", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleForgotPassword(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = authService.ForgotPassword(r.Context(), data.Email)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Password reset email sent"})
		default:
			if apperrors.KindOf(err) == apperrors.KindInternal {
				l.Error("Failed to send password reset email", "error", err)
			}
			render.Error(w, err)
		}
	})
}

func handleResetPassword(authService authService, cookies *auth.CookieManager, l logger.Logger) http.Handler {
	type request struct {
		Code     string `json:"code" validate:"required"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = authService.ResetPassword(r.Context(), data.Code, data.Password)

		switch {
		case err == nil:
			// Every session of the user is gone now, including the one the
			// requester may be holding.
			cookies.Clear(w)
			render.JSON(w, response{Message: "Password reset successfully"})
		case errors.Is(err, apperrors.ErrCodeNotFound):
			render.Error(w, err)
		default:
			l.Error("Failed to reset password", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListSessions(authService authService, l logger.Logger) http.Handler {
	type session struct {
		ID        uuid.UUID `json:"id"`
		UserAgent string    `json:"userAgent"`
		Current   bool      `json:"current"`
		CreatedAt time.Time `json:"createdAt"`
		ExpiresAt time.Time `json:"expiresAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		list, err := authService.ListSessions(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list sessions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		sessions := make([]session, 0, len(list))
		for _, s := range list {
			sessions = append(sessions, session{
				ID:        s.ID,
				UserAgent: s.UserAgent,
				Current:   s.ID == info.SessionID,
				CreatedAt: s.CreatedAt,
				ExpiresAt: s.ExpiresAt,
			})
		}
		render.JSON(w, sessions)
	})
}

func handleDeleteSession(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		sessionID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid session id", http.StatusBadRequest)
			return
		}

		err = authService.DeleteSession(r.Context(), info.UserID, sessionID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrSessionNotFound):
			render.ServiceError(w, "Session not found", http.StatusNotFound)
		default:
			l.Error("Failed to delete session", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
