package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/handlers/render"
	"github.com/aydjer/agrimarket/internal/handlers/userctx"
	"github.com/aydjer/agrimarket/internal/service/auth"
)

type accessAuthenticator interface {
	// Verify the access token offline: signature, audience and expiry.
	// The session store is not consulted on this path.
	AuthenticateAccess(accessRaw string) (userID, sessionID uuid.UUID, err error)
}

func AuthMiddleware(a accessAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, sessionID, err := a.AuthenticateAccess(auth.AccessFromRequest(r))
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), userctx.AuthInfo{
				UserID:    userID,
				SessionID: sessionID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
