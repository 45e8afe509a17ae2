package auth

import (
	"net/http"
	"time"

	"github.com/aydjer/agrimarket/internal/models"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	// Refresh cookie is scoped to the refresh endpoint only, so the long
	// lived token never travels with ordinary requests
	refreshCookiePath = "/api/auth/refresh"
)

// CookieManager binds issued tokens to transport cookies. Each cookie's
// max age mirrors its token's expiry.
type CookieManager struct {
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(secure bool) *CookieManager {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteStrictMode
	}
	return &CookieManager{Secure: secure, SameSite: sameSite}
}

// SetPair sets both cookies together (register, login)
func (m *CookieManager) SetPair(w http.ResponseWriter, pair models.TokenPair) {
	m.SetAccess(w, pair.Access)
	m.SetRefresh(w, pair.Refresh)
}

func (m *CookieManager) SetAccess(w http.ResponseWriter, access models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    access.Value,
		Path:     "/",
		MaxAge:   maxAge(access.ExpiresAt),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: m.SameSite,
	})
}

func (m *CookieManager) SetRefresh(w http.ResponseWriter, refresh models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refresh.Value,
		Path:     refreshCookiePath,
		MaxAge:   maxAge(refresh.ExpiresAt),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: m.SameSite,
	})
}

// Clear drops both cookies unconditionally (logout, after password reset)
func (m *CookieManager) Clear(w http.ResponseWriter) {
	clear := func(name, path string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.Secure,
			SameSite: m.SameSite,
		})
	}
	clear(AccessCookieName, "/")
	clear(RefreshCookieName, refreshCookiePath)
}

func AccessFromRequest(r *http.Request) string {
	return cookieValue(r, AccessCookieName)
}

func RefreshFromRequest(r *http.Request) string {
	return cookieValue(r, RefreshCookieName)
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func maxAge(expiresAt time.Time) int {
	return int(time.Until(expiresAt).Seconds())
}
