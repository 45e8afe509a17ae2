package auth

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	RegisterURL       = "/api/auth/register"
	LoginURL          = "/api/auth/login"
	RefreshURL        = "/api/auth/refresh"
	LogoutURL         = "/api/auth/logout"
	VerifyEmailURL    = "/api/auth/email/verify/"
	ForgotPasswordURL = "/api/auth/password/forgot"
	ResetPasswordURL  = "/api/auth/password/reset"
	SessionsURL       = "/api/me/sessions"
)

var (
	verifyCodeRe = regexp.MustCompile(`/email/verify/([0-9a-f]+)`)
	resetCodeRe  = regexp.MustCompile(`code=([0-9a-f]+)`)
)

// request sends the json body with the given cookies attached and returns
// the response together with its fully read body.
func request(t *testing.T, method, url, body string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func cookieNamed(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set in response. Got: %v", name, resp.Cookies())
	return nil
}

func registerBody(email string) string {
	return fmt.Sprintf(`{
		"email": %q,
		"password": "StrongEnoughPassword",
		"fullName": "Farid Benali",
		"telephone": "0551234567"
	}`, email)
}

// registerUser registers a user over HTTP and returns the session cookies.
func registerUser(t *testing.T, srvURL, email string) (access, refresh *http.Cookie) {
	t.Helper()

	resp, body := request(t, http.MethodPost, srvURL+RegisterURL, registerBody(email))
	require.Equalf(t, http.StatusCreated, resp.StatusCode, "register failed. Body: %s", body)

	return cookieNamed(t, resp, "accessToken"), cookieNamed(t, resp, "refreshToken")
}

func extractCode(t *testing.T, re *regexp.Regexp, html string) string {
	t.Helper()
	match := re.FindStringSubmatch(html)
	require.Len(t, match, 2, "mail should contain a code link")
	return match[1]
}
