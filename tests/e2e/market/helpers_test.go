package market

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/service/auth"
	"github.com/aydjer/agrimarket/tests/e2e"
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

// newUser registers a user through the service and returns the access
// cookie for authenticated requests.
func newUser(t *testing.T, s e2e.Services, email string) *http.Cookie {
	t.Helper()

	_, pair, err := s.AuthService.Register(t.Context(), auth.RegisterParams{
		Email:     email,
		Password:  "StrongEnoughPassword",
		FullName:  "Farid Benali",
		Telephone: "0551234567",
		UserAgent: "go-test",
	})
	require.NoError(t, err, "failed to register user")

	return &http.Cookie{Name: "accessToken", Value: pair.Access.Value}
}

func decodeInto(t *testing.T, body string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), "failed to decode body: %s", body)
}
