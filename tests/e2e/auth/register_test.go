package auth

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/testutil"
	"github.com/aydjer/agrimarket/tests/e2e"
)

func Test_Register(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("register ok", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				resp, body := request(t, http.MethodPost, srvURL+RegisterURL, registerBody("farid@example.com"))

				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

				var got struct {
					Email     string `json:"email"`
					FullName  string `json:"fullName"`
					Telephone string `json:"telephone"`
					Verified  bool   `json:"verified"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &got))
				require.Equal(t, "farid@example.com", got.Email)
				require.Equal(t, "Farid Benali", got.FullName)
				require.Equal(t, "0551234567", got.Telephone)
				require.False(t, got.Verified, "email must not be verified right after registration")

				require.Equal(t, 2, len(resp.Cookies()), "both session cookies should be set")

				access := cookieNamed(t, resp, "accessToken")
				require.True(t, access.HttpOnly, "access cookie should be HttpOnly")
				require.Equal(t, "/", access.Path)
				require.Equal(t, http.SameSiteLaxMode, access.SameSite)
				require.InDelta(t, (15 * time.Minute).Seconds(), access.MaxAge, 1, "max age should be access TTL with 1 second delta")
				require.NotEmpty(t, access.Value)

				refresh := cookieNamed(t, resp, "refreshToken")
				require.True(t, refresh.HttpOnly, "refresh cookie should be HttpOnly")
				require.Equal(t, "/api/auth/refresh", refresh.Path, "refresh cookie should only travel to the refresh endpoint")
				require.InDelta(t, (30 * 24 * time.Hour).Seconds(), refresh.MaxAge, 1, "max age should be refresh TTL with 1 second delta")
				require.NotEmpty(t, refresh.Value)

				// A verification mail with the code link went out
				msg := s.Mailbox.Last(t, "farid@example.com")
				require.Regexp(t, verifyCodeRe, msg.HTML)
			})
		})

		t.Run("register existed user fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				registerUser(t, srvURL, "farid@example.com")

				resp, body := request(t, http.MethodPost, srvURL+RegisterURL, registerBody("farid@example.com"))

				require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", body)
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "Email already in use"
					}`, body)
				require.Equal(t, 0, len(resp.Cookies()))
			})
		})

		t.Run("register with invalid fields fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				data := `{
					"email": "not-an-email",
					"password": "short",
					"fullName": "F",
					"telephone": "12345"
				}`

				resp, body := request(t, http.MethodPost, srvURL+RegisterURL, data)

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)

				var got struct {
					Error  string            `json:"error"`
					Fields map[string]string `json:"fields"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &got))
				require.Equal(t, "validation_failed", got.Error)
				require.Contains(t, got.Fields, "email")
				require.Contains(t, got.Fields, "password")
				require.Contains(t, got.Fields, "fullName")
				require.Contains(t, got.Fields, "telephone")
			})
		})
	})
}
