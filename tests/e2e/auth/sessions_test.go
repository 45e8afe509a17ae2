package auth

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/testutil"
	"github.com/aydjer/agrimarket/tests/e2e"
)

type sessionItem struct {
	ID        string `json:"id"`
	UserAgent string `json:"userAgent"`
	Current   bool   `json:"current"`
}

func listSessions(t *testing.T, srvURL string, access *http.Cookie) []sessionItem {
	t.Helper()

	resp, body := request(t, http.MethodGet, srvURL+SessionsURL, "", access)
	require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

	var sessions []sessionItem
	require.NoError(t, json.Unmarshal([]byte(body), &sessions))
	return sessions
}

func Test_Sessions(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("list requires auth", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				resp, body := request(t, http.MethodGet, srvURL+SessionsURL, "")

				require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "Unauthorized"
					}`, body)
			})
		})

		t.Run("list marks the current session", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				access, _ := registerUser(t, srvURL, "farid@example.com")

				resp, body := request(t, http.MethodPost, srvURL+LoginURL, loginBody("farid@example.com", "StrongEnoughPassword"))
				require.Equal(t, http.StatusOK, resp.StatusCode, body)

				sessions := listSessions(t, srvURL, access)

				require.Len(t, sessions, 2)
				current := 0
				for _, s := range sessions {
					if s.Current {
						current++
					}
				}
				require.Equal(t, 1, current, "exactly one session should be marked current")
			})
		})

		t.Run("delete another session", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				access, _ := registerUser(t, srvURL, "farid@example.com")

				resp, body := request(t, http.MethodPost, srvURL+LoginURL, loginBody("farid@example.com", "StrongEnoughPassword"))
				require.Equal(t, http.StatusOK, resp.StatusCode, body)

				sessions := listSessions(t, srvURL, access)
				require.Len(t, sessions, 2)

				var otherID string
				for _, s := range sessions {
					if !s.Current {
						otherID = s.ID
					}
				}
				require.NotEmpty(t, otherID)

				resp, _ = request(t, http.MethodDelete, srvURL+SessionsURL+"/"+otherID, "", access)
				require.Equal(t, http.StatusNoContent, resp.StatusCode)

				require.Len(t, listSessions(t, srvURL, access), 1)
			})
		})

		t.Run("delete foreign session fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				access, _ := registerUser(t, srvURL, "farid@example.com")
				otherAccess, _ := registerUser(t, srvURL, "other@example.com")

				otherSessions := listSessions(t, srvURL, otherAccess)
				require.Len(t, otherSessions, 1)

				resp, body := request(t, http.MethodDelete, srvURL+SessionsURL+"/"+otherSessions[0].ID, "", access)

				require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)
				require.Len(t, listSessions(t, srvURL, otherAccess), 1, "foreign session must stay alive")
			})
		})

		t.Run("delete with malformed id fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				access, _ := registerUser(t, srvURL, "farid@example.com")

				resp, body := request(t, http.MethodDelete, srvURL+SessionsURL+"/not-a-uuid", "", access)

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
			})
		})
	})
}
