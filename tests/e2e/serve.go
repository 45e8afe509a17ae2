package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/handlers"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/repository/postgres"
	"github.com/aydjer/agrimarket/internal/service/auth"
	"github.com/aydjer/agrimarket/internal/service/auth/token"
	"github.com/aydjer/agrimarket/internal/service/blog"
	"github.com/aydjer/agrimarket/internal/service/mail"
	"github.com/aydjer/agrimarket/internal/service/market"
	"github.com/aydjer/agrimarket/internal/service/user"
	"github.com/aydjer/agrimarket/internal/testutil"
)

// Mailbox collects every message the server tried to send, so tests can
// read verification and reset links without a real SMTP server.
type Mailbox struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (m *Mailbox) Send(_ context.Context, msg mail.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return uuid.NewString(), nil
}

// Last returns the most recent message sent to the given address.
func (m *Mailbox) Last(t *testing.T, to string) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].To == to {
			return m.messages[i]
		}
	}
	t.Fatalf("no message sent to %s", to)
	return mail.Message{}
}

type Services struct {
	AuthService   *auth.Service
	UserService   *user.Service
	MarketService *market.Service
	BlogService   *blog.Service
	Mailbox       *Mailbox
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		mailbox := &Mailbox{}

		codec, err := token.New(token.Config{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
		})
		require.NoError(t, err, "token codec should be created without errors")

		as, err := auth.NewService(auth.Config{AppOrigin: "http://app.test"}, codec, storage, mailbox)
		require.NoError(t, err, "auth service starting error", err)

		us := user.NewService(storage)
		ms := market.NewService(storage)
		bs := blog.NewService(storage)

		router := handlers.NewRouter(as, us, ms, bs, auth.NewCookieManager(false), logger.NewNoOp())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:   as,
			UserService:   us,
			MarketService: ms,
			BlogService:   bs,
			Mailbox:       mailbox,
		})
	})
}
