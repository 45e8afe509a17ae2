package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aydjer/agrimarket/internal/db"
	"github.com/aydjer/agrimarket/internal/handlers"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/repository/postgres"
	"github.com/aydjer/agrimarket/internal/service/auth"
	"github.com/aydjer/agrimarket/internal/service/auth/token"
	"github.com/aydjer/agrimarket/internal/service/blog"
	"github.com/aydjer/agrimarket/internal/service/mail"
	"github.com/aydjer/agrimarket/internal/service/market"
	"github.com/aydjer/agrimarket/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Mail goes over SMTP when a host is configured, otherwise to the log
	var mailer mail.Mailer
	if c.SMTPHost != "" {
		mailer, err = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			From:     c.EmailFrom,
		})
		if err != nil {
			return nil, fmt.Errorf("error while creating smtp mailer. Err: %w", err)
		}
	} else {
		mailer = &mail.LogMailer{Logger: log}
	}

	// Initialize services
	codec, err := token.New(token.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{
		AppOrigin: c.AppOrigin,
		Logger:    log,
	}, codec, storage, mailer)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(storage)
	marketService := market.NewService(storage)
	blogService := blog.NewService(storage)

	mux := handlers.NewRouter(
		authService,
		userService,
		marketService,
		blogService,
		auth.NewCookieManager(c.CookieSecure),
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
