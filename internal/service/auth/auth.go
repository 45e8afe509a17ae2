package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/service/mail"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/service/auth/token"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour

	// Session is extended when it would expire within this window
	defaultSessionRefreshWindow = 24 * time.Hour

	// Effectively "until used"
	defaultVerifyCodeTTL = 365 * 24 * time.Hour

	defaultResetCodeTTL = time.Hour

	// At most two reset codes per user within the window
	defaultResetIssueWindow = 5 * time.Minute
	defaultResetIssueLimit  = 2
)

// Same message for unknown email and wrong password, so login responses do
// not reveal which emails are registered.
var ErrInvalidCredentials = apperrors.Unauthorized("Invalid email or password")

type Config struct {
	// Hasher to use during registration or login
	// If not set bcrypt is used
	Hasher PasswordHasher

	// Origin used to build links in outgoing emails, e.g. https://agrimarket.example
	AppOrigin string

	// Lifetimes and limits, zero values mean defaults
	SessionTTL           time.Duration
	SessionRefreshWindow time.Duration
	VerifyCodeTTL        time.Duration
	ResetCodeTTL         time.Duration
	ResetIssueWindow     time.Duration
	ResetIssueLimit      int64

	Logger logger.Logger
}

// Service orchestrates the session and credential lifecycle: register,
// login, refresh, logout, email verification and password reset. All state
// lives in the store; the service itself has no mutable state.
type Service struct {
	codec   *token.Codec
	hasher  PasswordHasher
	storage repository.Storage
	mailer  mail.Mailer
	logger  logger.Logger

	appOrigin            string
	sessionTTL           time.Duration
	sessionRefreshWindow time.Duration
	verifyCodeTTL        time.Duration
	resetCodeTTL         time.Duration
	resetIssueWindow     time.Duration
	resetIssueLimit      int64
}

func NewService(cfg Config, codec *token.Codec, storage repository.Storage, mailer mail.Mailer) (*Service, error) {
	if codec == nil || storage == nil || mailer == nil {
		return nil, errors.New("codec, storage and mailer must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.SessionTTL, defaultSessionTTL)
	setDefaultDuration(&cfg.SessionRefreshWindow, defaultSessionRefreshWindow)
	setDefaultDuration(&cfg.VerifyCodeTTL, defaultVerifyCodeTTL)
	setDefaultDuration(&cfg.ResetCodeTTL, defaultResetCodeTTL)
	setDefaultDuration(&cfg.ResetIssueWindow, defaultResetIssueWindow)
	if cfg.ResetIssueLimit == 0 {
		cfg.ResetIssueLimit = defaultResetIssueLimit
	}

	return &Service{
		codec:                codec,
		hasher:               hasher,
		storage:              storage,
		mailer:               mailer,
		logger:               log,
		appOrigin:            cfg.AppOrigin,
		sessionTTL:           cfg.SessionTTL,
		sessionRefreshWindow: cfg.SessionRefreshWindow,
		verifyCodeTTL:        cfg.VerifyCodeTTL,
		resetCodeTTL:         cfg.ResetCodeTTL,
		resetIssueWindow:     cfg.ResetIssueWindow,
		resetIssueLimit:      cfg.ResetIssueLimit,
	}, nil
}

type RegisterParams struct {
	Email     string
	Password  string
	FullName  string
	Telephone string
	UserAgent string
}

// Register creates the user, emails a verification link and logs the new
// user in with a fresh session. A failed verification email is logged and
// swallowed: the user and session already exist and stay.
func (s *Service) Register(ctx context.Context, arg RegisterParams) (models.User, models.TokenPair, error) {
	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	// The unique constraint on users.email decides the winner when two
	// registrations race; no separate existence check needed
	user, err := s.storage.User().Create(ctx, repository.CreateUserParams{
		Email:        arg.Email,
		PasswordHash: hash,
		FullName:     arg.FullName,
		Telephone:    arg.Telephone,
	})
	if err != nil {
		return user, models.TokenPair{}, err
	}

	code, err := issueCode(ctx, s.storage.Code(), user.ID, models.CodeEmailVerification, s.verifyCodeTTL)
	switch {
	case err != nil:
		s.logger.Error("could not issue email verification code", "user_id", user.ID, "error", err.Error())
	default:
		msg := mail.VerifyEmailMessage(user.Email, s.appOrigin, code.ID)
		if _, err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error("could not send verification email", "user_id", user.ID, "error", err.Error())
		}
	}

	pair, err := s.startSession(ctx, user.ID, arg.UserAgent)
	if err != nil {
		return user, pair, err
	}

	return user, pair, nil
}

// Login verifies credentials and opens a new independent session. Multiple
// devices hold separate sessions concurrently.
func (s *Service) Login(ctx context.Context, email, password, userAgent string) (models.TokenPair, error) {
	user, err := s.storage.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.TokenPair{}, ErrInvalidCredentials
		}
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, ErrInvalidCredentials
	}

	return s.startSession(ctx, user.ID, userAgent)
}

// Refresh validates the refresh token against its session record and mints
// a fresh access token. When the session would expire within the refresh
// window it is extended in place and a new refresh token bound to the same
// session id is returned; otherwise rotated is nil.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (access models.IssuedToken, rotated *models.IssuedToken, err error) {
	if refreshRaw == "" {
		return access, nil, apperrors.Unauthorized("Missing refresh token")
	}

	claims, err := s.codec.VerifyRefresh(refreshRaw)
	if err != nil {
		return access, nil, apperrors.Unauthorized("Invalid refresh token")
	}

	session, err := s.storage.Session().Get(ctx, claims.SessionID)
	if err != nil {
		return access, nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		return access, nil, apperrors.ErrSessionNotFound
	}

	if session.ExpiresAt.Sub(now) <= s.sessionRefreshWindow {
		session, err = s.storage.Session().ExtendExpiry(ctx, session.ID, now.Add(s.sessionTTL))
		if err != nil {
			return access, nil, err
		}

		refresh, err := s.codec.SignRefresh(session.ID)
		if err != nil {
			return access, nil, err
		}
		rotated = &refresh
	}

	access, err = s.codec.SignAccess(session.UserID, session.ID)
	if err != nil {
		return access, nil, err
	}

	return access, rotated, nil
}

// Logout revokes the session named by the access token. Verification
// failures are tolerated: logout succeeds whether or not a session could be
// recovered, and clearing cookies is the transport's unconditional step.
func (s *Service) Logout(ctx context.Context, accessRaw string) {
	if accessRaw == "" {
		return
	}

	claims, err := s.codec.VerifyAccess(accessRaw)
	if err != nil {
		return
	}

	err = s.storage.Session().Delete(ctx, claims.SessionID)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		s.logger.Error("could not delete session on logout", "session_id", claims.SessionID, "error", err.Error())
	}
}

// VerifyEmail consumes an email verification code and marks the user
// verified. The code is deleted afterwards so a second use fails not found.
func (s *Service) VerifyEmail(ctx context.Context, codeID string) (models.User, error) {
	code, err := consumeCode(ctx, s.storage.Code(), codeID, models.CodeEmailVerification)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.storage.User().SetVerified(ctx, code.UserID)
	if err != nil {
		return user, err
	}

	if err := s.storage.Code().Delete(ctx, code.ID); err != nil {
		return user, err
	}

	return user, nil
}

// ForgotPassword issues a reset code and emails the reset link. Unlike
// login this path reports whether the email exists. Issuance is capped at
// two codes per user within the window.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.storage.User().GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	since := time.Now().Add(-s.resetIssueWindow)
	count, err := s.storage.Code().CountForUserSince(ctx, user.ID, models.CodePasswordReset, since)
	if err != nil {
		return err
	}
	if count >= s.resetIssueLimit {
		return apperrors.TooManyRequests("Too many requests, please try again later")
	}

	code, err := issueCode(ctx, s.storage.Code(), user.ID, models.CodePasswordReset, s.resetCodeTTL)
	if err != nil {
		return err
	}

	msg := mail.PasswordResetMessage(user.Email, s.appOrigin, code.ID, code.ExpiresAt)
	id, err := s.mailer.Send(ctx, msg)
	if err != nil || id == "" {
		return apperrors.Internal("Failed to send password reset email")
	}

	return nil
}

// ResetPassword consumes a reset code, replaces the password and deletes
// every session the user owns: all devices are signed out at once.
func (s *Service) ResetPassword(ctx context.Context, codeID, newPassword string) error {
	code, err := consumeCode(ctx, s.storage.Code(), codeID, models.CodePasswordReset)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	if err := s.storage.User().SetPassword(ctx, code.UserID, hash); err != nil {
		return err
	}

	if _, err := s.storage.Session().DeleteForUser(ctx, code.UserID); err != nil {
		return err
	}

	return s.storage.Code().Delete(ctx, code.ID)
}

// AuthenticateAccess is the stateless fast path used on every ordinary
// request: signature, audience and expiry only, no store lookup. A revoked
// session stays usable this way until its access token expires.
func (s *Service) AuthenticateAccess(accessRaw string) (userID, sessionID uuid.UUID, err error) {
	if accessRaw == "" {
		return uuid.Nil, uuid.Nil, apperrors.Unauthorized("Missing access token")
	}

	claims, err := s.codec.VerifyAccess(accessRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.Unauthorized("Invalid access token")
	}

	return claims.UserID, claims.SessionID, nil
}

// ListSessions returns the user's sessions, newest first
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	return s.storage.Session().ListForUser(ctx, userID)
}

// DeleteSession removes one session owned by the user
func (s *Service) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.storage.Session().Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return apperrors.ErrSessionNotFound
	}

	return s.storage.Session().Delete(ctx, sessionID)
}

func (s *Service) startSession(ctx context.Context, userID uuid.UUID, userAgent string) (models.TokenPair, error) {
	now := time.Now().Truncate(time.Second)

	session, err := s.storage.Session().Create(ctx, models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while creating session. Err: %w", err)
	}

	access, err := s.codec.SignAccess(userID, session.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := s.codec.SignRefresh(session.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}
