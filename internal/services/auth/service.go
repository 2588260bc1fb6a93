// Package auth turns verified credentials into sessions and resolves
// session tokens back to users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Service handles authentication and session management
type Service struct {
	credentials *credentials.Service
	storage     storage.Storage
	sessions    storage.SessionStore
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth service
func New(
	creds *credentials.Service,
	store storage.Storage,
	sessions storage.SessionStore,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		credentials:     creds,
		storage:         store,
		sessions:        sessions,
		clock:           clk,
		random:          rnd,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// Login verifies a username and password, records a login event and
// opens a session. Unknown users and wrong passwords both return
// model.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password, clientIP string) (*model.Session, error) {
	user, err := s.credentials.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.credentials.BurnComparison(password)
			s.logger.Info("login failed", slog.String("username", username), slog.String("ip", clientIP))
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.credentials.VerifyPassword(user, password) {
		s.logger.Info("login failed", slog.String("username", username), slog.String("ip", clientIP))
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.random.Token()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.clock.Now()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	// The event is only written once the session exists, and the session
	// is withdrawn if the event cannot be written.
	event := &model.LoginEvent{
		UserID:    user.ID,
		CreatedAt: now,
		IPAddress: clientIP,
	}
	if err := s.storage.AppendLoginEvent(ctx, event); err != nil {
		if delErr := s.sessions.DeleteSession(ctx, token); delErr != nil {
			s.logger.Error("failed to withdraw session", slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("record login: %w", err)
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
		slog.String("ip", clientIP),
	)
	return session, nil
}

// Logout ends the session for token. Unknown or empty tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession returns the live session for token, or
// model.ErrInvalidSession if it is unknown or expired
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, model.ErrInvalidSession
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.clock.Now()) {
		if err := s.sessions.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("delete expired session", slog.String("error", err.Error()))
		}
		return nil, model.ErrInvalidSession
	}

	return session, nil
}

// CurrentUser resolves token to a user id. ok is false when there is no
// live session; err is reserved for backend failures.
func (s *Service) CurrentUser(ctx context.Context, token string) (id model.UserID, ok bool, err error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSession) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return session.UserID, true, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.sessions.DeleteExpiredSessions(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("expired sessions removed", slog.Int("count", n))
	}
	return n, nil
}

// LoginHistory returns a user's most recent login events, newest first
func (s *Service) LoginHistory(ctx context.Context, userID model.UserID, limit int) ([]model.LoginEvent, error) {
	return s.storage.ListLoginEvents(ctx, userID, limit)
}
