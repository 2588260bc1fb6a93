// Package credentials owns user identities and password verification.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Config holds configuration for the credential store
type Config struct {
	// BcryptCost is the bcrypt work factor used for new password hashes
	BcryptCost int
}

// DefaultConfig returns default credential configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service registers users and verifies their passwords
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cost    int
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// New creates a new credential service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage: store,
		clock:   clk,
		cost:    cfg.BcryptCost,
		logger:  logger,
	}
}

// Register creates a user account and returns its id.
// The username is checked before the email, so a request colliding on
// both reports ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.UserID, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return 0, err
	}

	if _, err := s.storage.GetUserByUsername(ctx, username); err == nil {
		return 0, model.ErrDuplicateUsername
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return 0, err
	}

	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return 0, model.ErrDuplicateEmail
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, fmt.Errorf("%w: password must be at most 72 bytes", model.ErrInvalidInput)
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	// The storage unique constraints still catch a concurrent registration
	// that slipped past the lookups above
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return 0, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", user.Username),
	)
	return user.ID, nil
}

// FindByUsername returns the user with exactly this username, or
// model.ErrUserNotFound
func (s *Service) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUserByUsername(ctx, username)
}

// FindByID returns the user with the given id, or model.ErrUserNotFound
func (s *Service) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// VerifyPassword reports whether password matches the user's stored hash.
// bcrypt compares in constant time.
func (s *Service) VerifyPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// BurnComparison spends the same bcrypt work as VerifyPassword without a
// user, so a login for an unknown username takes as long as a wrong password
func (s *Service) BurnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
		if err != nil {
			s.logger.Error("generate dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
	}
}

func validateRegistration(username, email, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: username is required", model.ErrInvalidInput)
	case strings.TrimSpace(email) == "":
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	case !strings.Contains(email, "@"):
		return fmt.Errorf("%w: email must contain @", model.ErrInvalidInput)
	case password == "":
		return fmt.Errorf("%w: password is required", model.ErrInvalidInput)
	}
	return nil
}
