package storage

import (
	"context"
	"time"

	"github.com/mcoot/scoreboard/internal/model"
)

// Storage defines the interface for durable record persistence.
// Users, score entries and login events are append-only: nothing here
// updates or deletes a row.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Login audit operations
	AppendLoginEvent(ctx context.Context, event *model.LoginEvent) error
	ListLoginEvents(ctx context.Context, userID model.UserID, limit int) ([]model.LoginEvent, error)

	// Score operations
	AppendScore(ctx context.Context, entry *model.ScoreEntry) error
	BestScore(ctx context.Context, userID model.UserID) (*model.ScoreEntry, error)
	TopScores(ctx context.Context, limit int) ([]model.RankedScore, error)
	ListScores(ctx context.Context, userID model.UserID, limit int) ([]model.ScoreEntry, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

// SessionStore holds login sessions keyed by their opaque token.
// Implementations may expire sessions on their own; callers still check
// Session.Expired.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
