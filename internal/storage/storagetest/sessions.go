package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// SessionSuite exercises a storage.SessionStore implementation.
// Set NewStore before running; it is called once per test.
type SessionSuite struct {
	suite.Suite
	NewStore func() storage.SessionStore

	store storage.SessionStore
	ctx   context.Context
	now   time.Time
}

func (s *SessionSuite) SetupTest() {
	s.store = s.NewStore()
	s.ctx = context.Background()
	s.now = time.Now().UTC().Truncate(time.Second)
}

func (s *SessionSuite) session(token string, ttl time.Duration) *model.Session {
	return &model.Session{
		Token:     token,
		UserID:    7,
		Username:  "alice",
		CreatedAt: s.now,
		ExpiresAt: s.now.Add(ttl),
	}
}

func (s *SessionSuite) TestSaveAndGetSession() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("tok", time.Hour)))

	got, err := s.store.GetSession(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal("tok", got.Token)
	s.Equal(model.UserID(7), got.UserID)
	s.Equal("alice", got.Username)
	s.True(got.ExpiresAt.Equal(s.now.Add(time.Hour)))
}

func (s *SessionSuite) TestGetUnknownSession() {
	_, err := s.store.GetSession(s.ctx, "missing")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *SessionSuite) TestDeleteSessionIsIdempotent() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("tok", time.Hour)))

	s.Require().NoError(s.store.DeleteSession(s.ctx, "tok"))
	s.Require().NoError(s.store.DeleteSession(s.ctx, "tok"))

	_, err := s.store.GetSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *SessionSuite) TestDeleteExpiredSessionsKeepsLive() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("live", time.Hour)))

	_, err := s.store.DeleteExpiredSessions(s.ctx, s.now.Add(time.Minute))
	s.Require().NoError(err)

	_, err = s.store.GetSession(s.ctx, "live")
	s.NoError(err)
}
