package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/storagetest"
)

func TestRecordSuite(t *testing.T) {
	suite.Run(t, &storagetest.RecordSuite{
		NewStorage: func() storage.Storage { return New() },
	})
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, &storagetest.SessionSuite{
		NewStore: func() storage.SessionStore { return NewSessionStore() },
	})
}

type MemorySessionSuite struct {
	suite.Suite
	store *SessionStore
	ctx   context.Context
	now   time.Time
}

func TestMemorySessionSuite(t *testing.T) {
	suite.Run(t, new(MemorySessionSuite))
}

func (s *MemorySessionSuite) SetupTest() {
	s.store = NewSessionStore()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *MemorySessionSuite) TestDeleteExpiredSessionsRemovesOnlyExpired() {
	_ = s.store.SaveSession(s.ctx, &model.Session{Token: "old", ExpiresAt: s.now.Add(time.Hour)})
	_ = s.store.SaveSession(s.ctx, &model.Session{Token: "new", ExpiresAt: s.now.Add(3 * time.Hour)})

	removed, err := s.store.DeleteExpiredSessions(s.ctx, s.now.Add(2*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, removed)
	s.Equal(1, s.store.Len())

	_, err = s.store.GetSession(s.ctx, "old")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *MemorySessionSuite) TestGetSessionReturnsCopy() {
	_ = s.store.SaveSession(s.ctx, &model.Session{Token: "tok", Username: "alice"})

	got, _ := s.store.GetSession(s.ctx, "tok")
	got.Username = "mallory"

	again, _ := s.store.GetSession(s.ctx, "tok")
	s.Equal("alice", again.Username)
}

type MemoryStorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(MemoryStorageSuite))
}

func (s *MemoryStorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *MemoryStorageSuite) TestStoredUserIsIsolatedFromCaller() {
	user := &model.User{Username: "alice", Email: "a@example.com", PasswordHash: "hash"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	user.PasswordHash = "tampered"

	stored, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("hash", stored.PasswordHash)
}

func (s *MemoryStorageSuite) TestStoredDistanceIsIsolatedFromCaller() {
	user := &model.User{Username: "alice", Email: "a@example.com"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	d := int64(10)
	s.Require().NoError(s.storage.AppendScore(s.ctx, &model.ScoreEntry{UserID: user.ID, Score: 1, Distance: &d}))
	d = 999

	best, err := s.storage.BestScore(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(int64(10), *best.Distance)
}

func (s *MemoryStorageSuite) TestReturnedDistancesDoNotAliasStorage() {
	user := &model.User{Username: "alice", Email: "a@example.com"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	d := int64(10)
	s.Require().NoError(s.storage.AppendScore(s.ctx, &model.ScoreEntry{UserID: user.ID, Score: 1, Distance: &d}))

	top, err := s.storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	*top[0].Distance = 500

	best, err := s.storage.BestScore(s.ctx, user.ID)
	s.Require().NoError(err)
	*best.Distance = 600

	history, err := s.storage.ListScores(s.ctx, user.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(int64(10), *history[0].Distance)
	*history[0].Distance = 700

	top, err = s.storage.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(int64(10), *top[0].Distance)
}
