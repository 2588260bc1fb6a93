package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/mocks"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/storagetest"
)

func TestSessionContractSuite(t *testing.T) {
	suite.Run(t, &storagetest.SessionSuite{
		NewStore: func() storage.SessionStore {
			mini := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewWithClient(client, DefaultConfig(), clock.New())
		},
	})
}

type SessionStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	clock *mocks.MockClock
	store *SessionStore
	ctx   context.Context
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.KeyPrefix = "bike"

	s.store = NewWithClient(client, cfg, s.clock)
	s.ctx = context.Background()
}

func (s *SessionStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *SessionStoreSuite) session(token string, ttl time.Duration) *model.Session {
	now := s.clock.Now()
	return &model.Session{Token: token, UserID: 3, Username: "bob", CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func (s *SessionStoreSuite) TestSaveSetsKeyWithTTL() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("abc", 2*time.Hour)))

	s.True(s.mini.Exists("bike:session:abc"))
	s.Equal(2*time.Hour, s.mini.TTL("bike:session:abc"))
}

func (s *SessionStoreSuite) TestSessionExpiresWithTTL() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("abc", time.Hour)))

	s.mini.FastForward(time.Hour + time.Second)

	_, err := s.store.GetSession(s.ctx, "abc")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *SessionStoreSuite) TestSaveAlreadyExpiredSessionFails() {
	err := s.store.SaveSession(s.ctx, s.session("abc", -time.Minute))
	s.ErrorIs(err, ErrSessionExpired)
	s.False(s.mini.Exists("bike:session:abc"))

	err = s.store.SaveSession(s.ctx, s.session("zero", 0))
	s.ErrorIs(err, ErrSessionExpired)
	s.False(s.mini.Exists("bike:session:zero"))
}

func (s *SessionStoreSuite) TestDeleteExpiredSessionsIsNoop() {
	s.Require().NoError(s.store.SaveSession(s.ctx, s.session("abc", time.Hour)))

	n, err := s.store.DeleteExpiredSessions(s.ctx, s.clock.Now().Add(24*time.Hour))
	s.Require().NoError(err)
	s.Zero(n)
	s.True(s.mini.Exists("bike:session:abc"))
}

func (s *SessionStoreSuite) TestGetSessionCorruptValue() {
	s.Require().NoError(s.mini.Set("bike:session:bad", "not-json"))

	_, err := s.store.GetSession(s.ctx, "bad")
	s.Error(err)
	s.NotErrorIs(err, model.ErrInvalidSession)
}

func (s *SessionStoreSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "://nope"

	_, err := New(cfg, s.clock)
	s.Error(err)
}

func (s *SessionStoreSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg, s.clock)
	s.Require().NoError(err)
	defer store.Close()

	s.Require().NoError(store.SaveSession(s.ctx, s.session("xyz", time.Minute)))
	got, err := store.GetSession(s.ctx, "xyz")
	s.Require().NoError(err)
	s.Equal("bob", got.Username)
}
