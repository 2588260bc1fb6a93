// Package storagetest holds behavioural suites shared by every storage backend.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// RecordSuite exercises a storage.Storage implementation.
// Set NewStorage before running; it is called once per test.
type RecordSuite struct {
	suite.Suite
	NewStorage func() storage.Storage

	store storage.Storage
	ctx   context.Context
	now   time.Time
}

func (s *RecordSuite) SetupTest() {
	s.store = s.NewStorage()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RecordSuite) createUser(username string) *model.User {
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))
	return user
}

func (s *RecordSuite) appendScore(userID model.UserID, score int64, distance *int64) *model.ScoreEntry {
	s.now = s.now.Add(time.Second)
	entry := &model.ScoreEntry{
		UserID:    userID,
		Score:     score,
		Distance:  distance,
		CreatedAt: s.now,
		IPAddress: "127.0.0.1",
	}
	s.Require().NoError(s.store.AppendScore(s.ctx, entry))
	return entry
}

func ptr(v int64) *int64 { return &v }

// User tests

func (s *RecordSuite) TestCreateAndGetUser() {
	user := s.createUser("alice")
	s.NotZero(user.ID)

	byID, err := s.store.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
	s.Equal("alice@example.com", byID.Email)
	s.Equal("hash", byID.PasswordHash)
	s.True(byID.CreatedAt.Equal(s.now))

	byName, err := s.store.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)

	byEmail, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)
}

func (s *RecordSuite) TestUsernameLookupIsCaseSensitive() {
	s.createUser("alice")

	_, err := s.store.GetUserByUsername(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *RecordSuite) TestGetUserNotFound() {
	_, err := s.store.GetUser(s.ctx, 999)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.store.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.store.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *RecordSuite) TestCreateUserDuplicateUsername() {
	first := s.createUser("alice")

	err := s.store.CreateUser(s.ctx, &model.User{
		Username: "alice", Email: "other@example.com", PasswordHash: "other", CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrDuplicateUsername)

	stored, err := s.store.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(first.ID, stored.ID)
	s.Equal("alice@example.com", stored.Email)
}

func (s *RecordSuite) TestCreateUserDuplicateEmail() {
	s.createUser("alice")

	err := s.store.CreateUser(s.ctx, &model.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrDuplicateEmail)

	_, err = s.store.GetUserByUsername(s.ctx, "alice2")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Login audit tests

func (s *RecordSuite) TestAppendAndListLoginEvents() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	for i, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		event := &model.LoginEvent{UserID: alice.ID, CreatedAt: s.now.Add(time.Duration(i) * time.Minute), IPAddress: ip}
		s.Require().NoError(s.store.AppendLoginEvent(s.ctx, event))
		s.NotZero(event.ID)
	}
	s.Require().NoError(s.store.AppendLoginEvent(s.ctx, &model.LoginEvent{UserID: bob.ID, CreatedAt: s.now, IPAddress: "10.0.0.9"}))

	events, err := s.store.ListLoginEvents(s.ctx, alice.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("10.0.0.3", events[0].IPAddress)
	s.Equal("10.0.0.2", events[1].IPAddress)

	all, err := s.store.ListLoginEvents(s.ctx, alice.ID, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RecordSuite) TestAppendLoginEventUnknownUser() {
	err := s.store.AppendLoginEvent(s.ctx, &model.LoginEvent{UserID: 42, CreatedAt: s.now, IPAddress: "10.0.0.1"})
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Score tests

func (s *RecordSuite) TestAppendScoreAssignsID() {
	alice := s.createUser("alice")

	entry := s.appendScore(alice.ID, 50, ptr(200))
	s.NotZero(entry.ID)

	list, err := s.store.ListScores(s.ctx, alice.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(int64(50), list[0].Score)
	s.Require().NotNil(list[0].Distance)
	s.Equal(int64(200), *list[0].Distance)
	s.Equal("127.0.0.1", list[0].IPAddress)
}

func (s *RecordSuite) TestAppendScoreWithoutDistance() {
	alice := s.createUser("alice")
	s.appendScore(alice.ID, 7, nil)

	best, err := s.store.BestScore(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Nil(best.Distance)
}

func (s *RecordSuite) TestAppendScoreAcceptsZeroAndNegative() {
	alice := s.createUser("alice")
	s.appendScore(alice.ID, -5, ptr(-1))
	s.appendScore(alice.ID, 0, ptr(0))

	best, err := s.store.BestScore(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), best.Score)
}

func (s *RecordSuite) TestAppendScoreUnknownUser() {
	err := s.store.AppendScore(s.ctx, &model.ScoreEntry{UserID: 42, Score: 1, CreatedAt: s.now, IPAddress: "x"})
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *RecordSuite) TestBestScoreReturnsMaximum() {
	alice := s.createUser("alice")
	first := s.appendScore(alice.ID, 50, ptr(100))
	s.appendScore(alice.ID, 30, ptr(300))

	best, err := s.store.BestScore(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, best.ID)
	s.Equal(int64(50), best.Score)
}

func (s *RecordSuite) TestBestScoreTieKeepsEarliest() {
	alice := s.createUser("alice")
	first := s.appendScore(alice.ID, 80, ptr(1))
	s.appendScore(alice.ID, 80, ptr(2))

	best, err := s.store.BestScore(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, best.ID)
}

func (s *RecordSuite) TestBestScoreNoScores() {
	alice := s.createUser("alice")

	_, err := s.store.BestScore(s.ctx, alice.ID)
	s.ErrorIs(err, model.ErrNoScores)
}

func (s *RecordSuite) TestTopScoresOrderAndLimit() {
	for i := 1; i <= 15; i++ {
		user := s.createUser(fmt.Sprintf("user%02d", i))
		s.appendScore(user.ID, int64(i*10), nil)
	}

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 10)
	s.Equal("user15", top[0].Username)
	s.Equal(int64(150), top[0].Score)
	for i := 1; i < len(top); i++ {
		s.Greater(top[i-1].Score, top[i].Score)
	}
}

func (s *RecordSuite) TestTopScoresTieBreaksByInsertionOrder() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.appendScore(bob.ID, 100, nil)
	s.appendScore(alice.ID, 100, nil)
	s.appendScore(alice.ID, 50, nil)

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("bob", top[0].Username)
	s.Equal("alice", top[1].Username)
	s.Equal(int64(50), top[2].Score)
}

func (s *RecordSuite) TestTopScoresIncludesRepeatEntriesPerUser() {
	alice := s.createUser("alice")
	s.appendScore(alice.ID, 10, nil)
	s.appendScore(alice.ID, 20, nil)

	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(top, 2)
}

func (s *RecordSuite) TestTopScoresEmpty() {
	top, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *RecordSuite) TestListScoresNewestFirst() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	s.appendScore(alice.ID, 1, nil)
	s.appendScore(bob.ID, 99, nil)
	s.appendScore(alice.ID, 2, nil)
	s.appendScore(alice.ID, 3, nil)

	list, err := s.store.ListScores(s.ctx, alice.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(int64(3), list[0].Score)
	s.Equal(int64(2), list[1].Score)
}

func (s *RecordSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
