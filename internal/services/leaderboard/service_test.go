package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/dependencies/mocks"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/ledger"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ledger  *ledger.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ledger = ledger.New(s.storage, s.clock, model.GameBikeRace, testutil.NopLogger())
	s.service = New(s.storage, s.ledger, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createUser(name string) model.UserID {
	user := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))
	return user.ID
}

func (s *ServiceSuite) submit(id model.UserID, score, dist int64) {
	_, err := s.ledger.Submit(s.ctx, id, score, &dist, "")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
}

// TopN tests

func (s *ServiceSuite) TestTopNEmpty() {
	entries, err := s.service.TopN(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ServiceSuite) TestTopNLimitsAndOrders() {
	for i := range 15 {
		id := s.createUser(fmt.Sprintf("user%02d", i))
		s.submit(id, int64(i*10), int64(i))
	}

	entries, err := s.service.TopN(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 10)

	for i, e := range entries {
		s.Equal(i+1, e.Rank)
		if i > 0 {
			s.Less(e.Score, entries[i-1].Score)
		}
	}
	s.Equal("user14", entries[0].Username)
	s.Equal(int64(140), entries[0].Score)
}

func (s *ServiceSuite) TestTopNDefaultSize() {
	for i := range 12 {
		id := s.createUser(fmt.Sprintf("user%02d", i))
		s.submit(id, int64(i), 0)
	}

	entries, err := s.service.TopN(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(entries, 10)

	small := New(s.storage, s.ledger, Config{Size: 3}, testutil.NopLogger())
	entries, err = small.TopN(s.ctx, -1)
	s.Require().NoError(err)
	s.Len(entries, 3)
}

func (s *ServiceSuite) TestTopNTiesEarlierFirst() {
	first := s.createUser("first")
	second := s.createUser("second")
	s.submit(second, 50, 0)
	s.submit(first, 100, 0)
	s.submit(second, 100, 0)

	entries, err := s.service.TopN(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("first", entries[0].Username)
	s.Equal("second", entries[1].Username)
	s.Equal(int64(100), entries[1].Score)
}

func (s *ServiceSuite) TestTopNIncludesEveryEntryNotJustBestPerUser() {
	id := s.createUser("bob")
	s.submit(id, 10, 1)
	s.submit(id, 20, 2)

	entries, err := s.service.TopN(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestTopNCarriesDistanceAndTimestamp() {
	id := s.createUser("bob")
	at := s.clock.Now()
	s.submit(id, 120, 450)

	entries, err := s.service.TopN(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Require().NotNil(entries[0].Distance)
	s.Equal(int64(450), *entries[0].Distance)
	s.Equal(at, entries[0].Timestamp)
}

// PersonalBest tests

func (s *ServiceSuite) TestPersonalBest() {
	id := s.createUser("bob")
	s.submit(id, 50, 1)
	s.submit(id, 30, 2)

	best, err := s.service.PersonalBest(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(50), best.Score)
}

func (s *ServiceSuite) TestPersonalBestNone() {
	id := s.createUser("bob")

	_, err := s.service.PersonalBest(s.ctx, id)
	s.ErrorIs(err, model.ErrNoScores)
}

// Board tests

func (s *ServiceSuite) TestBoardAnonymous() {
	id := s.createUser("bob")
	s.submit(id, 120, 450)

	board, err := s.service.Board(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(board.Entries, 1)
	s.True(board.TracksDistance)
	s.Empty(board.CurrentUser)
	s.Zero(board.UserBest)
	s.Zero(board.UserBestDistance)
}

func (s *ServiceSuite) TestBoardViewer() {
	id := s.createUser("bob")
	s.submit(id, 120, 450)
	s.submit(id, 80, 900)

	board, err := s.service.Board(s.ctx, &model.Session{UserID: id, Username: "bob"})
	s.Require().NoError(err)
	s.Equal("bob", board.CurrentUser)
	s.Equal(int64(120), board.UserBest)
	s.Equal(int64(450), board.UserBestDistance)
}

func (s *ServiceSuite) TestBoardViewerWithoutScores() {
	id := s.createUser("carol")

	board, err := s.service.Board(s.ctx, &model.Session{UserID: id, Username: "carol"})
	s.Require().NoError(err)
	s.Equal("carol", board.CurrentUser)
	s.Zero(board.UserBest)
}

func (s *ServiceSuite) TestBoardSnakeDoesNotTrackDistance() {
	snake := ledger.New(s.storage, s.clock, model.GameSnake, testutil.NopLogger())
	svc := New(s.storage, snake, DefaultConfig(), testutil.NopLogger())

	board, err := svc.Board(s.ctx, nil)
	s.Require().NoError(err)
	s.False(board.TracksDistance)
}
