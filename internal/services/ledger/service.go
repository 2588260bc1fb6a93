// Package ledger records game results and answers per-user score queries.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Service appends score entries for the configured game
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	game    model.GameType
	logger  *slog.Logger
}

// New creates a new ledger service for game
func New(store storage.Storage, clk clock.Clock, game model.GameType, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		game:    game,
		logger:  logger,
	}
}

// Game returns the game this ledger records
func (s *Service) Game() model.GameType {
	return s.game
}

// Submit appends one result for userID. Games that track distance require
// one; other games drop it. Scores are not bounded.
func (s *Service) Submit(ctx context.Context, userID model.UserID, score int64, distance *int64, clientIP string) (*model.ScoreEntry, error) {
	if s.game.TracksDistance() {
		if distance == nil {
			return nil, fmt.Errorf("%w: distance is required for %s", model.ErrInvalidInput, s.game)
		}
	} else {
		distance = nil
	}

	entry := &model.ScoreEntry{
		UserID:    userID,
		Score:     score,
		Distance:  distance,
		CreatedAt: s.clock.Now(),
		IPAddress: clientIP,
	}
	if err := s.storage.AppendScore(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("score submitted",
		slog.Int64("user_id", int64(userID)),
		slog.Int64("score", score),
		slog.String("game", string(s.game)),
	)
	return entry, nil
}

// BestFor returns the user's highest entry, earliest first among ties, or
// model.ErrNoScores
func (s *Service) BestFor(ctx context.Context, userID model.UserID) (*model.ScoreEntry, error) {
	return s.storage.BestScore(ctx, userID)
}

// History returns the user's most recent entries, newest first.
// A limit of zero or less returns every entry.
func (s *Service) History(ctx context.Context, userID model.UserID, limit int) ([]model.ScoreEntry, error) {
	entries, err := s.storage.ListScores(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.ScoreEntry{}
	}
	return entries, nil
}
