// Package leaderboard derives rankings from the score ledger.
package leaderboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/ledger"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Config holds configuration for the leaderboard
type Config struct {
	// Size is the number of entries returned when no explicit n is given
	Size int
}

// DefaultConfig returns default leaderboard configuration
func DefaultConfig() Config {
	return Config{
		Size: 10,
	}
}

// Board is the leaderboard as seen by one viewer
type Board struct {
	Entries []model.LeaderboardEntry
	// TracksDistance reports whether Distance fields are meaningful
	TracksDistance bool
	// CurrentUser is the viewer's username, or "" when anonymous
	CurrentUser string
	// UserBest and UserBestDistance are zero when the viewer has no scores
	UserBest         int64
	UserBestDistance int64
}

// Service computes rankings. It holds no state of its own.
type Service struct {
	storage storage.Storage
	ledger  *ledger.Service
	size    int
	logger  *slog.Logger
}

// New creates a new leaderboard service
func New(store storage.Storage, ldg *ledger.Service, cfg Config, logger *slog.Logger) *Service {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	return &Service{
		storage: store,
		ledger:  ldg,
		size:    cfg.Size,
		logger:  logger,
	}
}

// TopN returns at most n entries by score descending, earlier entries first
// among equal scores. n <= 0 uses the configured size.
func (s *Service) TopN(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n <= 0 {
		n = s.size
	}

	ranked, err := s.storage.TopScores(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, model.LeaderboardEntry{
			Rank:      i + 1,
			Username:  r.Username,
			Score:     r.Score,
			Distance:  r.Distance,
			Timestamp: r.CreatedAt,
		})
	}
	return entries, nil
}

// PersonalBest returns the user's best entry, or model.ErrNoScores
func (s *Service) PersonalBest(ctx context.Context, userID model.UserID) (*model.ScoreEntry, error) {
	return s.ledger.BestFor(ctx, userID)
}

// Board assembles the default-size leaderboard for viewer, which may be nil
func (s *Service) Board(ctx context.Context, viewer *model.Session) (*Board, error) {
	entries, err := s.TopN(ctx, s.size)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Entries:        entries,
		TracksDistance: s.ledger.Game().TracksDistance(),
	}
	if viewer == nil {
		return board, nil
	}

	board.CurrentUser = viewer.Username
	best, err := s.PersonalBest(ctx, viewer.UserID)
	switch {
	case errors.Is(err, model.ErrNoScores):
	case err != nil:
		return nil, err
	default:
		board.UserBest = best.Score
		if best.Distance != nil {
			board.UserBestDistance = *best.Distance
		}
	}
	return board, nil
}
