package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Entries are kept in insertion order, which is also their ID order.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID
	scores        []model.ScoreEntry
	logins        []model.LoginEvent

	nextUserID  model.UserID
	nextScoreID int64
	nextLoginID int64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		emailIndex:    make(map[string]model.UserID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[user.Username]; ok {
		return model.ErrDuplicateUsername
	}
	if _, ok := s.emailIndex[user.Email]; ok {
		return model.ErrDuplicateEmail
	}

	s.nextUserID++
	user.ID = s.nextUserID

	stored := *user
	s.users[user.ID] = &stored
	s.usernameIndex[user.Username] = user.ID
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[email]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

// Login audit operations

func (s *Storage) AppendLoginEvent(ctx context.Context, event *model.LoginEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[event.UserID]; !ok {
		return model.ErrUserNotFound
	}
	s.nextLoginID++
	event.ID = s.nextLoginID
	s.logins = append(s.logins, *event)
	return nil
}

func (s *Storage) ListLoginEvents(ctx context.Context, userID model.UserID, limit int) ([]model.LoginEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []model.LoginEvent
	for i := len(s.logins) - 1; i >= 0; i-- {
		if s.logins[i].UserID != userID {
			continue
		}
		events = append(events, s.logins[i])
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

// Score operations

func (s *Storage) AppendScore(ctx context.Context, entry *model.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[entry.UserID]; !ok {
		return model.ErrUserNotFound
	}
	s.nextScoreID++
	entry.ID = s.nextScoreID

	s.scores = append(s.scores, cloneScore(*entry))
	return nil
}

func (s *Storage) BestScore(ctx context.Context, userID model.UserID) (*model.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *model.ScoreEntry
	for i := range s.scores {
		e := &s.scores[i]
		// Strictly greater keeps the earliest entry among equal scores
		if e.UserID == userID && (best == nil || e.Score > best.Score) {
			best = e
		}
	}
	if best == nil {
		return nil, model.ErrNoScores
	}
	result := cloneScore(*best)
	return &result, nil
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]model.RankedScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranked := make([]model.RankedScore, 0, len(s.scores))
	for _, e := range s.scores {
		ranked = append(ranked, model.RankedScore{
			ScoreEntry: cloneScore(e),
			Username:   s.users[e.UserID].Username,
		})
	}

	// Stable sort preserves insertion order among equal scores
	slices.SortStableFunc(ranked, func(a, b model.RankedScore) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Storage) ListScores(ctx context.Context, userID model.UserID, limit int) ([]model.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []model.ScoreEntry
	for i := len(s.scores) - 1; i >= 0; i-- {
		if s.scores[i].UserID != userID {
			continue
		}
		entries = append(entries, cloneScore(s.scores[i]))
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

// cloneScore copies e so callers never share its Distance pointer
func cloneScore(e model.ScoreEntry) model.ScoreEntry {
	if e.Distance != nil {
		d := *e.Distance
		e.Distance = &d
	}
	return e
}

// Ping always succeeds for the in-memory backend
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}
