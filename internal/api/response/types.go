package response

import (
	"time"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
)

// TimestampFormat renders timestamps to minute precision, UTC
const TimestampFormat = "2006-01-02 15:04"

// FormatTimestamp formats t with TimestampFormat
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Result is the body of a successful command
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK creates a successful Result
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// LoginResponse is the response for a successful login. The token is
// also set as the session cookie.
type LoginResponse struct {
	Result
	Username     string    `json:"username"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResponseFromSession creates a LoginResponse from a session
func LoginResponseFromSession(s *model.Session) LoginResponse {
	return LoginResponse{
		Result:       OK("Login successful"),
		Username:     s.Username,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// SessionStatus describes the caller's session
type SessionStatus struct {
	Success     bool   `json:"success"`
	LoggedIn    bool   `json:"logged_in"`
	CurrentUser string `json:"current_user"`
}

// LeaderboardEntry represents one ranked score
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	Distance  *int64 `json:"distance,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Leaderboard is the response for GET /leaderboard
type Leaderboard struct {
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
	UserBest         int64              `json:"user_best"`
	UserBestDistance *int64             `json:"user_best_distance,omitempty"`
	CurrentUser      string             `json:"current_user"`
}

// LeaderboardFromBoard converts a leaderboard.Board. Distances are only
// emitted for games that track them.
func LeaderboardFromBoard(b *leaderboard.Board) Leaderboard {
	entries := make([]LeaderboardEntry, 0, len(b.Entries))
	for _, e := range b.Entries {
		entry := LeaderboardEntry{
			Rank:      e.Rank,
			Username:  e.Username,
			Score:     e.Score,
			Timestamp: FormatTimestamp(e.Timestamp),
		}
		if b.TracksDistance {
			entry.Distance = e.Distance
		}
		entries = append(entries, entry)
	}

	resp := Leaderboard{
		Leaderboard: entries,
		UserBest:    b.UserBest,
		CurrentUser: b.CurrentUser,
	}
	if b.TracksDistance {
		d := b.UserBestDistance
		resp.UserBestDistance = &d
	}
	return resp
}

// ScoreRecord represents one of the caller's own results
type ScoreRecord struct {
	Score     int64  `json:"score"`
	Distance  *int64 `json:"distance,omitempty"`
	Timestamp string `json:"timestamp"`
}

// LoginRecord represents one login audit event
type LoginRecord struct {
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
}

// Profile is the response for GET /profile
type Profile struct {
	Success      bool          `json:"success"`
	Username     string        `json:"username"`
	BestScore    int64         `json:"best_score"`
	BestDistance *int64        `json:"best_distance,omitempty"`
	RecentScores []ScoreRecord `json:"recent_scores"`
	RecentLogins []LoginRecord `json:"recent_logins"`
}

// ScoreRecordsFromModel converts ledger entries
func ScoreRecordsFromModel(entries []model.ScoreEntry) []ScoreRecord {
	records := make([]ScoreRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, ScoreRecord{
			Score:     e.Score,
			Distance:  e.Distance,
			Timestamp: FormatTimestamp(e.CreatedAt),
		})
	}
	return records
}

// LoginRecordsFromModel converts login events
func LoginRecordsFromModel(events []model.LoginEvent) []LoginRecord {
	records := make([]LoginRecord, 0, len(events))
	for _, e := range events {
		records = append(records, LoginRecord{
			Timestamp: FormatTimestamp(e.CreatedAt),
			IP:        e.IPAddress,
		})
	}
	return records
}

// Health is the response for GET /healthz
type Health struct {
	Status string `json:"status"`
	Game   string `json:"game"`
}
