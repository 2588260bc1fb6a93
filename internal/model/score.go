package model

import "time"

// ScoreEntry is one immutable game result.
// Distance is nil for games that only track a score.
type ScoreEntry struct {
	ID        int64
	UserID    UserID
	Score     int64
	Distance  *int64
	CreatedAt time.Time
	IPAddress string
}

// RankedScore is a ScoreEntry joined with its owner's username
type RankedScore struct {
	ScoreEntry
	Username string
}

// LeaderboardEntry is one row of a derived ranking
type LeaderboardEntry struct {
	Rank      int
	Username  string
	Score     int64
	Distance  *int64
	Timestamp time.Time
}
