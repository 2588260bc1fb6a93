package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Result:
		fmt.Fprintln(o.w, v.Message)
	case LoginResult:
		o.printLoginResult(v)
	case SessionStatus:
		o.printSessionStatus(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case Profile:
		o.printProfile(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\nGame: %s\n", v.Status, v.Game)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Result response type (matches API)
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResult response type
type LoginResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`
}

// SessionStatus response type
type SessionStatus struct {
	LoggedIn    bool   `json:"logged_in"`
	CurrentUser string `json:"current_user"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	Distance  *int64 `json:"distance,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Leaderboard response type
type Leaderboard struct {
	Leaderboard      []LeaderboardEntry `json:"leaderboard"`
	UserBest         int64              `json:"user_best"`
	UserBestDistance *int64             `json:"user_best_distance,omitempty"`
	CurrentUser      string             `json:"current_user"`
}

// ScoreRecord response type
type ScoreRecord struct {
	Score     int64  `json:"score"`
	Distance  *int64 `json:"distance,omitempty"`
	Timestamp string `json:"timestamp"`
}

// LoginRecord response type
type LoginRecord struct {
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
}

// Profile response type
type Profile struct {
	Username     string        `json:"username"`
	BestScore    int64         `json:"best_score"`
	BestDistance *int64        `json:"best_distance,omitempty"`
	RecentScores []ScoreRecord `json:"recent_scores"`
	RecentLogins []LoginRecord `json:"recent_logins"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Game   string `json:"game"`
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Fprintf(o.w, "Logged in as %s\n", l.Username)
	fmt.Fprintf(o.w, "Token: %s\n", l.SessionToken)
}

func (o *Output) printSessionStatus(s SessionStatus) {
	if !s.LoggedIn {
		fmt.Fprintln(o.w, "Not logged in")
		return
	}
	fmt.Fprintf(o.w, "Logged in as %s\n", s.CurrentUser)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Leaderboard) == 0 {
		fmt.Fprintln(o.w, "No scores yet")
	} else {
		tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tDISTANCE\tWHEN")
		for _, e := range l.Leaderboard {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", e.Rank, e.Username, e.Score, formatDistance(e.Distance), e.Timestamp)
		}
		_ = tw.Flush()
	}

	if l.CurrentUser != "" {
		fmt.Fprintf(o.w, "\nYour best (%s): %d", l.CurrentUser, l.UserBest)
		if l.UserBestDistance != nil {
			fmt.Fprintf(o.w, " (distance %d)", *l.UserBestDistance)
		}
		fmt.Fprintln(o.w)
	}
}

func (o *Output) printProfile(p Profile) {
	fmt.Fprintf(o.w, "User: %s\n", p.Username)
	fmt.Fprintf(o.w, "Best score: %d", p.BestScore)
	if p.BestDistance != nil {
		fmt.Fprintf(o.w, " (distance %d)", *p.BestDistance)
	}
	fmt.Fprintln(o.w)

	if len(p.RecentScores) > 0 {
		fmt.Fprintf(o.w, "\nRecent scores (%d):\n", len(p.RecentScores))
		for _, s := range p.RecentScores {
			fmt.Fprintf(o.w, "  %s  %d  %s\n", s.Timestamp, s.Score, formatDistance(s.Distance))
		}
	}

	if len(p.RecentLogins) > 0 {
		fmt.Fprintf(o.w, "\nRecent logins (%d):\n", len(p.RecentLogins))
		for _, l := range p.RecentLogins {
			fmt.Fprintf(o.w, "  %s  from %s\n", l.Timestamp, l.IP)
		}
	}
}

func formatDistance(d *int64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *d)
}
