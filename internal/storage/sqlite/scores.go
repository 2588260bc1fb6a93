package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcoot/scoreboard/internal/model"
)

const scoreColumns = "s.id, s.user_id, s.score, s.distance, s.created_at, s.ip_address"

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner, extra ...any) (model.ScoreEntry, error) {
	var (
		e        model.ScoreEntry
		distance sql.NullInt64
	)
	dest := append([]any{&e.ID, &e.UserID, &e.Score, &distance, &e.CreatedAt, &e.IPAddress}, extra...)
	if err := row.Scan(dest...); err != nil {
		return e, err
	}
	if distance.Valid {
		d := distance.Int64
		e.Distance = &d
	}
	return e, nil
}

func (d *DB) AppendScore(ctx context.Context, entry *model.ScoreEntry) error {
	var distance sql.NullInt64
	if entry.Distance != nil {
		distance = sql.NullInt64{Int64: *entry.Distance, Valid: true}
	}

	result, err := d.SqlDB.ExecContext(ctx,
		`INSERT INTO scores (user_id, score, distance, created_at, ip_address) VALUES (?, ?, ?, ?, ?)`,
		int64(entry.UserID), entry.Score, distance, entry.CreatedAt.UTC(), entry.IPAddress,
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// BestScore orders by id within equal scores: ids follow insertion order,
// so the first entry to reach the maximum wins.
func (d *DB) BestScore(ctx context.Context, userID model.UserID) (*model.ScoreEntry, error) {
	row := d.SqlDB.QueryRowContext(ctx,
		`SELECT `+scoreColumns+` FROM scores s
		 WHERE s.user_id = ? ORDER BY s.score DESC, s.id ASC LIMIT 1`,
		int64(userID),
	)
	entry, err := scanScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoScores
		}
		return nil, fmt.Errorf("query best score: %w", err)
	}
	return &entry, nil
}

func (d *DB) TopScores(ctx context.Context, limit int) ([]model.RankedScore, error) {
	rows, err := d.SqlDB.QueryContext(ctx,
		`SELECT `+scoreColumns+`, u.username FROM scores s
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.score DESC, s.id ASC LIMIT ?`,
		sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	ranked := []model.RankedScore{}
	for rows.Next() {
		var username string
		entry, err := scanScore(rows, &username)
		if err != nil {
			return nil, fmt.Errorf("scan top score: %w", err)
		}
		ranked = append(ranked, model.RankedScore{ScoreEntry: entry, Username: username})
	}
	return ranked, rows.Err()
}

func (d *DB) ListScores(ctx context.Context, userID model.UserID, limit int) ([]model.ScoreEntry, error) {
	rows, err := d.SqlDB.QueryContext(ctx,
		`SELECT `+scoreColumns+` FROM scores s
		 WHERE s.user_id = ? ORDER BY s.id DESC LIMIT ?`,
		int64(userID), sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var entries []model.ScoreEntry
	for rows.Next() {
		entry, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
