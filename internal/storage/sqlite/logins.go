package sqlite

import (
	"context"
	"fmt"

	"github.com/mcoot/scoreboard/internal/model"
)

func (d *DB) AppendLoginEvent(ctx context.Context, event *model.LoginEvent) error {
	result, err := d.SqlDB.ExecContext(ctx,
		`INSERT INTO login_events (user_id, created_at, ip_address) VALUES (?, ?, ?)`,
		int64(event.UserID), event.CreatedAt.UTC(), event.IPAddress,
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert login event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	event.ID = id
	return nil
}

func (d *DB) ListLoginEvents(ctx context.Context, userID model.UserID, limit int) ([]model.LoginEvent, error) {
	rows, err := d.SqlDB.QueryContext(ctx,
		`SELECT id, user_id, created_at, ip_address FROM login_events
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		int64(userID), sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query login events: %w", err)
	}
	defer rows.Close()

	var events []model.LoginEvent
	for rows.Next() {
		var e model.LoginEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.CreatedAt, &e.IPAddress); err != nil {
			return nil, fmt.Errorf("scan login event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// sqlLimit converts "no limit" (<= 0) to SQLite's LIMIT -1
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
