package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcoot/scoreboard/internal/model"
)

const userColumns = "id, username, email, password_hash, created_at"

func (d *DB) CreateUser(ctx context.Context, user *model.User) error {
	result, err := d.SqlDB.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt.UTC(),
	)
	if err != nil {
		if mapped := constraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	user.ID = model.UserID(id)
	return nil
}

func (d *DB) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return d.getUser(ctx, "id", int64(id))
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return d.getUser(ctx, "username", username)
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return d.getUser(ctx, "email", email)
}

// getUser looks a user up by one of the indexed columns.
// column is never caller-supplied.
func (d *DB) getUser(ctx context.Context, column string, value any) (*model.User, error) {
	user := &model.User{}
	err := d.SqlDB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return user, nil
}
