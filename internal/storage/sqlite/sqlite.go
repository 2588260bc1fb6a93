// Package sqlite implements the record storage on an embedded SQLite file
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/sqlite/migrations"
)

// DB is a SQLite-backed implementation of the storage interface
type DB struct {
	SqlDB  *sql.DB
	logger *slog.Logger
}

// Ensure DB implements the interface
var _ storage.Storage = (*DB)(nil)

// New opens the SQLite database at path, creating the file if needed.
// Foreign keys, WAL journaling and a busy timeout are set per connection
// through the DSN, and the pool is limited to a single writer connection.
func New(path string, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db, logger: logger}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + path + "?" + q.Encode()
}

// Migrate applies the embedded schema migrations
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB, d.logger)
}

// Ping verifies the database connection is alive
func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

// Close closes the database
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// constraintError maps SQLite constraint violations onto model errors.
// It returns nil for errors that are not constraint violations.
func constraintError(err error) error {
	var sqlErr *msqlite.Error
	if !errors.As(err, &sqlErr) {
		return nil
	}

	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		msg := sqlErr.Error()
		switch {
		case strings.Contains(msg, "users.username"):
			return model.ErrDuplicateUsername
		case strings.Contains(msg, "users.email"):
			return model.ErrDuplicateEmail
		}
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return model.ErrUserNotFound
	}
	return nil
}
