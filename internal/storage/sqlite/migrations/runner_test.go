package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mcoot/scoreboard/internal/storage/sqlite/migrations"
	"github.com/mcoot/scoreboard/internal/testutil"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunCreatesSchema(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, testutil.NopLogger()))

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"alice", "alice@example.com", "hash",
	)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"INSERT INTO scores (user_id, score, distance, ip_address) VALUES (1, 10, NULL, '127.0.0.1')",
	)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"INSERT INTO login_events (user_id, ip_address) VALUES (1, '127.0.0.1')",
	)
	require.NoError(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Run(ctx, db, testutil.NopLogger()))
	require.NoError(t, migrations.Run(ctx, db, testutil.NopLogger()))

	want, err := migrations.Count()
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, want, count)
	assert.Equal(t, 3, count)
}
