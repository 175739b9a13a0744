package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndMigrate(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	// Re-running is a no-op.
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{"users", "books", "events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))

	_, err = db.Exec(`INSERT INTO users(email, password_hash) VALUES(?, ?)`, "a@x.com", "h")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users(email, password_hash) VALUES(?, ?)`, "A@X.com", "h")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	_, err = db.Exec(`INSERT INTO books(title) VALUES(?)`, "Dune")
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(nil))
}
