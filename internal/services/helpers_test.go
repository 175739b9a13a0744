package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/bookshelf-be/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func setupServices(t *testing.T) (*UserService, *BookService, *EventService) {
	t.Helper()
	db := setupDB(t)
	events := NewEventService(db)
	return NewUserService(db, events, bcrypt.MinCost), NewBookService(db, events), events
}
