package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dferrans/itemstash-be/internal/database"
)

// newTestDB opens a throwaway sqlite database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// mustInsertItem seeds an item row with an explicit creation time so listing
// order is deterministic.
func mustInsertItem(t *testing.T, db *sql.DB, id, ownerID, title, description string, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO items(id, user_id, title, description, created_at) VALUES(?, ?, ?, ?, ?)",
		id, ownerID, title, description, createdAt,
	)
	require.NoError(t, err)
}
