package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marinav/edquest/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The connection is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, database) })
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
