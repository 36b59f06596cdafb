// Package dbtest opens migrated SQLite stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"moviecatalog"
	"moviecatalog/internal/database"
)

// NewStore returns a Store over a fresh, migrated database file in a
// temporary directory. The database is closed when the test ends.
func NewStore(t testing.TB) *database.Store {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrations, err := moviecatalog.MigrationsFS()
	if err != nil {
		t.Fatalf("migrations fs: %v", err)
	}
	if err := database.RunMigrations(db, migrations); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database.NewStore(db)
}
