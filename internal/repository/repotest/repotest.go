// Package repotest opens throwaway SQLite stores for tests in other packages.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/calendarapi/calendar-api/internal/repository"
)

// DSN returns a SQLite DSN for a fresh file inside t's temp directory.
func DSN(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "calendar.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"
}

// Open returns a migrated SQLite-backed DB that is closed when t finishes.
func Open(t testing.TB) *repository.DB {
	t.Helper()
	ctx := context.Background()

	db, err := repository.NewDB(ctx, repository.SQLite, DSN(t), repository.PoolOptions{})
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}
	return db
}
