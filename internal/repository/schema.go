package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the calendar tables if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	raw, err := schemaFS.ReadFile("schema/" + string(db.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("read %s schema: %w", db.dialect, err)
	}

	// The MySQL driver rejects multi-statement Exec unless the DSN opts in,
	// so statements are applied one at a time.
	applied := 0
	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", applied+1, err)
		}
		applied++
	}

	slog.Info("schema applied", "dialect", db.dialect, "statements", applied)
	return nil
}
