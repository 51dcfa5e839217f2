package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed scripts/*.sql
var scripts embed.FS

// ApplySchema creates the consent tables for the connected driver if they do not exist
func (db *DB) ApplySchema(ctx context.Context) error {
	var file string
	switch db.DriverName() {
	case DriverMySQL:
		file = "scripts/mysql.sql"
	case DriverSQLite:
		file = "scripts/sqlite.sql"
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	content, err := scripts.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", file, err)
	}

	for _, stmt := range strings.Split(string(content), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	db.logger.WithField("driver", db.DriverName()).Info("Database schema applied")
	return nil
}
