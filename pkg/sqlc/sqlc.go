package sqlc

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var ddl string

// Schema returns the full DDL; exposed for tooling.
func Schema() string { return ddl }

// CreateLocalTables applies the schema statement by statement so it can run
// against an already-initialized database without failing on existing tables.
func CreateLocalTables(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("sqlc: database connection is nil")
	}

	prepared := strings.ReplaceAll(ddl, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ")
	prepared = strings.ReplaceAll(prepared, "CREATE INDEX ", "CREATE INDEX IF NOT EXISTS ")

	for _, stmt := range strings.Split(prepared, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlc: apply schema: %w", err)
		}
	}
	return nil
}
