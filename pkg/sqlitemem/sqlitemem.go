// Package sqlitemem opens isolated in-memory sqlite databases for tests
// and for running the server without a data file.
package sqlitemem

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/funil-crm/funil/pkg/sqlc"
)

// NewSQLiteMem opens a fresh in-memory database with the schema applied.
// Each call gets its own uniquely named database so parallel tests stay
// isolated. The returned cleanup closes the connection.
func NewSQLiteMem(ctx context.Context) (*sql.DB, func(), error) {
	uniqueName := ulid.Make().String()
	connStr := fmt.Sprintf("file:memdb_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uniqueName)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, nil, err
	}
	// shared-cache in-memory databases vanish when the last conn closes
	db.SetMaxOpenConns(1)

	if err := sqlc.CreateLocalTables(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create tables: %w", err)
	}

	cleanup := func() { _ = db.Close() }
	return db, cleanup, nil
}
