package mssqlkit

import (
	"context"
	"fmt"
	"time"
)

// DatabaseInfo is one row of the server's catalog inventory.
type DatabaseInfo struct {
	ID            int32     `bun:"database_id"`
	Name          string    `bun:"name"`
	State         string    `bun:"state_desc"`
	RecoveryModel string    `bun:"recovery_model_desc"`
	Collation     string    `bun:"collation_name"`
	CreatedAt     time.Time `bun:"create_date"`
}

const stmtListDatabases = `SELECT database_id, name, state_desc, recovery_model_desc,
    COALESCE(collation_name, '') AS collation_name, create_date
FROM sys.databases
ORDER BY name`

const stmtDatabaseState = `SELECT state_desc FROM sys.databases WHERE name = %s`

// ListDatabases returns every database registered with the server,
// system catalogs included, ordered by name
func (db *MSSQLKit) ListDatabases(ctx context.Context) ([]DatabaseInfo, error) {
	return Query[DatabaseInfo](ctx, db, stmtListDatabases)
}

// DatabaseState returns the engine's state for the named database, e.g.
// "ONLINE", "RESTORING" or "OFFLINE". A database the server does not know
// surfaces as a not found error.
func (db *MSSQLKit) DatabaseState(ctx context.Context, name DatabaseName) (string, error) {
	const op = "DatabaseState"
	if err := requireName(name, op); err != nil {
		return "", err
	}

	var state string
	if err := db.QueryRowContext(ctx, fmt.Sprintf(stmtDatabaseState, quoteLiteral(name.String()))).Scan(&state); err != nil {
		return "", wrapError(err, op)
	}
	return state, nil
}
