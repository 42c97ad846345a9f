package mssqlkit

import (
	"context"
	"fmt"
	"strings"
)

// Statement templates for the administrative batches. Identifiers are
// interpolated through DatabaseName.Identifier and string values through
// quoteLiteral, nothing else may ever be spliced into statement text.
const (
	stmtDatabaseExists = `SELECT CASE WHEN DB_ID(%s) IS NULL THEN CAST(0 AS bit) ELSE CAST(1 AS bit) END`

	stmtDatabaseFiles = `SELECT type_desc, physical_name
FROM sys.master_files
WHERE database_id = DB_ID(%s)
ORDER BY [file_id]`

	stmtSetSingleUser = `ALTER DATABASE %s SET SINGLE_USER WITH ROLLBACK IMMEDIATE`

	stmtSetMultiUser = `ALTER DATABASE %s SET MULTI_USER`

	// Builds one KILL per user session on the target database and runs
	// them. System sessions cannot be killed, and a session must never
	// kill itself.
	fragKillConnections = `DECLARE @kill nvarchar(max) = N'';
SELECT @kill = @kill + N'KILL ' + CAST(session_id AS nvarchar(10)) + N'; '
FROM sys.dm_exec_sessions
WHERE database_id = DB_ID(%s) AND is_user_process = 1 AND session_id <> @@SPID;
EXEC sys.sp_executesql @kill;`

	fragTryCreate = `DECLARE @created bit = 0;
IF DB_ID(%s) IS NULL
BEGIN
    CREATE DATABASE %s;
    SET @created = 1;
END;
SELECT @created;`

	fragDropIfExists = `DECLARE @dropped bit = 0;
IF DB_ID(%s) IS NOT NULL
BEGIN
    DROP DATABASE %s;
    SET @dropped = 1;
END;`

	fragDetach = `ALTER DATABASE %s SET SINGLE_USER WITH ROLLBACK IMMEDIATE;
EXEC sys.sp_detach_db @dbname = %s;`
)

// requireName rejects the zero DatabaseName, which NormalizeDatabaseName
// can never produce.
func requireName(name DatabaseName, op string) error {
	if name.IsZero() {
		return &Error{
			Code:    CodeInvalidIdentifier,
			Message: "database name is required",
			Op:      op,
		}
	}
	return nil
}

func existsStatement(name DatabaseName) string {
	return fmt.Sprintf(stmtDatabaseExists, quoteLiteral(name.String()))
}

func filesStatement(name DatabaseName) string {
	return fmt.Sprintf(stmtDatabaseFiles, quoteLiteral(name.String()))
}

func killConnectionsStatement(name DatabaseName) string {
	return fmt.Sprintf(fragKillConnections, quoteLiteral(name.String()))
}

func setSingleUserStatement(name DatabaseName) string {
	return fmt.Sprintf(stmtSetSingleUser, name.Identifier())
}

func setMultiUserStatement(name DatabaseName) string {
	return fmt.Sprintf(stmtSetMultiUser, name.Identifier())
}

func tryCreateStatement(name DatabaseName) string {
	return fmt.Sprintf(fragTryCreate, quoteLiteral(name.String()), name.Identifier())
}

func tryDropStatement(name DatabaseName) string {
	var b strings.Builder
	b.WriteString(killConnectionsStatement(name))
	b.WriteString("\n")
	fmt.Fprintf(&b, fragDropIfExists, quoteLiteral(name.String()), name.Identifier())
	b.WriteString("\nSELECT @dropped;")
	return b.String()
}

func dropAndRecreateStatement(name DatabaseName) string {
	var b strings.Builder
	b.WriteString(killConnectionsStatement(name))
	b.WriteString("\n")
	fmt.Fprintf(&b, fragDropIfExists, quoteLiteral(name.String()), name.Identifier())
	b.WriteString("\nCREATE DATABASE ")
	b.WriteString(name.Identifier())
	b.WriteString(";\nSELECT @dropped;")
	return b.String()
}

func detachStatement(name DatabaseName) string {
	return fmt.Sprintf(fragDetach, name.Identifier(), quoteLiteral(name.String()))
}

func attachStatement(name DatabaseName, files []DatabaseFile) string {
	var b strings.Builder
	b.WriteString("CREATE DATABASE ")
	b.WriteString(name.Identifier())
	b.WriteString(" ON\n")
	for i, f := range files {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("    (FILENAME = ")
		b.WriteString(quoteLiteral(f.Path))
		b.WriteString(")")
	}
	b.WriteString("\nFOR ATTACH;")
	return b.String()
}

// DatabaseExists reports whether the named database is registered with the
// server. Read-only and cheap, so never retried.
func (db *MSSQLKit) DatabaseExists(ctx context.Context, name DatabaseName) (bool, error) {
	const op = "DatabaseExists"
	if err := requireName(name, op); err != nil {
		return false, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx, existsStatement(name)).Scan(&exists); err != nil {
		return false, wrapError(err, op)
	}
	return exists, nil
}

// KillDatabaseConnections terminates every user session connected to the
// named database, rolling back whatever they were doing. Killing
// connections to a database that does not exist is a no-op, not an error.
func (db *MSSQLKit) KillDatabaseConnections(ctx context.Context, name DatabaseName) error {
	const op = "KillDatabaseConnections"
	if err := requireName(name, op); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, killConnectionsStatement(name)); err != nil {
		return wrapError(err, op)
	}
	return nil
}

// SetSingleUser switches the named database to single user mode, rolling
// back every other session's work immediately. The alternative to killing
// sessions one by one before a destructive operation.
func (db *MSSQLKit) SetSingleUser(ctx context.Context, name DatabaseName) error {
	const op = "SetSingleUser"
	if err := requireName(name, op); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, setSingleUserStatement(name)); err != nil {
		return wrapError(err, op)
	}
	return nil
}

// SetMultiUser returns the named database to normal multi user access.
func (db *MSSQLKit) SetMultiUser(ctx context.Context, name DatabaseName) error {
	const op = "SetMultiUser"
	if err := requireName(name, op); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, setMultiUserStatement(name)); err != nil {
		return wrapError(err, op)
	}
	return nil
}

// TryCreateDatabase creates the database if and only if it does not already
// exist, reporting whether creation occurred. Probe and create run in one
// batch, retried per the policy.
func (db *MSSQLKit) TryCreateDatabase(ctx context.Context, name DatabaseName, policy RetryPolicy) (bool, error) {
	const op = "TryCreateDatabase"
	if err := requireName(name, op); err != nil {
		return false, err
	}

	stmt := tryCreateStatement(name)
	var created bool
	err := withRetry(ctx, policy, op, func(ctx context.Context) error {
		created = false
		return db.QueryRowContext(ctx, stmt).Scan(&created)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// TryDropDatabase kills user connections, then drops the database when it
// exists, reporting whether a drop occurred. Dropping a database that does
// not exist is a normal false outcome. Server-side system processes
// (full-text indexing, replication agents) can hold the database briefly
// after its user sessions die and cannot be killed, which is what the
// retry policy is for.
func (db *MSSQLKit) TryDropDatabase(ctx context.Context, name DatabaseName, policy RetryPolicy) (bool, error) {
	const op = "TryDropDatabase"
	if err := requireName(name, op); err != nil {
		return false, err
	}

	stmt := tryDropStatement(name)
	var dropped bool
	err := withRetry(ctx, policy, op, func(ctx context.Context) error {
		dropped = false
		return db.QueryRowContext(ctx, stmt).Scan(&dropped)
	})
	if err != nil {
		return false, err
	}
	return dropped, nil
}

// DropAndRecreateDatabase kills user connections, then drops the database
// when present and creates it fresh within a single batch, reporting
// whether a prior drop occurred. Either way the caller ends up with an
// existing, empty database. The usual entry point for test fixtures.
func (db *MSSQLKit) DropAndRecreateDatabase(ctx context.Context, name DatabaseName, policy RetryPolicy) (bool, error) {
	const op = "DropAndRecreateDatabase"
	if err := requireName(name, op); err != nil {
		return false, err
	}

	stmt := dropAndRecreateStatement(name)
	var dropped bool
	err := withRetry(ctx, policy, op, func(ctx context.Context) error {
		dropped = false
		return db.QueryRowContext(ctx, stmt).Scan(&dropped)
	})
	if err != nil {
		return false, err
	}
	return dropped, nil
}

// DatabaseFiles returns the physical file inventory of the named database
// in file id order, as registered in sys.master_files.
func (db *MSSQLKit) DatabaseFiles(ctx context.Context, name DatabaseName) ([]DatabaseFile, error) {
	const op = "DatabaseFiles"
	if err := requireName(name, op); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, filesStatement(name))
	if err != nil {
		return nil, wrapError(err, op)
	}
	defer rows.Close()

	var files []DatabaseFile
	for rows.Next() {
		var f DatabaseFile
		if err := rows.Scan((*string)(&f.Kind), &f.Path); err != nil {
			return nil, wrapError(err, op)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, op)
	}

	if len(files) == 0 {
		return nil, &Error{
			Code:    CodeNotFound,
			Message: "database has no registered files",
			Op:      op,
		}
	}
	return files, nil
}

// DetachDatabase removes the database from the server's registry while
// leaving its files on disk, returning the physical layout captured just
// before the detach. The database is forced to single user mode first so
// straggler sessions cannot block the detach. AttachDatabase with the
// returned layout restores it, possibly after the caller relocates the
// files.
func (db *MSSQLKit) DetachDatabase(ctx context.Context, name DatabaseName, policy RetryPolicy) (DatabaseLayout, error) {
	const op = "DetachDatabase"
	if err := requireName(name, op); err != nil {
		return DatabaseLayout{}, err
	}

	// File paths must be read while the catalog is still registered, they
	// disappear from sys.master_files once the detach succeeds.
	files, err := db.DatabaseFiles(ctx, name)
	if err != nil {
		return DatabaseLayout{}, err
	}

	stmt := detachStatement(name)
	if err := withRetry(ctx, policy, op, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}); err != nil {
		return DatabaseLayout{}, err
	}

	return DatabaseLayout{Name: name, Files: files}, nil
}

// AttachDatabase registers the files in layout as a database and returns
// the name it was attached under. That name prefers the catalog named by
// the connection string this handle was opened from, when it names a real
// target rather than the admin database, and falls back to layout.Name.
// Attach failures are usually not transient (missing or unreadable files),
// so there is no retry.
func (db *MSSQLKit) AttachDatabase(ctx context.Context, layout DatabaseLayout) (DatabaseName, error) {
	const op = "AttachDatabase"
	if err := layout.validate(op); err != nil {
		return DatabaseName{}, err
	}

	name := layout.Name
	if db.target != "" && !strings.EqualFold(db.target, AdminDatabase) {
		resolved, err := NormalizeDatabaseName(db.target)
		if err != nil {
			return DatabaseName{}, err
		}
		name = resolved
	}
	if err := requireName(name, op); err != nil {
		return DatabaseName{}, err
	}

	if _, err := db.ExecContext(ctx, attachStatement(name, layout.Files)); err != nil {
		return DatabaseName{}, wrapError(err, op)
	}
	return name, nil
}
