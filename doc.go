/*
Package mssqlkit provides a SQL Server administration layer for Go applications.

MSSQLKit wraps Bun and the go-mssqldb driver with additional features:
  - Database lifecycle operations (create, drop, recreate, detach, attach)
  - Identifier validation with reserved keyword escaping
  - Bounded retry policies for lock-contended administrative statements
  - Connection pooling with full configuration
  - Transaction support with auto commit/rollback and savepoints
  - Sessions pairing a handle with an optional transaction
  - Rich error handling with SQL Server error number parsing
  - Configurable observability (logging, metrics, tracing)
  - Health check utilities

# Basic Usage

Administrative statements must run from the admin database, never from the
database they operate on. NewAdmin redirects the connection there and
remembers the catalog the URL named:

	cfg := mssqlkit.DefaultConfig(os.Getenv("DATABASE_URL"))
	cfg.Logger = slog.Default()
	cfg.LogSlowQueries = 100 * time.Millisecond

	db, err := mssqlkit.NewAdmin(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	defer db.Close()

# Database Lifecycle

Names go through validation once and are safe to interpolate afterwards:

	name, err := mssqlkit.NormalizeDatabaseName("myapp_test")
	if err != nil {
	    log.Fatal(err)
	}

	// Guaranteed-existing, guaranteed-empty database for a test fixture
	dropped, err := db.DropAndRecreateDatabase(ctx, name, mssqlkit.DefaultRetryPolicy())

	// Create only when absent, drop only when present
	created, err := db.TryCreateDatabase(ctx, name, mssqlkit.DefaultRetryPolicy())
	removed, err := db.TryDropDatabase(ctx, name, mssqlkit.DefaultRetryPolicy())

Server-side system processes can hold a database briefly after its user
sessions are killed, so the destructive operations run under a retry policy:

	policy := mssqlkit.RetryPolicy{
	    Retries: 5,
	    Delay:   500 * time.Millisecond,
	    OnFailure: func(err error) {
	        slog.Warn("drop still blocked", "error", err)
	    },
	}
	_, err = db.TryDropDatabase(ctx, name, policy)

# Detach and Attach

	layout, err := db.DetachDatabase(ctx, name, mssqlkit.DefaultRetryPolicy())
	// ... relocate layout.Files on disk if needed ...
	attached, err := db.AttachDatabase(ctx, layout)

# Sessions

A session runs commands on its transaction while one is open and directly
on the handle otherwise:

	s := db.NewSession()
	defer s.Close()

	if err := s.Begin(ctx); err != nil {
	    return err
	}
	if _, err := mssqlkit.ExecuteNonQuery(ctx, s, "UPDATE jobs SET state = 'done' WHERE id = ?", id); err != nil {
	    _ = s.Rollback()
	    return err
	}
	return s.Commit()

# Transactions

Callback-based (auto commit/rollback):

	err := db.Transaction(ctx, func(tx *mssqlkit.Tx) error {
	    _, err := mssqlkit.ExecuteNonQuery(ctx, tx, "DELETE FROM audit WHERE age > 90")
	    return err
	})

Nested transactions use SAVE TRANSACTION savepoints, a failing inner
callback rolls back only the inner work.

# Error Handling

MSSQLKit provides rich error types:

	if _, err := db.TryDropDatabase(ctx, name, policy); err != nil {
	    if mssqlkit.IsDatabaseInUse(err) {
	        // sessions or system processes still hold the database
	    }

	    var kitErr *mssqlkit.Error
	    if errors.As(err, &kitErr) {
	        fmt.Println(kitErr.Code)   // DATABASE_IN_USE
	        fmt.Println(kitErr.Number) // 3702
	        fmt.Println(kitErr.Server)
	    }
	}
*/
package mssqlkit
