package mssqlkit

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mssqldialect"

	"github.com/fernandezvara/mssqlkit/hooks"
)

// AdminDatabase is the catalog administrative statements run against.
// CREATE DATABASE, DROP DATABASE and detach/attach all refuse to run from
// a session whose current database is the one being operated on.
const AdminDatabase = "master"

// MSSQLKit wraps bun.DB with database administration functionality
type MSSQLKit struct {
	*bun.DB
	config Config
	target string
}

// New creates a new database connection with the given configuration
func New(cfg Config) (*MSSQLKit, error) {
	// Apply defaults for zero values
	cfg.applyDefaults()

	if cfg.URL == "" {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "database URL is required",
			Op:      "New",
		}
	}

	params, err := msdsn.Parse(cfg.URL)
	if err != nil {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "invalid connection string",
			Op:      "New",
			Cause:   err,
		}
	}

	return open("New", cfg, params, params.Database)
}

// NewAdmin creates a connection to the server named by cfg.URL, pointed at
// the admin database rather than the catalog the URL names. Lifecycle
// operations (create, drop, detach, attach, kill) must run from such a
// handle. The catalog the URL originally named is remembered, AttachDatabase
// uses it to resolve the attached name, see Target.
func NewAdmin(cfg Config) (*MSSQLKit, error) {
	cfg.applyDefaults()

	if cfg.URL == "" {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "database URL is required",
			Op:      "NewAdmin",
		}
	}

	params, err := msdsn.Parse(cfg.URL)
	if err != nil {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "invalid connection string",
			Op:      "NewAdmin",
			Cause:   err,
		}
	}

	target := params.Database
	params.Database = AdminDatabase

	return open("NewAdmin", cfg, params, target)
}

// open wires driver, pool, dialect and hooks around an already parsed
// connection configuration. Mutating params instead of re-rendering the URL
// keeps settings the URL form cannot carry.
func open(op string, cfg Config, params msdsn.Config, target string) (*MSSQLKit, error) {
	params.DialTimeout = cfg.DialTimeout
	if cfg.ConnTimeout > 0 {
		params.ConnTimeout = cfg.ConnTimeout
	}

	connector := mssql.NewConnectorConfig(params)

	// Open sql.DB
	sqlDB := sql.OpenDB(connector)

	// Configure pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Create bun.DB
	bunDB := bun.NewDB(sqlDB, mssqldialect.New())

	db := &MSSQLKit{
		DB:     bunDB,
		config: cfg,
		target: target,
	}

	// Add observability hooks
	if cfg.Logger != nil && (cfg.LogQueries || cfg.LogSlowQueries > 0) {
		bunDB.AddQueryHook(hooks.NewLoggerHook(cfg.Logger, cfg.LogQueries, cfg.LogSlowQueries))
	}
	if cfg.MetricsRegistry != nil {
		hook, err := hooks.NewMetricsHook(cfg.MetricsRegistry)
		if err != nil {
			return nil, fmt.Errorf("mssqlkit: failed to create metrics hook: %w", err)
		}
		bunDB.AddQueryHook(hook)
	}
	if cfg.Tracer != nil {
		bunDB.AddQueryHook(hooks.NewTracingHook(cfg.Tracer))
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := bunDB.PingContext(ctx); err != nil {
		return nil, &Error{
			Code:    CodeConnectionFailed,
			Message: "failed to connect to database",
			Op:      op,
			Cause:   err,
		}
	}

	return db, nil
}

// Close closes the database connection
func (db *MSSQLKit) Close() error {
	return db.DB.Close()
}

// Ping verifies the database connection is alive
func (db *MSSQLKit) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return wrapError(err, "Ping")
	}
	return nil
}

// Stats returns connection pool statistics
func (db *MSSQLKit) Stats() sql.DBStats {
	return db.DB.Stats()
}

// Bun returns the underlying bun.DB for direct access
func (db *MSSQLKit) Bun() *bun.DB {
	return db.DB
}

// Config returns the current configuration
func (db *MSSQLKit) Config() Config {
	return db.config
}

// Target returns the catalog the connection string named when the handle
// was opened, which for NewAdmin differs from the catalog the handle is
// connected to. Empty when the connection string named none.
func (db *MSSQLKit) Target() string {
	return db.target
}

// IDB is the interface for both DB and Tx to enable function reuse
type IDB interface {
	bun.IDB
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
	NewRaw(query string, args ...any) *bun.RawQuery
	NewCreateTable() *bun.CreateTableQuery
	NewDropTable() *bun.DropTableQuery
	NewCreateIndex() *bun.CreateIndexQuery
	NewDropIndex() *bun.DropIndexQuery
	NewTruncateTable() *bun.TruncateTableQuery
	NewAddColumn() *bun.AddColumnQuery
	NewDropColumn() *bun.DropColumnQuery
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure DB implements IDB
var _ IDB = (*MSSQLKit)(nil)
