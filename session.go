package mssqlkit

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Session pairs a database handle with an optional transaction. Commands
// issued through the session target the transaction while one is open and
// the plain handle otherwise, so the same code works inside and outside a
// transaction.
type Session struct {
	db *MSSQLKit
	tx *Tx
}

// NewSession creates a session with no open transaction
func (db *MSSQLKit) NewSession() *Session {
	return &Session{db: db}
}

// Ensure Session implements IDB
var _ IDB = (*Session)(nil)

// handle returns the transaction when one is open, the database otherwise
func (s *Session) handle() IDB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// InTransaction reports whether the session holds an open transaction
func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// Begin opens a transaction on the session. A no-op when the session
// already holds one.
func (s *Session) Begin(ctx context.Context) error {
	return s.BeginWithOptions(ctx, DefaultTxOptions())
}

// BeginWithOptions opens a transaction with custom options. A no-op when
// the session already holds one.
func (s *Session) BeginWithOptions(ctx context.Context, opts TxOptions) error {
	if s.tx != nil {
		return nil
	}

	tx, err := s.db.BeginWithOptions(ctx, opts)
	if err != nil {
		return err
	}

	s.tx = tx
	return nil
}

// Commit commits the session's transaction, leaving the session usable
// without one. A no-op when no transaction is open.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}

	err := s.tx.Commit()
	s.tx = nil
	return err
}

// Rollback aborts the session's transaction, leaving the session usable
// without one. A no-op when no transaction is open.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}

	err := s.tx.Rollback()
	s.tx = nil
	return err
}

// Close rolls back any transaction still open. The underlying database
// handle stays open, it belongs to the caller.
func (s *Session) Close() error {
	return s.Rollback()
}

// MSSQLKit returns the parent database
func (s *Session) MSSQLKit() *MSSQLKit {
	return s.db
}

// Tx returns the open transaction, or nil when the session has none
func (s *Session) Tx() *Tx {
	return s.tx
}

// The IDB surface forwards to whichever handle is active.

func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.handle().ExecContext(ctx, query, args...)
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.handle().QueryContext(ctx, query, args...)
}

func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.handle().QueryRowContext(ctx, query, args...)
}

func (s *Session) Dialect() schema.Dialect {
	return s.handle().Dialect()
}

func (s *Session) NewValues(model any) *bun.ValuesQuery {
	return s.handle().NewValues(model)
}

func (s *Session) NewSelect() *bun.SelectQuery {
	return s.handle().NewSelect()
}

func (s *Session) NewInsert() *bun.InsertQuery {
	return s.handle().NewInsert()
}

func (s *Session) NewUpdate() *bun.UpdateQuery {
	return s.handle().NewUpdate()
}

func (s *Session) NewDelete() *bun.DeleteQuery {
	return s.handle().NewDelete()
}

func (s *Session) NewMerge() *bun.MergeQuery {
	return s.handle().NewMerge()
}

func (s *Session) NewRaw(query string, args ...any) *bun.RawQuery {
	return s.handle().NewRaw(query, args...)
}

func (s *Session) NewCreateTable() *bun.CreateTableQuery {
	return s.handle().NewCreateTable()
}

func (s *Session) NewDropTable() *bun.DropTableQuery {
	return s.handle().NewDropTable()
}

func (s *Session) NewCreateIndex() *bun.CreateIndexQuery {
	return s.handle().NewCreateIndex()
}

func (s *Session) NewDropIndex() *bun.DropIndexQuery {
	return s.handle().NewDropIndex()
}

func (s *Session) NewTruncateTable() *bun.TruncateTableQuery {
	return s.handle().NewTruncateTable()
}

func (s *Session) NewAddColumn() *bun.AddColumnQuery {
	return s.handle().NewAddColumn()
}

func (s *Session) NewDropColumn() *bun.DropColumnQuery {
	return s.handle().NewDropColumn()
}

func (s *Session) BeginTx(ctx context.Context, opts *sql.TxOptions) (bun.Tx, error) {
	return s.handle().BeginTx(ctx, opts)
}

func (s *Session) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return s.handle().RunInTx(ctx, opts, f)
}
