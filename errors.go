package mssqlkit

import (
	"context"
	"errors"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
)

// ErrorCode represents a database error classification
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeDuplicate          ErrorCode = "DUPLICATE"
	CodeInvalidIdentifier  ErrorCode = "INVALID_IDENTIFIER"
	CodeInvalidRetryPolicy ErrorCode = "INVALID_RETRY_POLICY"
	CodeInvalidLayout      ErrorCode = "INVALID_LAYOUT"
	CodeDatabaseInUse      ErrorCode = "DATABASE_IN_USE"
	CodeFileAccess         ErrorCode = "FILE_ACCESS"
	CodePermissionDenied   ErrorCode = "PERMISSION_DENIED"
	CodeDeadlock           ErrorCode = "DEADLOCK"
	CodeSnapshotConflict   ErrorCode = "SNAPSHOT_CONFLICT"
	CodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	CodeTimeout            ErrorCode = "TIMEOUT"
	CodeCancelled          ErrorCode = "CANCELLED"
	CodeUnknown            ErrorCode = "UNKNOWN"
)

// Sentinel errors for quick checks
var (
	ErrNotFound           = errors.New("mssqlkit: database not found")
	ErrDuplicate          = errors.New("mssqlkit: database already exists")
	ErrInvalidIdentifier  = errors.New("mssqlkit: invalid database identifier")
	ErrInvalidRetryPolicy = errors.New("mssqlkit: invalid retry policy")
	ErrInvalidLayout      = errors.New("mssqlkit: invalid database layout")
	ErrDatabaseInUse      = errors.New("mssqlkit: database in use")
	ErrFileAccess         = errors.New("mssqlkit: database file inaccessible")
	ErrPermissionDenied   = errors.New("mssqlkit: permission denied")
	ErrDeadlock           = errors.New("mssqlkit: deadlock victim")
	ErrSnapshotConflict   = errors.New("mssqlkit: snapshot isolation conflict")
	ErrConnection         = errors.New("mssqlkit: connection failed")
	ErrTimeout            = errors.New("mssqlkit: operation timeout")
	ErrCancelled          = errors.New("mssqlkit: operation cancelled")
)

// Error is a rich database error with context
type Error struct {
	Code     ErrorCode // Error classification
	Message  string    // Human-readable message
	Op       string    // Operation that failed (e.g., "TryCreateDatabase", "DetachDatabase")
	Number   int32     // SQL Server error number if known
	Severity uint8     // SQL Server severity class
	State    uint8     // SQL Server error state
	Server   string    // Name of the server that raised the error
	Proc     string    // Stored procedure that raised the error
	Line     int32     // Line number within the failing batch
	Query    string    // Query that failed (may be empty for security)
	Cause    error     // Underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("mssqlkit: %s", e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("mssqlkit.%s: %s", e.Op, e.Message)
	}
	if e.Number != 0 {
		msg += fmt.Sprintf(" (number: %d)", e.Number)
	}
	if e.Proc != "" {
		msg += fmt.Sprintf(" (proc: %s)", e.Proc)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for sentinel error matching
func (e *Error) Is(target error) bool {
	switch e.Code {
	case CodeNotFound:
		return target == ErrNotFound
	case CodeDuplicate:
		return target == ErrDuplicate
	case CodeInvalidIdentifier:
		return target == ErrInvalidIdentifier
	case CodeInvalidRetryPolicy:
		return target == ErrInvalidRetryPolicy
	case CodeInvalidLayout:
		return target == ErrInvalidLayout
	case CodeDatabaseInUse:
		return target == ErrDatabaseInUse
	case CodeFileAccess:
		return target == ErrFileAccess
	case CodePermissionDenied:
		return target == ErrPermissionDenied
	case CodeDeadlock:
		return target == ErrDeadlock
	case CodeSnapshotConflict:
		return target == ErrSnapshotConflict
	case CodeConnectionFailed:
		return target == ErrConnection
	case CodeTimeout:
		return target == ErrTimeout
	case CodeCancelled:
		return target == ErrCancelled
	}
	return false
}

// wrapError converts a raw error to a rich Error
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}

	// Already wrapped
	var kitErr *Error
	if errors.As(err, &kitErr) {
		return err
	}

	// Caller cancellation takes precedence over driver errors
	if errors.Is(err, context.Canceled) {
		return &Error{
			Code:    CodeCancelled,
			Message: "operation cancelled",
			Op:      op,
			Cause:   err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Code:    CodeTimeout,
			Message: "operation deadline exceeded",
			Op:      op,
			Cause:   err,
		}
	}

	// Check for "no rows" error
	if err.Error() == "sql: no rows in result set" {
		return &Error{
			Code:    CodeNotFound,
			Message: "record not found",
			Op:      op,
			Cause:   err,
		}
	}

	// SQL Server specific errors
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return wrapMssqlError(sqlErr, op)
	}

	// Generic wrapping
	return &Error{
		Code:    CodeUnknown,
		Message: err.Error(),
		Op:      op,
		Cause:   err,
	}
}

// wrapMssqlError converts SQL Server engine errors to rich errors
func wrapMssqlError(sqlErr mssql.Error, op string) *Error {
	e := &Error{
		Op:       op,
		Number:   sqlErr.Number,
		Severity: sqlErr.Class,
		State:    sqlErr.State,
		Server:   sqlErr.ServerName,
		Proc:     sqlErr.ProcName,
		Line:     sqlErr.LineNo,
		Cause:    sqlErr,
	}

	// Map SQL Server error numbers
	// See: https://learn.microsoft.com/sql/relational-databases/errors-events/database-engine-events-and-errors
	switch sqlErr.Number {
	case 1801: // database already exists
		e.Code = CodeDuplicate
		e.Message = "database already exists"
	case 2714: // there is already an object named X
		e.Code = CodeDuplicate
		e.Message = "object already exists"
	case 2601, 2627: // duplicate key
		e.Code = CodeDuplicate
		e.Message = "duplicate key value violates unique constraint"
	case 911: // database does not exist
		e.Code = CodeNotFound
		e.Message = "database does not exist"
	case 3701: // cannot drop, does not exist or no permission
		e.Code = CodeNotFound
		e.Message = "cannot drop database because it does not exist"
	case 4060: // cannot open database requested by the login
		e.Code = CodeNotFound
		e.Message = "cannot open database"
	case 3702: // cannot drop while in use
		e.Code = CodeDatabaseInUse
		e.Message = "database is currently in use"
	case 5030: // could not be exclusively locked
		e.Code = CodeDatabaseInUse
		e.Message = "database could not be exclusively locked"
	case 5061: // ALTER DATABASE failed, lock not granted
		e.Code = CodeDatabaseInUse
		e.Message = "database is locked by a concurrent operation"
	case 5064: // state change refused while a session is connected
		e.Code = CodeDatabaseInUse
		e.Message = "database state cannot change while sessions are connected"
	case 1205: // deadlock victim
		e.Code = CodeDeadlock
		e.Message = "transaction was chosen as deadlock victim, retry"
	case 3960, 3961: // snapshot isolation conflicts
		e.Code = CodeSnapshotConflict
		e.Message = "snapshot isolation conflict, retry transaction"
	case 1222: // lock request timeout
		e.Code = CodeTimeout
		e.Message = "lock request timeout exceeded"
	case 1802: // CREATE DATABASE failed on its files
		e.Code = CodeFileAccess
		e.Message = "create database failed while creating its files"
	case 1832: // could not attach file as database
		e.Code = CodeFileAccess
		e.Message = "database file could not be attached"
	case 5105, 5120, 5133: // file activation, open and lookup failures
		e.Code = CodeFileAccess
		e.Message = "database file could not be opened"
	case 229, 230, 262, 297: // permission denials
		e.Code = CodePermissionDenied
		e.Message = "permission denied"
	case 15247: // user does not have permission
		e.Code = CodePermissionDenied
		e.Message = "user does not have permission to perform this action"
	case 18452, 18456: // login failed
		e.Code = CodeConnectionFailed
		e.Message = "login failed"
	case 4064: // cannot open user default database
		e.Code = CodeConnectionFailed
		e.Message = "cannot open user default database"
	default:
		e.Code = CodeUnknown
		e.Message = sqlErr.Message
	}

	return e
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if error is an already-exists error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsInvalidIdentifier checks if error came from identifier validation
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsInvalidRetryPolicy checks if error came from retry policy validation
func IsInvalidRetryPolicy(err error) bool {
	return errors.Is(err, ErrInvalidRetryPolicy)
}

// IsInvalidLayout checks if error came from layout validation
func IsInvalidLayout(err error) bool {
	return errors.Is(err, ErrInvalidLayout)
}

// IsDatabaseInUse checks if error means the database is held by other
// sessions or a concurrent administrative operation
func IsDatabaseInUse(err error) bool {
	return errors.Is(err, ErrDatabaseInUse)
}

// IsFileAccess checks if error is a physical file access error
func IsFileAccess(err error) bool {
	return errors.Is(err, ErrFileAccess)
}

// IsPermissionDenied checks if error is a permission error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsConnection checks if error is a connection error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsTimeout checks if error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if error reports caller cancellation
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsRetryable checks if the error is retryable (in use, deadlock, snapshot conflict)
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDatabaseInUse) || errors.Is(err, ErrDeadlock) || errors.Is(err, ErrSnapshotConflict)
}

// GetErrorCode extracts the error code if it's a mssqlkit error
func GetErrorCode(err error) (ErrorCode, bool) {
	var kitErr *Error
	if errors.As(err, &kitErr) {
		return kitErr.Code, true
	}
	return "", false
}

// GetNumber extracts the SQL Server error number if available
func GetNumber(err error) (int32, bool) {
	var kitErr *Error
	if errors.As(err, &kitErr) && kitErr.Number != 0 {
		return kitErr.Number, true
	}
	return 0, false
}

// GetSeverity extracts the SQL Server severity class if available
func GetSeverity(err error) (uint8, bool) {
	var kitErr *Error
	if errors.As(err, &kitErr) && kitErr.Severity != 0 {
		return kitErr.Severity, true
	}
	return 0, false
}

// GetServer extracts the reporting server name if available
func GetServer(err error) (string, bool) {
	var kitErr *Error
	if errors.As(err, &kitErr) && kitErr.Server != "" {
		return kitErr.Server, true
	}
	return "", false
}

// GetProc extracts the failing stored procedure name if available
func GetProc(err error) (string, bool) {
	var kitErr *Error
	if errors.As(err, &kitErr) && kitErr.Proc != "" {
		return kitErr.Proc, true
	}
	return "", false
}

// QueryResult wraps a query result with error context for chainable error handling.
// It provides a way to add meaningful context to errors without depending on driver internals.
type QueryResult[T any] struct {
	result T
	err    error
	op     string
}

// Err returns the wrapped error with enhanced context.
// If there was no error, it returns nil.
func (qr *QueryResult[T]) Err() error {
	return wrapError(qr.err, qr.op)
}

// Unwrap returns the result and the wrapped error.
// Use this when you need both the result and the error.
func (qr *QueryResult[T]) Unwrap() (T, error) {
	return qr.result, wrapError(qr.err, qr.op)
}

// Result returns only the result value.
// Use Err() to check for errors first.
func (qr *QueryResult[T]) Result() T {
	return qr.result
}

// HasError returns true if there was an error.
func (qr *QueryResult[T]) HasError() bool {
	return qr.err != nil
}

// WithErr wraps a result and error with operation context for enhanced error handling.
// This function allows chainable error handling with meaningful context.
//
// Usage:
//
//	// For operations that return (value, error)
//	created, err := mssqlkit.WithErr(db.TryCreateDatabase(ctx, name, policy), "SetUpTenant").Unwrap()
//
//	// For operations that return only error
//	err := mssqlkit.WithErr1(db.KillDatabaseConnections(ctx, name), "Quiesce").Err()
//
//	// Check error directly
//	if mssqlkit.WithErr(db.DatabaseExists(ctx, name), "Probe").HasError() {
//	    // handle error
//	}
func WithErr[T any](result T, err error, op string) *QueryResult[T] {
	return &QueryResult[T]{
		result: result,
		err:    err,
		op:     op,
	}
}

// WithErr1 is a convenience function for operations that return only an error.
//
// Usage:
//
//	err := mssqlkit.WithErr1(db.SetSingleUser(ctx, name), "Quiesce").Err()
func WithErr1(err error, op string) *QueryResult[struct{}] {
	return &QueryResult[struct{}]{
		result: struct{}{},
		err:    err,
		op:     op,
	}
}
