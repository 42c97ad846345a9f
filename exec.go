package mssqlkit

import (
	"context"
	"database/sql"
)

// ExecuteNonQuery runs a statement that returns no rows and reports how
// many rows it affected
func ExecuteNonQuery(ctx context.Context, db IDB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapError(err, "ExecuteNonQuery")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(err, "ExecuteNonQuery")
	}

	return affected, nil
}

// ExecuteScalar runs a query and returns the first column of its first row
// scanned into T
func ExecuteScalar[T any](ctx context.Context, db IDB, query string, args ...any) (T, error) {
	var value T

	err := db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		var zero T
		return zero, wrapError(err, "ExecuteScalar")
	}

	return value, nil
}

// ExecuteReader runs a query and hands back the raw row stream. The caller
// owns closing it.
func ExecuteReader(ctx context.Context, db IDB, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "ExecuteReader")
	}

	return rows, nil
}

// Query runs a raw query and scans every row into a slice of T through the
// bun mapper, so column names and struct tags line up the usual way
func Query[T any](ctx context.Context, db IDB, query string, args ...any) ([]T, error) {
	var models []T

	err := db.NewRaw(query, args...).Scan(ctx, &models)
	if err != nil {
		return nil, wrapError(err, "Query")
	}

	return models, nil
}

// QueryOne runs a raw query expected to produce a single row
func QueryOne[T any](ctx context.Context, db IDB, query string, args ...any) (T, error) {
	var model T

	err := db.NewRaw(query, args...).Scan(ctx, &model)
	if err != nil {
		var zero T
		return zero, wrapError(err, "QueryOne")
	}

	return model, nil
}
