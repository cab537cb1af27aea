// Package database runs compiled statements. Drivers are wrapped behind
// Database; Executor compiles nodes, rebinds placeholders for the driver's
// dialect and logs every execution.
package database

import (
	"context"
	"errors"

	"github.com/Konsultn-Engineering/qbuild/dialect"
)

var ErrNotSupported = errors.New("operation not supported by driver")

// Database is a driver connection speaking its dialect's placeholder style.
type Database interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (Result, error)
	PingContext(ctx context.Context) error
	Close() error
	Dialect() dialect.Dialect
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Values() ([]any, error)
	Err() error
}

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
