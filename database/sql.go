package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"reflect"

	"github.com/lib/pq"

	"github.com/Konsultn-Engineering/qbuild/cache"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/utils"
)

// SqlDatabase implements Database for *sql.DB. Statements can be kept
// prepared in a StatementCache keyed by their rebound text.
type SqlDatabase struct {
	db      *sql.DB
	dialect dialect.Dialect
	stmts   *cache.StatementCache
}

type SqlOption func(*SqlDatabase)

// WithStatementCache keeps up to size prepared statements.
func WithStatementCache(size int) SqlOption {
	return func(s *SqlDatabase) { s.stmts = cache.NewStatementCache(size) }
}

func NewSqlDatabase(db *sql.DB, d dialect.Dialect, opts ...SqlOption) *SqlDatabase {
	s := &SqlDatabase{db: db, dialect: d}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

func (s *SqlDatabase) Dialect() dialect.Dialect { return s.dialect }

func (s *SqlDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	args = s.convertArgs(args)

	var (
		rows *sql.Rows
		err  error
	)
	if s.stmts != nil {
		stmt, perr := s.stmts.GetOrPrepare(ctx, utils.U64(query), s.db, query)
		if perr != nil {
			return nil, perr
		}
		rows, err = stmt.QueryContext(ctx, args...)
	} else {
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (s *SqlDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	args = s.convertArgs(args)
	if s.stmts != nil {
		stmt, err := s.stmts.GetOrPrepare(ctx, utils.U64(query), s.db, query)
		if err != nil {
			return nil, err
		}
		return stmt.ExecContext(ctx, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqlDatabase) Close() error {
	if s.stmts != nil {
		_ = s.stmts.Close()
	}
	return s.db.Close()
}

// SetMaxOpenConns sets the maximum number of open connections.
func (s *SqlDatabase) SetMaxOpenConns(n int) { s.db.SetMaxOpenConns(n) }

// SetMaxIdleConns sets the maximum number of idle connections.
func (s *SqlDatabase) SetMaxIdleConns(n int) { s.db.SetMaxIdleConns(n) }

// convertArgs wraps slice parameters in pq.Array for lib/pq, which has no
// native array encoding.
func (s *SqlDatabase) convertArgs(args []any) []any {
	if s.dialect == nil || s.dialect.Name() != "postgres" {
		return args
	}
	var out []any
	for i, a := range args {
		if !isArray(a) {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i] = pq.Array(a)
	}
	if out == nil {
		return args
	}
	return out
}

func isArray(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(driver.Valuer); ok {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

func (s *SqlRows) Next() bool                 { return s.rows.Next() }
func (s *SqlRows) Scan(dest ...any) error     { return s.rows.Scan(dest...) }
func (s *SqlRows) Close() error               { return s.rows.Close() }
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }
func (s *SqlRows) Err() error                 { return s.rows.Err() }

// Values scans the current row into fresh values. []byte columns are
// returned as strings.
func (s *SqlRows) Values() ([]any, error) {
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

var _ Database = (*SqlDatabase)(nil)
