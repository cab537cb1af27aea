package database

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
	"github.com/Konsultn-Engineering/qbuild/visitor"
)

// Prepared is a statement compiled and rebound for one dialect.
type Prepared struct {
	ID   ulid.ULID
	SQL  string
	Args []any
}

// ExecResult reports a statement run through Exec.
type ExecResult struct {
	ID           ulid.ULID
	RowsAffected int64
}

// Executor compiles statements and runs them on a Database.
type Executor struct {
	db   Database
	opts []visitor.Option

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewExecutor(db Database, opts ...visitor.Option) *Executor {
	return &Executor{
		db:      db,
		opts:    opts,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (e *Executor) Database() Database { return e.db }

func (e *Executor) nextID() (ulid.ULID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), e.entropy)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("failed to generate execution id: %w", err)
	}
	return id, nil
}

// Prepare compiles stmt and rebinds it to the database's placeholders.
func (e *Executor) Prepare(stmt ast.Node) (*Prepared, error) {
	sql, args, err := visitor.Compile(stmt, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	sql, args, err = dialect.Rebind(e.db.Dialect(), sql, args)
	if err != nil {
		return nil, fmt.Errorf("rebind: %w", err)
	}
	id, err := e.nextID()
	if err != nil {
		return nil, err
	}
	return &Prepared{ID: id, SQL: sql, Args: args}, nil
}

// Query runs a statement returning rows.
func (e *Executor) Query(ctx context.Context, stmt ast.Node) (Rows, error) {
	p, err := e.Prepare(stmt)
	if err != nil {
		return nil, err
	}
	debug.Debug("query", "exec_id", p.ID.String(), "sql", p.SQL, "params", len(p.Args))

	rows, err := e.db.QueryContext(ctx, p.SQL, p.Args...)
	if err != nil {
		debug.Error("query failed", "exec_id", p.ID.String(), "error", err)
		return nil, fmt.Errorf("query %s: %w", p.ID, err)
	}
	return rows, nil
}

// Exec runs a statement for its side effects.
func (e *Executor) Exec(ctx context.Context, stmt ast.Node) (*ExecResult, error) {
	p, err := e.Prepare(stmt)
	if err != nil {
		return nil, err
	}
	debug.Debug("exec", "exec_id", p.ID.String(), "sql", p.SQL, "params", len(p.Args))

	res, err := e.db.ExecContext(ctx, p.SQL, p.Args...)
	if err != nil {
		debug.Error("exec failed", "exec_id", p.ID.String(), "error", err)
		return nil, fmt.Errorf("exec %s: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		n = -1
	}
	return &ExecResult{ID: p.ID, RowsAffected: n}, nil
}

// QueryMaps runs stmt and returns every row keyed by column name.
func (e *Executor) QueryMaps(ctx context.Context, stmt ast.Node) ([]map[string]any, error) {
	rows, err := e.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
