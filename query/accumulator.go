package query

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/database"
)

// Querier runs a statement and returns its rows. *database.Executor
// satisfies it.
type Querier interface {
	Query(ctx context.Context, stmt ast.Node) (database.Rows, error)
}

// Accumulator collects tables, joins and conditions for a query over a
// base row before it is turned into a SELECT. Unlike statements it is
// mutable, and every change drops the memoized result ids.
type Accumulator struct {
	base   *ast.Row
	tables []ast.Source
	joins  []*ast.Join
	where  []ast.Expr
	order  []any
	limit  *int
	offset int

	ids    []int64
	cached bool
}

func NewAccumulator(base *ast.Row) *Accumulator {
	return &Accumulator{base: base}
}

func (a *Accumulator) Base() *ast.Row { return a.base }

func (a *Accumulator) invalidate() {
	a.ids = nil
	a.cached = false
}

// AddTable adds src to the FROM list. Adding the base row or a source that
// is already present is a no-op.
func (a *Accumulator) AddTable(src ast.Source) {
	if src == nil || src == ast.Source(a.base) {
		return
	}
	for _, t := range a.tables {
		if t == src {
			return
		}
	}
	a.tables = append(a.tables, src)
	a.invalidate()
}

func (a *Accumulator) AddJoin(j *ast.Join) {
	if j == nil {
		return
	}
	a.joins = append(a.joins, j)
	a.invalidate()
}

// AddWhere ANDs conds into the filter.
func (a *Accumulator) AddWhere(conds ...ast.Expr) {
	for _, c := range conds {
		if c != nil {
			a.where = append(a.where, c)
		}
	}
	a.invalidate()
}

func (a *Accumulator) SetOrder(items ...any) {
	a.order = append([]any(nil), items...)
	a.invalidate()
}

func (a *Accumulator) SetLimit(n int) {
	a.limit = &n
	a.invalidate()
}

func (a *Accumulator) SetOffset(n int) {
	a.offset = n
	a.invalidate()
}

// Where returns the accumulated filter, or nil when there is none.
func (a *Accumulator) Where() ast.Expr {
	switch len(a.where) {
	case 0:
		return nil
	case 1:
		return a.where[0]
	default:
		return ast.And(a.where[0], a.where[1], a.where[2:]...)
	}
}

// Select builds the statement selecting items, or the base id when items
// is empty. The base row always comes first in FROM.
func (a *Accumulator) Select(items ...any) *ast.Select {
	if len(items) == 0 {
		items = []any{a.base.C("id")}
	}
	from := append([]ast.Source{a.base}, a.tables...)
	s := ast.NewSelect(items...).From(from...).Join(a.joins...)
	if cond := a.Where(); cond != nil {
		s = s.Where(cond)
	}
	if len(a.order) > 0 {
		s = s.OrderBy(a.order...)
	}
	if a.limit != nil {
		s = s.Limit(*a.limit)
	}
	if a.offset > 0 {
		s = s.Offset(a.offset)
	}
	return s
}

// SetIDs primes the result cache, as when the ids are already known.
func (a *Accumulator) SetIDs(ids []int64) {
	a.ids = append([]int64(nil), ids...)
	a.cached = true
}

// IDs runs the id query once and returns the cached result until the
// accumulator changes.
func (a *Accumulator) IDs(ctx context.Context, q Querier) ([]int64, error) {
	if a.cached {
		return append([]int64(nil), a.ids...), nil
	}

	rows, err := q.Query(ctx, a.Select())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	a.ids, a.cached = ids, true
	return append([]int64(nil), ids...), nil
}
