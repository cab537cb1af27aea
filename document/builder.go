package document

import (
	"fmt"
	"sort"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/filter"
	"github.com/Konsultn-Engineering/qbuild/schema"
)

// Builder turns documents into statements. Table entries are model names
// converted with Naming.
type Builder struct {
	Naming schema.TableNaming
}

// scope is the per-build state: one row per alias.
type scope struct {
	doc  *Document
	rows map[string]*ast.Row
	env  filter.Env
}

// Build creates the statement described by doc. Values in params override
// the document's own params.
func (b Builder) Build(doc *Document, params map[string]any) (ast.Statement, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	s, err := b.newScope(doc, params)
	if err != nil {
		return nil, err
	}

	switch doc.Kind {
	case KindSelect:
		return s.selectStatement()
	case KindInsert:
		return s.insertStatement()
	case KindUpdate:
		return s.updateStatement()
	default:
		return s.deleteStatement()
	}
}

func (b Builder) newScope(doc *Document, params map[string]any) (*scope, error) {
	s := &scope{
		doc:  doc,
		rows: make(map[string]*ast.Row, len(doc.Tables)),
		env: filter.Env{
			Rows:   make(map[string]ast.Source, len(doc.Tables)),
			Params: make(map[string]any, len(doc.Params)+len(params)),
		},
	}

	aliases := make([]string, 0, len(doc.Tables))
	for alias := range doc.Tables {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		row, err := ast.NewRow(b.Naming.TableName(doc.Tables[alias]))
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", alias, err)
		}
		s.rows[alias] = row
		s.env.Rows[alias] = row
	}

	for k, v := range doc.Params {
		s.env.Params[k] = v
	}
	for k, v := range params {
		s.env.Params[k] = v
	}
	return s, nil
}

func (s *scope) row(alias string) (*ast.Row, error) {
	r, ok := s.rows[alias]
	if !ok {
		return nil, fmt.Errorf("%w: unknown table alias %q", ErrInvalidDocument, alias)
	}
	return r, nil
}

func (s *scope) expr(src string) (ast.Expr, error) {
	e, err := filter.Parse(src, s.env)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", src, err)
	}
	return e, nil
}

func (s *scope) optionalExpr(src string) (ast.Expr, error) {
	if src == "" {
		return nil, nil
	}
	return s.expr(src)
}

// projections maps items to select arguments; a bare alias selects the
// whole row.
func (s *scope) projections(items []Projection) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		var v any
		if r, ok := s.rows[item.Expr]; ok {
			v = r
		} else {
			e, err := s.expr(item.Expr)
			if err != nil {
				return nil, err
			}
			v = e
		}
		if item.As != "" {
			p, err := ast.NewAs(item.As, v)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
			}
			v = p
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *scope) selectStatement() (ast.Statement, error) {
	d := s.doc
	cols, err := s.projections(d.Columns)
	if err != nil {
		return nil, err
	}
	sel := ast.NewSelect(cols...)

	for _, j := range d.Joins {
		join, err := s.join(j)
		if err != nil {
			return nil, err
		}
		sel = sel.Join(join)
	}

	where, err := s.optionalExpr(d.Where)
	if err != nil {
		return nil, err
	}
	if where != nil {
		sel = sel.Where(where)
	}

	if len(d.GroupBy) > 0 {
		group := make([]any, len(d.GroupBy))
		for i, g := range d.GroupBy {
			if group[i], err = s.expr(g); err != nil {
				return nil, err
			}
		}
		sel = sel.GroupBy(group...)
	}

	having, err := s.optionalExpr(d.Having)
	if err != nil {
		return nil, err
	}
	if having != nil {
		sel = sel.Having(having)
	}

	if len(d.OrderBy) > 0 {
		order := make([]any, len(d.OrderBy))
		for i, o := range d.OrderBy {
			e, err := s.expr(o.Expr)
			if err != nil {
				return nil, err
			}
			order[i] = orderItem(o, e)
		}
		sel = sel.OrderBy(order...)
	}

	if d.Limit != nil {
		sel = sel.Limit(*d.Limit)
	}
	if d.Offset != nil {
		sel = sel.Offset(*d.Offset)
	}
	if d.Distinct {
		sel = sel.Distinct(true)
	}
	return sel, nil
}

func orderItem(o Order, e ast.Expr) any {
	if !o.Explicit {
		return e
	}
	var ord *ast.Order
	if o.Desc {
		ord = ast.Desc(e)
	} else {
		ord = ast.Asc(e)
	}
	if o.NullsFirst {
		ord = ord.WithNullsFirst()
	}
	return ord
}

func (s *scope) join(j Join) (*ast.Join, error) {
	kind := ast.JoinInner
	if j.Kind != "" {
		var err error
		if kind, err = ast.ParseJoinType(j.Kind); err != nil {
			return nil, err
		}
	}
	left, err := s.row(j.Left)
	if err != nil {
		return nil, err
	}
	right, err := s.row(j.Right)
	if err != nil {
		return nil, err
	}
	on, err := s.optionalExpr(j.On)
	if err != nil {
		return nil, err
	}
	return ast.NewJoin(kind, left, right, on)
}

func (s *scope) insertStatement() (ast.Statement, error) {
	d := s.doc
	target, err := s.row(d.Target)
	if err != nil {
		return nil, err
	}
	ins, err := ast.NewInsert(target, d.Fields...)
	if err != nil {
		return nil, err
	}
	if len(d.Values) > 0 {
		ins = ins.Rows(d.Values...)
	}
	if d.OnConflict == "nothing" {
		ins = ins.OnConflictDoNothing()
	}
	if len(d.Returning) > 0 {
		items, err := s.projections(d.Returning)
		if err != nil {
			return nil, err
		}
		ins = ins.Returning(items...)
	}
	return ins, nil
}

func (s *scope) updateStatement() (ast.Statement, error) {
	d := s.doc
	target, err := s.row(d.Target)
	if err != nil {
		return nil, err
	}

	assignments := make([]ast.Assignment, 0, len(d.Set))
	for _, a := range d.Set {
		col, err := target.Col(a.Column)
		if err != nil {
			return nil, err
		}
		var value any = a.Value
		if a.Expr != "" {
			if value, err = s.expr(a.Expr); err != nil {
				return nil, err
			}
		}
		assignments = append(assignments, ast.Set(col, value))
	}
	upd, err := ast.NewUpdate(assignments...)
	if err != nil {
		return nil, err
	}

	where, err := s.optionalExpr(d.Where)
	if err != nil {
		return nil, err
	}
	if where != nil {
		upd = upd.Where(where)
	}
	if len(d.Returning) > 0 {
		items, err := s.projections(d.Returning)
		if err != nil {
			return nil, err
		}
		upd = upd.Returning(items...)
	}
	return upd, nil
}

func (s *scope) deleteStatement() (ast.Statement, error) {
	d := s.doc
	target, err := s.row(d.Target)
	if err != nil {
		return nil, err
	}
	del, err := ast.NewDelete(target)
	if err != nil {
		return nil, err
	}

	if len(d.Using) > 0 {
		using := make([]ast.Source, len(d.Using))
		for i, alias := range d.Using {
			r, err := s.row(alias)
			if err != nil {
				return nil, err
			}
			using[i] = r
		}
		del = del.Using(using...)
	}

	where, err := s.optionalExpr(d.Where)
	if err != nil {
		return nil, err
	}
	if where != nil {
		del = del.Where(where)
	}
	if len(d.Returning) > 0 {
		items, err := s.projections(d.Returning)
		if err != nil {
			return nil, err
		}
		del = del.Returning(items...)
	}
	return del, nil
}
