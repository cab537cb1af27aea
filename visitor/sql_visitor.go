package visitor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/cache"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 8),
		}
	},
}

// SQLVisitor compiles a node tree into %s-placeholder SQL and its ordered
// parameters in a single depth-first walk. It is not safe for concurrent
// use; Compile draws visitors from a pool.
type SQLVisitor struct {
	sb     strings.Builder
	args   []any
	arena  *arena
	qcache cache.QueryCache
}

type Option func(*SQLVisitor)

// WithCache reuses compiled output for trees with a known fingerprint.
func WithCache(c cache.QueryCache) Option {
	return func(v *SQLVisitor) { v.qcache = c }
}

func NewSQLVisitor(opts ...Option) *SQLVisitor {
	v := &SQLVisitor{args: make([]any, 0, 8)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Compile builds root with a pooled visitor.
func Compile(root ast.Node, opts ...Option) (string, []any, error) {
	v := visitorPool.Get().(*SQLVisitor)
	for _, opt := range opts {
		opt(v)
	}
	defer v.release()
	return v.Build(root)
}

func (v *SQLVisitor) release() {
	v.Reset()
	v.qcache = nil
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
	v.arena = nil
}

// Build renders root. Statements get a fresh alias arena; expressions
// compiled on their own render columns as "table"."column".
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	if root == nil {
		return "", nil, fmt.Errorf("%w: nil node", ast.ErrInvalidOperand)
	}

	var fp uint64
	if v.qcache != nil {
		fp = root.Fingerprint()
		if cached, ok := v.qcache.Get(fp); ok {
			debug.Debug("compile cache hit", "fingerprint", fp)
			return cached.SQL, append([]any(nil), cached.Args...), nil
		}
	}

	v.Reset()
	if _, ok := root.(ast.Statement); ok {
		v.arena = newArena()
	}
	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	args := append(make([]any, 0, len(v.args)), v.args...)
	if v.qcache != nil {
		v.qcache.Set(fp, &cache.Compiled{SQL: sql, Args: append([]any(nil), args...)})
		debug.Debug("compile cache miss", "fingerprint", fp, "params", len(args))
	}
	return sql, args, nil
}

func (v *SQLVisitor) arg(a any) {
	v.sb.WriteString("%s")
	v.args = append(v.args, a)
}

// shared renders fn in the current arena, opening one when compiling a
// statement nested in a standalone expression.
func (v *SQLVisitor) shared(fn func() error) error {
	if v.arena != nil {
		return fn()
	}
	return v.fresh(fn)
}

// fresh renders fn in a new arena and restores the enclosing one.
func (v *SQLVisitor) fresh(fn func() error) error {
	saved := v.arena
	v.arena = newArena()
	defer func() { v.arena = saved }()
	return fn()
}

// sub renders a query in parentheses, sharing the current arena.
func (v *SQLVisitor) sub(q ast.Query) error {
	v.sb.WriteByte('(')
	if err := v.shared(func() error { return q.Accept(v) }); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

// freshSub renders a query in parentheses in a new arena.
func (v *SQLVisitor) freshSub(q ast.Query) error {
	v.sb.WriteByte('(')
	if err := v.fresh(func() error { return q.Accept(v) }); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

// operand renders a value position: sub-queries are parenthesized.
func (v *SQLVisitor) operand(n ast.Node) error {
	if q, ok := n.(ast.Query); ok {
		return v.sub(q)
	}
	return n.Accept(v)
}

func (v *SQLVisitor) list(nodes []ast.Node, render func(ast.Node) error) error {
	for i, n := range nodes {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := render(n); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) exprs(exprs []ast.Expr) error {
	for i, e := range exprs {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := v.operand(e); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) ident(name string) {
	v.sb.WriteString(dialect.Quote(name))
}

func (v *SQLVisitor) VisitRow(r *ast.Row) error {
	v.sb.WriteByte('*')
	return nil
}

func (v *SQLVisitor) VisitUnnest(u *ast.Unnest) error {
	if v.arena != nil {
		v.ident(v.arena.alias(u))
		return nil
	}
	return v.unnestCall(u)
}

func (v *SQLVisitor) unnestCall(u *ast.Unnest) error {
	v.sb.WriteString("unnest(")
	if err := v.exprs(u.Args); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	switch {
	case v.arena != nil:
		v.ident(v.arena.alias(c.Source))
		v.sb.WriteByte('.')
	case isRow(c.Source):
		v.ident(c.Source.(*ast.Row).Table)
		v.sb.WriteByte('.')
	}
	v.ident(c.Name)
	return nil
}

func isRow(src ast.Source) bool {
	_, ok := src.(*ast.Row)
	return ok
}

func (v *SQLVisitor) VisitLiteral(l *ast.Literal) error {
	v.arg(l.Value)
	return nil
}

func (v *SQLVisitor) VisitConstant(c ast.Constant) error {
	v.sb.WriteString(c.Name)
	return nil
}

func (v *SQLVisitor) VisitUnaryExpr(u *ast.UnaryExpr) error {
	v.sb.WriteByte('(')
	v.sb.WriteString(u.Operator)
	v.sb.WriteByte(' ')
	if err := v.operand(u.Operand); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitBinaryExpr(b *ast.BinaryExpr) error {
	v.sb.WriteByte('(')
	if err := v.operand(b.Left); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(b.Operator)
	v.sb.WriteByte(' ')
	if err := v.operand(b.Right); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitFunction(f *ast.Func) error {
	v.sb.WriteString(f.Name)
	v.sb.WriteByte('(')
	if err := v.list(f.Args, v.operand); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	v.sb.WriteString(f.Suffix)
	return nil
}

func (v *SQLVisitor) VisitCase(c *ast.Case) error {
	v.sb.WriteString("CASE")
	if c.Switch != nil {
		v.sb.WriteByte(' ')
		if err := v.operand(c.Switch); err != nil {
			return err
		}
	}
	for _, w := range c.Whens {
		v.sb.WriteString(" WHEN ")
		if err := v.operand(w.Cond); err != nil {
			return err
		}
		v.sb.WriteString(" THEN ")
		if err := v.operand(w.Result); err != nil {
			return err
		}
	}
	if c.Else != nil {
		v.sb.WriteString(" ELSE ")
		if err := v.operand(c.Else); err != nil {
			return err
		}
	}
	v.sb.WriteString(" END")
	return nil
}

func (v *SQLVisitor) VisitInList(in *ast.InList) error {
	v.sb.WriteByte('(')
	if err := v.operand(in.Expr); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(in.Operator())
	v.sb.WriteByte(' ')
	v.arg(in.Values)
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitInSelect(in *ast.InSelect) error {
	v.sb.WriteByte('(')
	if err := v.operand(in.Expr); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(in.Operator())
	v.sb.WriteByte(' ')
	if err := v.sub(in.Query); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

// VisitFragment copies the template, compiling one part per %s. %% is
// kept escaped since the output is itself a template.
func (v *SQLVisitor) VisitFragment(f *ast.Fragment) error {
	tpl := f.Template
	next := 0
	for {
		i := strings.IndexByte(tpl, '%')
		if i < 0 || i+1 >= len(tpl) {
			v.sb.WriteString(tpl)
			break
		}
		v.sb.WriteString(tpl[:i])
		switch tpl[i+1] {
		case 's':
			if next >= len(f.Parts) {
				return fmt.Errorf("%w: fragment %q", dialect.ErrPlaceholderMismatch, f.Template)
			}
			part := f.Parts[next]
			next++
			if q, ok := part.(ast.Query); ok {
				if err := v.shared(func() error { return q.Accept(v) }); err != nil {
					return err
				}
			} else if err := part.Accept(v); err != nil {
				return err
			}
		default:
			v.sb.WriteString(tpl[i : i+2])
		}
		tpl = tpl[i+2:]
	}
	if next != len(f.Parts) {
		return fmt.Errorf("%w: fragment %q", dialect.ErrPlaceholderMismatch, f.Template)
	}
	return nil
}

func (v *SQLVisitor) VisitOrder(o *ast.Order) error {
	if err := v.operand(o.Expr); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(o.Direction())
	v.sb.WriteByte(' ')
	v.sb.WriteString(o.Nulls())
	return nil
}

func (v *SQLVisitor) VisitJoin(j *ast.Join) error {
	v.sb.WriteString(j.Kind.String())
	v.sb.WriteString(" JOIN ")
	if err := v.fromItem(j.Right); err != nil {
		return err
	}
	if j.On != nil {
		v.sb.WriteString(" ON ")
		if err := v.operand(j.On); err != nil {
			return err
		}
	}
	return nil
}

// fromItem renders a FROM/USING/JOIN entry with its alias.
func (v *SQLVisitor) fromItem(src ast.Source) error {
	if v.arena == nil {
		v.arena = newArena()
	}
	switch s := src.(type) {
	case *ast.Row:
		v.ident(s.Table)
	case *ast.Unnest:
		if err := v.unnestCall(s); err != nil {
			return err
		}
	case ast.Query:
		if err := v.freshSub(s); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %T in FROM", ast.ErrInvalidOperand, src)
	}
	v.sb.WriteByte(' ')
	v.ident(v.arena.alias(src))
	return nil
}

func (v *SQLVisitor) fromList(sources []ast.Source) error {
	for i, src := range sources {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := v.fromItem(src); err != nil {
			return err
		}
	}
	return nil
}

// projection renders a select or RETURNING item. Sub-queries get their own
// arena; CASE is parenthesized.
func (v *SQLVisitor) projection(n ast.Node) error {
	switch x := n.(type) {
	case ast.Query:
		return v.freshSub(x)
	case *ast.Case:
		v.sb.WriteByte('(')
		if err := x.Accept(v); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil
	default:
		return n.Accept(v)
	}
}

func (v *SQLVisitor) returning(items []ast.Node) error {
	if len(items) == 0 {
		return nil
	}
	v.sb.WriteString(" RETURNING ")
	return v.list(items, v.operand)
}

func (v *SQLVisitor) where(cond ast.Expr) error {
	if cond == nil {
		return nil
	}
	v.sb.WriteString(" WHERE ")
	return v.operand(cond)
}

func (v *SQLVisitor) VisitSelect(s *ast.Select) error {
	return v.shared(func() error { return v.selectBody(s) })
}

func (v *SQLVisitor) selectBody(s *ast.Select) error {
	v.sb.WriteString("SELECT ")
	switch {
	case len(s.DistinctOn) > 0:
		v.sb.WriteString("DISTINCT ON (")
		if err := v.exprs(s.DistinctOn); err != nil {
			return err
		}
		v.sb.WriteString(") ")
	case s.DistinctAll:
		v.sb.WriteString("DISTINCT ")
	}

	for i, p := range s.Projections {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := v.projection(p.Value); err != nil {
			return err
		}
		if p.Alias != "" {
			v.sb.WriteString(" AS ")
			v.sb.WriteString(p.Alias)
		}
	}

	if from := s.FromList(); len(from) > 0 {
		v.sb.WriteString(" FROM ")
		if err := v.fromList(from); err != nil {
			return err
		}
	}

	for _, j := range s.Joins {
		v.sb.WriteByte(' ')
		if err := j.Accept(v); err != nil {
			return err
		}
	}

	if err := v.where(s.Filter); err != nil {
		return err
	}

	if len(s.Groups) > 0 {
		v.sb.WriteString(" GROUP BY ")
		if err := v.exprs(s.Groups); err != nil {
			return err
		}
	}

	if s.HavingFilter != nil {
		v.sb.WriteString(" HAVING ")
		if err := v.operand(s.HavingFilter); err != nil {
			return err
		}
	}

	if len(s.Orders) > 0 {
		v.sb.WriteString(" ORDER BY ")
		if err := v.list(s.Orders, v.operand); err != nil {
			return err
		}
	}

	switch {
	case s.LimitCount != nil:
		offset := 0
		if s.OffsetCount != nil {
			offset = *s.OffsetCount
		}
		v.sb.WriteString(" LIMIT ")
		v.arg(*s.LimitCount)
		v.sb.WriteString(" OFFSET ")
		v.arg(offset)
	case s.OffsetCount != nil:
		v.sb.WriteString(" OFFSET ")
		v.arg(*s.OffsetCount)
	}
	return nil
}

// VisitSetOp renders (left) OP (right). The left side shares the arena,
// the right side starts its own.
func (v *SQLVisitor) VisitSetOp(s *ast.SetOp) error {
	if err := v.sub(s.Left); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(s.Operator))
	v.sb.WriteByte(' ')
	return v.freshSub(s.Right)
}

func (v *SQLVisitor) VisitInsert(i *ast.Insert) error {
	return v.shared(func() error { return v.insertBody(i) })
}

func (v *SQLVisitor) insertBody(i *ast.Insert) error {
	if i.Target == nil {
		return fmt.Errorf("%w: INSERT without a target", ast.ErrInvalidOperand)
	}
	v.sb.WriteString("INSERT INTO ")
	v.ident(i.Target.Table)
	if len(i.Columns) > 0 {
		v.sb.WriteByte('(')
		for n, c := range i.Columns {
			if n > 0 {
				v.sb.WriteString(", ")
			}
			v.ident(c)
		}
		v.sb.WriteByte(')')
	}

	switch {
	case i.Source != nil:
		v.sb.WriteByte(' ')
		if err := v.sub(i.Source); err != nil {
			return err
		}
	case len(i.ValueRows) > 0:
		v.sb.WriteString(" VALUES ")
		for n, row := range i.ValueRows {
			if n > 0 {
				v.sb.WriteString(", ")
			}
			v.sb.WriteByte('(')
			if err := v.exprs(row); err != nil {
				return err
			}
			v.sb.WriteByte(')')
		}
	default:
		v.sb.WriteString(" DEFAULT VALUES")
	}

	if oc := i.Conflict; oc != nil {
		v.sb.WriteString(" ON CONFLICT")
		if oc.Update == nil {
			v.sb.WriteString(" DO NOTHING")
		} else {
			v.sb.WriteString(" (")
			for n, c := range oc.Columns {
				if n > 0 {
					v.sb.WriteString(", ")
				}
				if row, ok := c.Source.(*ast.Row); ok {
					v.ident(row.Table)
					v.sb.WriteByte('.')
				}
				v.ident(c.Name)
			}
			v.sb.WriteString(") DO ")
			if err := v.updateBody(oc.Update); err != nil {
				return err
			}
		}
	}

	if len(i.Returns) > 0 {
		v.arena.pin(i.Target, i.Target.Table)
	}
	return v.returning(i.Returns)
}

func (v *SQLVisitor) VisitUpdate(u *ast.Update) error {
	return v.shared(func() error { return v.updateBody(u) })
}

func (v *SQLVisitor) updateBody(u *ast.Update) error {
	if u.Target == nil || len(u.Assignments) == 0 {
		return ast.ErrInvalidUpdate
	}
	v.sb.WriteString("UPDATE ")
	if err := v.fromItem(u.Target); err != nil {
		return err
	}
	v.sb.WriteString(" SET ")
	for n, a := range u.Assignments {
		if n > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(a.Column.Name)
		v.sb.WriteString(" = ")
		if err := v.assigned(a.Value); err != nil {
			return err
		}
	}

	if from := u.FromList(); len(from) > 0 {
		v.sb.WriteString(" FROM ")
		if err := v.fromList(from); err != nil {
			return err
		}
	}
	if err := v.where(u.Filter); err != nil {
		return err
	}
	return v.returning(u.Returns)
}

// assigned renders a SET value: columns and constants bare, literals as
// parameters, anything else parenthesized.
func (v *SQLVisitor) assigned(e ast.Expr) error {
	switch x := e.(type) {
	case *ast.Column, *ast.Literal, ast.Constant:
		return x.Accept(v)
	case ast.Query:
		return v.sub(x)
	default:
		v.sb.WriteByte('(')
		if err := x.Accept(v); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil
	}
}

func (v *SQLVisitor) VisitDelete(d *ast.Delete) error {
	return v.shared(func() error { return v.deleteBody(d) })
}

func (v *SQLVisitor) deleteBody(d *ast.Delete) error {
	if d.Target == nil {
		return fmt.Errorf("%w: DELETE without a target", ast.ErrInvalidOperand)
	}
	v.sb.WriteString("DELETE FROM ")
	if err := v.fromItem(d.Target); err != nil {
		return err
	}
	if len(d.Sources) > 0 {
		v.sb.WriteString(" USING ")
		if err := v.fromList(d.Sources); err != nil {
			return err
		}
	}
	if err := v.where(d.Filter); err != nil {
		return err
	}
	return v.returning(d.Returns)
}

// VisitWith compiles every binding and the body in arenas of their own.
func (v *SQLVisitor) VisitWith(w *ast.With) error {
	v.sb.WriteString("WITH ")
	if w.IsRecursive {
		v.sb.WriteString("RECURSIVE ")
	}
	for n, b := range w.Bindings {
		if n > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(b.Row.Table)
		if len(b.Columns) > 0 {
			v.sb.WriteByte('(')
			for i, c := range b.Columns {
				if i > 0 {
					v.sb.WriteString(", ")
				}
				v.ident(c)
			}
			v.sb.WriteByte(')')
		}
		v.sb.WriteString(" AS (")
		stmt := b.Stmt
		if err := v.fresh(func() error { return stmt.Accept(v) }); err != nil {
			return err
		}
		v.sb.WriteByte(')')
	}
	v.sb.WriteByte(' ')
	return v.fresh(func() error { return w.Body.Accept(v) })
}

func (v *SQLVisitor) VisitCreateView(c *ast.CreateView) error {
	v.sb.WriteString("CREATE ")
	if c.OrReplace {
		v.sb.WriteString("OR REPLACE ")
	}
	v.sb.WriteString("VIEW ")
	v.ident(c.Name)
	v.sb.WriteString(" AS (")
	if err := v.shared(func() error { return c.Body.Accept(v) }); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

var _ ast.Visitor = (*SQLVisitor)(nil)
