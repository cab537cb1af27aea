package ast

import (
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Projection is one item of a select list. An empty Alias means the item is
// positional.
type Projection struct {
	Alias string
	Value Node
}

// NewAs names a select list item. The alias must be a bare identifier.
func NewAs(alias string, v any) (Projection, error) {
	if err := dialect.ValidateAlias(alias); err != nil {
		return Projection{}, err
	}
	return Projection{Alias: alias, Value: toNode(v)}, nil
}

// As is NewAs for aliases known at compile time; it panics with
// ErrInvalidIdentifier on a bad alias.
func As(alias string, v any) Projection {
	return must(NewAs(alias, v))
}

func toProjections(items []any) []Projection {
	out := make([]Projection, len(items))
	for i, item := range items {
		if p, ok := item.(Projection); ok {
			out[i] = p
			continue
		}
		out[i] = Projection{Value: toNode(item)}
	}
	return out
}

// Select is an immutable SELECT statement. Every builder method returns a
// new Select sharing the unchanged parts with its receiver, and with a new
// identity.
type Select struct {
	Projections  []Projection
	FromSources  []Source
	Joins        []*Join
	Filter       Expr
	Groups       []Expr
	HavingFilter Expr
	Orders       []Node
	LimitCount   *int
	OffsetCount  *int
	DistinctAll  bool
	DistinctOn   []Expr

	id uint64
}

// NewSelect builds SELECT items. Items are expressions, rows (rendered as
// *), literals or projections built with As.
func NewSelect(items ...any) *Select {
	return &Select{Projections: toProjections(items), id: nextIdentity()}
}

func (s *Select) derive() *Select {
	cp := *s
	cp.id = nextIdentity()
	return &cp
}

// Columns replaces the select list.
func (s *Select) Columns(items ...any) *Select {
	cp := s.derive()
	cp.Projections = toProjections(items)
	return cp
}

// From adds explicit FROM sources on top of the inferred ones.
func (s *Select) From(sources ...Source) *Select {
	cp := s.derive()
	cp.FromSources = append([]Source(nil), sources...)
	return cp
}

// Where replaces the filter; nil clears it.
func (s *Select) Where(cond Expr) *Select {
	cp := s.derive()
	cp.Filter = cond
	return cp
}

// AndWhere combines cond with the current filter.
func (s *Select) AndWhere(cond Expr) *Select {
	if s.Filter == nil {
		return s.Where(cond)
	}
	return s.Where(And(s.Filter, cond))
}

// Join replaces the join list.
func (s *Select) Join(joins ...*Join) *Select {
	cp := s.derive()
	cp.Joins = append([]*Join(nil), joins...)
	return cp
}

func (s *Select) GroupBy(exprs ...any) *Select {
	cp := s.derive()
	cp.Groups = toExprs(exprs)
	return cp
}

func (s *Select) Having(cond Expr) *Select {
	cp := s.derive()
	cp.HavingFilter = cond
	return cp
}

// OrderBy replaces the ordering. Items are *Order values or plain
// expressions, which get no direction modifier.
func (s *Select) OrderBy(items ...any) *Select {
	cp := s.derive()
	cp.Orders = make([]Node, len(items))
	for i, item := range items {
		if o, ok := item.(*Order); ok {
			cp.Orders[i] = o
			continue
		}
		cp.Orders[i] = toExpr(item)
	}
	return cp
}

// Limit sets LIMIT; OFFSET is then always emitted, defaulting to 0.
func (s *Select) Limit(n int) *Select {
	cp := s.derive()
	cp.LimitCount = &n
	return cp
}

func (s *Select) Offset(n int) *Select {
	cp := s.derive()
	cp.OffsetCount = &n
	return cp
}

// Distinct toggles SELECT DISTINCT and clears any DISTINCT ON list.
func (s *Select) Distinct(on bool) *Select {
	cp := s.derive()
	cp.DistinctAll = on
	cp.DistinctOn = nil
	return cp
}

// DistinctOnExprs sets SELECT DISTINCT ON (exprs...).
func (s *Select) DistinctOnExprs(exprs ...any) *Select {
	cp := s.derive()
	cp.DistinctAll = false
	cp.DistinctOn = toExprs(exprs)
	return cp
}

// FromList is the ordered FROM set: explicit sources, then rows used by the
// select list, the filter and the join left-hand sides, minus join targets.
func (s *Select) FromList() []Source {
	set := newSourceSet()
	set.add(s.FromSources...)
	for _, p := range s.Projections {
		set.add(Rows(p.Value)...)
	}
	if s.Filter != nil {
		set.add(Rows(s.Filter)...)
	}
	for _, j := range s.Joins {
		if j.Left != nil {
			set.add(j.Left)
		}
	}
	for _, j := range s.Joins {
		set.remove(j.Right)
	}
	return set.list()
}

func (s *Select) Union(other Query) *SetOp        { return newSetOp(SetUnion, s, other) }
func (s *Select) UnionAll(other Query) *SetOp     { return newSetOp(SetUnionAll, s, other) }
func (s *Select) Intersect(other Query) *SetOp    { return newSetOp(SetIntersect, s, other) }
func (s *Select) IntersectAll(other Query) *SetOp { return newSetOp(SetIntersectAll, s, other) }
func (s *Select) Except(other Query) *SetOp       { return newSetOp(SetExcept, s, other) }
func (s *Select) ExceptAll(other Query) *SetOp    { return newSetOp(SetExceptAll, s, other) }

func (s *Select) Type() NodeType         { return NodeSelect }
func (s *Select) Accept(v Visitor) error { return v.VisitSelect(s) }
func (s *Select) Fingerprint() uint64 {
	h := utils.NewHasher("select").Bool(s.DistinctAll)
	for _, e := range s.DistinctOn {
		h.U64(e.Fingerprint())
	}
	for _, p := range s.Projections {
		h.Str(p.Alias).U64(p.Value.Fingerprint())
	}
	h.Str("from")
	for _, src := range s.FromSources {
		h.U64(sourceKey(src))
	}
	for _, j := range s.Joins {
		h.U64(j.Fingerprint())
	}
	if s.Filter != nil {
		h.Str("where").U64(s.Filter.Fingerprint())
	}
	h.Str("group")
	for _, g := range s.Groups {
		h.U64(g.Fingerprint())
	}
	if s.HavingFilter != nil {
		h.Str("having").U64(s.HavingFilter.Fingerprint())
	}
	h.Str("order")
	for _, o := range s.Orders {
		h.U64(o.Fingerprint())
	}
	if s.LimitCount != nil {
		h.Str("limit").U64(uint64(*s.LimitCount))
	}
	if s.OffsetCount != nil {
		h.Str("offset").U64(uint64(*s.OffsetCount))
	}
	return h.Sum()
}
func (s *Select) exprNode()      {}
func (s *Select) sourceNode()    {}
func (s *Select) statementNode() {}
func (s *Select) Identity() uint64 {
	return s.id
}

func (s *Select) Col(name string) (*Column, error) { return newColumn(s, name) }
func (s *Select) C(name string) *Column            { return must(s.Col(name)) }
