package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// InList tests membership in a literal list. The list is bound as a single
// Tuple parameter.
type InList struct {
	Expr   Expr
	Values Tuple
	Negate bool
}

// In builds (x IN %s). A single slice argument is spread into the list;
// an empty list is rejected.
func In(x any, values ...any) (Expr, error) {
	return newInList(x, values, false)
}

// NotIn builds (x NOT IN %s).
func NotIn(x any, values ...any) (Expr, error) {
	return newInList(x, values, true)
}

func MustIn(x any, values ...any) Expr    { return must(In(x, values...)) }
func MustNotIn(x any, values ...any) Expr { return must(NotIn(x, values...)) }

func newInList(x any, values []any, negate bool) (Expr, error) {
	tuple := spread(values)
	if len(tuple) == 0 {
		return nil, ErrEmptyIn
	}
	return &InList{Expr: toExpr(x), Values: tuple, Negate: negate}, nil
}

func (i *InList) Operator() string {
	if i.Negate {
		return OpNotIn
	}
	return OpIn
}

func (i *InList) Type() NodeType         { return NodeInList }
func (i *InList) Accept(v Visitor) error { return v.VisitInList(i) }
func (i *InList) Fingerprint() uint64 {
	return utils.NewHasher("in:" + i.Operator()).
		U64(i.Expr.Fingerprint()).
		U64(i.Values.fingerprint()).
		Sum()
}
func (i *InList) exprNode() {}

// InSelect tests membership in the result of a sub-query, compiled in the
// enclosing statement's alias arena.
type InSelect struct {
	Expr   Expr
	Query  Query
	Negate bool
}

// InQuery builds (x IN (SELECT ...)).
func InQuery(x any, q Query) Expr {
	return &InSelect{Expr: toExpr(x), Query: q}
}

// NotInQuery builds (x NOT IN (SELECT ...)).
func NotInQuery(x any, q Query) Expr {
	return &InSelect{Expr: toExpr(x), Query: q, Negate: true}
}

func (i *InSelect) Operator() string {
	if i.Negate {
		return OpNotIn
	}
	return OpIn
}

func (i *InSelect) Type() NodeType         { return NodeInSelect }
func (i *InSelect) Accept(v Visitor) error { return v.VisitInSelect(i) }
func (i *InSelect) Fingerprint() uint64 {
	return utils.NewHasher("insel:" + i.Operator()).
		U64(i.Expr.Fingerprint()).
		U64(i.Query.Fingerprint()).
		Sum()
}
func (i *InSelect) exprNode() {}
