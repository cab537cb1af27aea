package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// Order is an ORDER BY item with an explicit direction. NULLS LAST is the
// default for both directions.
type Order struct {
	Expr       Expr
	Desc       bool
	NullsFirst bool
}

func Asc(x any) *Order  { return &Order{Expr: toExpr(x)} }
func Desc(x any) *Order { return &Order{Expr: toExpr(x), Desc: true} }

// WithNullsFirst returns a copy ordering NULLs first.
func (o *Order) WithNullsFirst() *Order {
	cp := *o
	cp.NullsFirst = true
	return &cp
}

// WithNullsLast returns a copy ordering NULLs last.
func (o *Order) WithNullsLast() *Order {
	cp := *o
	cp.NullsFirst = false
	return &cp
}

func (o *Order) Direction() string {
	if o.Desc {
		return "DESC"
	}
	return "ASC"
}

func (o *Order) Nulls() string {
	if o.NullsFirst {
		return "NULLS FIRST"
	}
	return "NULLS LAST"
}

func (o *Order) Type() NodeType         { return NodeOrder }
func (o *Order) Accept(v Visitor) error { return v.VisitOrder(o) }
func (o *Order) Fingerprint() uint64 {
	return utils.NewHasher("order").
		U64(o.Expr.Fingerprint()).
		Bool(o.Desc).
		Bool(o.NullsFirst).
		Sum()
}
