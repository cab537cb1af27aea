package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

type SetOperator string

const (
	SetUnion        SetOperator = "UNION"
	SetUnionAll     SetOperator = "UNION ALL"
	SetIntersect    SetOperator = "INTERSECT"
	SetIntersectAll SetOperator = "INTERSECT ALL"
	SetExcept       SetOperator = "EXCEPT"
	SetExceptAll    SetOperator = "EXCEPT ALL"
)

// SetOp combines two queries: (left) OP (right). Chaining nests the
// receiver on the left.
type SetOp struct {
	Operator SetOperator
	Left     Query
	Right    Query

	id uint64
}

func newSetOp(op SetOperator, left, right Query) *SetOp {
	return &SetOp{Operator: op, Left: left, Right: right, id: nextIdentity()}
}

func (s *SetOp) Union(other Query) *SetOp        { return newSetOp(SetUnion, s, other) }
func (s *SetOp) UnionAll(other Query) *SetOp     { return newSetOp(SetUnionAll, s, other) }
func (s *SetOp) Intersect(other Query) *SetOp    { return newSetOp(SetIntersect, s, other) }
func (s *SetOp) IntersectAll(other Query) *SetOp { return newSetOp(SetIntersectAll, s, other) }
func (s *SetOp) Except(other Query) *SetOp       { return newSetOp(SetExcept, s, other) }
func (s *SetOp) ExceptAll(other Query) *SetOp    { return newSetOp(SetExceptAll, s, other) }

func (s *SetOp) Type() NodeType         { return NodeSetOp }
func (s *SetOp) Accept(v Visitor) error { return v.VisitSetOp(s) }
func (s *SetOp) Fingerprint() uint64 {
	return utils.NewHasher("setop:" + string(s.Operator)).
		U64(s.Left.Fingerprint()).
		U64(s.Right.Fingerprint()).
		Sum()
}
func (s *SetOp) exprNode()        {}
func (s *SetOp) sourceNode()      {}
func (s *SetOp) statementNode()   {}
func (s *SetOp) Identity() uint64 { return s.id }

func (s *SetOp) Col(name string) (*Column, error) { return newColumn(s, name) }
func (s *SetOp) C(name string) *Column            { return must(s.Col(name)) }
