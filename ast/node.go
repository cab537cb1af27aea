package ast

import "sync/atomic"

type NodeType int

const (
	NodeRow NodeType = iota
	NodeUnnest
	NodeColumn
	NodeLiteral
	NodeConstant
	NodeUnaryExpr
	NodeBinaryExpr
	NodeFunction
	NodeCase
	NodeInList
	NodeInSelect
	NodeFragment
	NodeOrder
	NodeJoin
	NodeSelect
	NodeSetOp
	NodeInsert
	NodeUpdate
	NodeDelete
	NodeWith
	NodeCreateView
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

// Expr is a node usable wherever a value is expected.
type Expr interface {
	Node
	exprNode()
}

// Source is a node that can be listed in FROM and owns columns. Sources are
// compared by identity: two sources over the same table are distinct rows.
type Source interface {
	Node
	sourceNode()
	// Identity is unique per source object for the lifetime of the process.
	Identity() uint64
	Col(name string) (*Column, error)
	C(name string) *Column
}

// Statement is a node that compiles on its own.
type Statement interface {
	Node
	statementNode()
}

// Query is a Select or a set operation over selects. Queries are usable as
// statements, row sources and scalar expressions.
type Query interface {
	Statement
	Source
	Expr
	Union(other Query) *SetOp
	UnionAll(other Query) *SetOp
	Intersect(other Query) *SetOp
	IntersectAll(other Query) *SetOp
	Except(other Query) *SetOp
	ExceptAll(other Query) *SetOp
}

var identities atomic.Uint64

func nextIdentity() uint64 {
	return identities.Add(1)
}

// Equal reports whether two nodes are structurally identical.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Type() == b.Type() && a.Fingerprint() == b.Fingerprint()
}
