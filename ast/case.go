package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// WhenClause is one WHEN ... THEN ... branch.
type WhenClause struct {
	Cond   Expr
	Result Expr
}

// When pairs a condition (or, with a switch expression, a value) with its
// result. Results may reference rows other than the condition's.
func When(cond, result any) WhenClause {
	return WhenClause{Cond: toExpr(cond), Result: toExpr(result)}
}

// Case renders CASE [switch] WHEN ... THEN ... [ELSE ...] END. Builder
// methods return modified copies.
type Case struct {
	Switch Expr
	Whens  []WhenClause
	Else   Expr
}

func NewCase(whens ...WhenClause) *Case {
	return &Case{Whens: whens}
}

// On turns the CASE into its simple form, comparing x against each WHEN.
func (c *Case) On(x any) *Case {
	cp := *c
	cp.Switch = toExpr(x)
	return &cp
}

func (c *Case) When(cond, result any) *Case {
	cp := *c
	cp.Whens = append(append([]WhenClause(nil), c.Whens...), When(cond, result))
	return &cp
}

// Otherwise sets the ELSE branch. A nil value is an explicit ELSE NULL.
func (c *Case) Otherwise(result any) *Case {
	cp := *c
	cp.Else = toExpr(result)
	return &cp
}

func (c *Case) Type() NodeType         { return NodeCase }
func (c *Case) Accept(v Visitor) error { return v.VisitCase(c) }
func (c *Case) Fingerprint() uint64 {
	h := utils.NewHasher("case")
	if c.Switch != nil {
		h.U64(c.Switch.Fingerprint())
	}
	for _, w := range c.Whens {
		h.U64(w.Cond.Fingerprint()).U64(w.Result.Fingerprint())
	}
	if c.Else != nil {
		h.Str("else").U64(c.Else.Fingerprint())
	}
	return h.Sum()
}
func (c *Case) exprNode() {}
