package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// Literal is a value bound as a positional parameter.
type Literal struct {
	Value any
}

func (l *Literal) Type() NodeType         { return NodeLiteral }
func (l *Literal) Accept(v Visitor) error { return v.VisitLiteral(l) }
func (l *Literal) Fingerprint() uint64 {
	return utils.NewHasher("lit").U64(utils.FingerprintValue(l.Value)).Sum()
}
func (l *Literal) exprNode() {}

// Value wraps v as a literal unless it already is an expression.
func Value(v any) Expr {
	return toExpr(v)
}

// Constant is an SQL keyword value rendered inline, never as a parameter.
type Constant struct {
	Name string
}

var (
	Null    = Constant{Name: "NULL"}
	Default = Constant{Name: "DEFAULT"}
)

func (c Constant) Type() NodeType         { return NodeConstant }
func (c Constant) Accept(v Visitor) error { return v.VisitConstant(c) }
func (c Constant) Fingerprint() uint64    { return utils.NewHasher("const").Str(c.Name).Sum() }
func (c Constant) exprNode()              {}
func (c Constant) String() string         { return c.Name }

func isNull(e Expr) bool {
	c, ok := e.(Constant)
	return ok && c == Null
}

// toExpr converts an operand: nil becomes Null, expressions pass through,
// anything else is a literal. A bare row is a programming error.
func toExpr(v any) Expr {
	switch x := v.(type) {
	case nil:
		return Null
	case Expr:
		return x
	case Source:
		panic(invalidOperand("row %T is not a value; use one of its columns", x))
	default:
		return &Literal{Value: v}
	}
}

// toNode is toExpr that also lets bare row sources through, for positions
// where a row means "all columns".
func toNode(v any) Node {
	if src, ok := v.(Source); ok {
		if _, isExpr := src.(Expr); !isExpr {
			return src
		}
	}
	return toExpr(v)
}

func toNodes(values []any) []Node {
	out := make([]Node, len(values))
	for i, v := range values {
		out[i] = toNode(v)
	}
	return out
}

func toExprs(values []any) []Expr {
	out := make([]Expr, len(values))
	for i, v := range values {
		out[i] = toExpr(v)
	}
	return out
}
