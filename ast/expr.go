package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// BinaryExpr is always rendered fully parenthesized: (left op right).
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }
func (b *BinaryExpr) Fingerprint() uint64 {
	return utils.NewHasher("bin:" + b.Operator).
		U64(b.Left.Fingerprint()).
		U64(b.Right.Fingerprint()).
		Sum()
}
func (b *BinaryExpr) exprNode() {}

// UnaryExpr renders as (op operand).
type UnaryExpr struct {
	Operator string
	Operand  Expr
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }
func (u *UnaryExpr) Fingerprint() uint64 {
	return utils.NewHasher("unary:" + u.Operator).U64(u.Operand.Fingerprint()).Sum()
}
func (u *UnaryExpr) exprNode() {}

func binary(op string, left, right any) *BinaryExpr {
	return &BinaryExpr{Left: toExpr(left), Operator: op, Right: toExpr(right)}
}

// nullable turns comparisons against NULL into IS / IS NOT so NULL is never
// bound as a parameter.
func nullable(op, nullOp string, left, right any) Expr {
	l, r := toExpr(left), toExpr(right)
	if isNull(l) && !isNull(r) {
		l, r = r, l
	}
	if isNull(r) {
		return &BinaryExpr{Left: l, Operator: nullOp, Right: Null}
	}
	return &BinaryExpr{Left: l, Operator: op, Right: r}
}

func Eq(left, right any) Expr { return nullable(OpEqual, OpIs, left, right) }
func Ne(left, right any) Expr { return nullable(OpNotEqual, OpIsNot, left, right) }
func Lt(left, right any) Expr { return binary(OpLessThan, left, right) }
func Le(left, right any) Expr { return binary(OpLessThanOrEqual, left, right) }
func Gt(left, right any) Expr { return binary(OpGreaterThan, left, right) }
func Ge(left, right any) Expr { return binary(OpGreaterThanOrEqual, left, right) }

// IsNull and IsNotNull are shorthands for Eq(x, Null) and Ne(x, Null).
func IsNull(x any) Expr    { return Eq(x, Null) }
func IsNotNull(x any) Expr { return Ne(x, Null) }

func Add(left, right any) Expr { return binary(OpAdd, left, right) }
func Sub(left, right any) Expr { return binary(OpSubtract, left, right) }
func Mul(left, right any) Expr { return binary(OpMultiply, left, right) }
func Div(left, right any) Expr { return binary(OpDivide, left, right) }

// And folds left to right: And(a, b, c) is ((a AND b) AND c).
func And(left, right Expr, more ...Expr) Expr {
	return fold(OpAnd, left, right, more)
}

// Or folds left to right like And.
func Or(left, right Expr, more ...Expr) Expr {
	return fold(OpOr, left, right, more)
}

func fold(op string, left, right Expr, more []Expr) Expr {
	acc := &BinaryExpr{Left: left, Operator: op, Right: right}
	for _, e := range more {
		acc = &BinaryExpr{Left: acc, Operator: op, Right: e}
	}
	return acc
}

func Not(x Expr) Expr {
	return &UnaryExpr{Operator: OpNot, Operand: x}
}

// Like builds (x LIKE pattern). The pattern is an expression or a string;
// any other literal panics with ErrInvalidOperand.
func Like(x any, pattern any) Expr {
	return &BinaryExpr{Left: toExpr(x), Operator: OpLike, Right: patternExpr(pattern)}
}

// ILike is the case-insensitive Like.
func ILike(x any, pattern any) Expr {
	return &BinaryExpr{Left: toExpr(x), Operator: OpILike, Right: patternExpr(pattern)}
}

func patternExpr(pattern any) Expr {
	switch p := pattern.(type) {
	case string:
		return &Literal{Value: p}
	case Expr:
		return p
	default:
		panic(invalidOperand("LIKE pattern must be a string or expression, got %T", pattern))
	}
}
