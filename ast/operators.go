package ast

// Operators emitted by the builder. Everything else is a function call.
const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpIs                 = "IS"
	OpIsNot              = "IS NOT"
)

const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
)

const (
	OpLike  = "LIKE"
	OpILike = "ILIKE"
	OpIn    = "IN"
	OpNotIn = "NOT IN"
)

const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "*"
	OpDivide   = "/"
)
