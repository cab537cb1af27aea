package ast

// Visitor has one method per node kind; the node set is closed, so a
// Visitor implementation is exhaustive by construction.
type Visitor interface {
	VisitRow(*Row) error
	VisitUnnest(*Unnest) error
	VisitColumn(*Column) error
	VisitLiteral(*Literal) error
	VisitConstant(Constant) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitFunction(*Func) error
	VisitCase(*Case) error
	VisitInList(*InList) error
	VisitInSelect(*InSelect) error
	VisitFragment(*Fragment) error
	VisitOrder(*Order) error
	VisitJoin(*Join) error

	VisitSelect(*Select) error
	VisitSetOp(*SetOp) error
	VisitInsert(*Insert) error
	VisitUpdate(*Update) error
	VisitDelete(*Delete) error
	VisitWith(*With) error
	VisitCreateView(*CreateView) error
}
