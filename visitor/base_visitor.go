package visitor

import (
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/ast"
)

// BaseVisitor rejects every node kind. Embed it in visitors that only
// handle part of the tree.
type BaseVisitor struct{}

func notImplemented(n ast.Node) error {
	return fmt.Errorf("%w: %T", ast.ErrNotImplemented, n)
}

func (BaseVisitor) VisitRow(n *ast.Row) error               { return notImplemented(n) }
func (BaseVisitor) VisitUnnest(n *ast.Unnest) error         { return notImplemented(n) }
func (BaseVisitor) VisitColumn(n *ast.Column) error         { return notImplemented(n) }
func (BaseVisitor) VisitLiteral(n *ast.Literal) error       { return notImplemented(n) }
func (BaseVisitor) VisitConstant(n ast.Constant) error      { return notImplemented(n) }
func (BaseVisitor) VisitUnaryExpr(n *ast.UnaryExpr) error   { return notImplemented(n) }
func (BaseVisitor) VisitBinaryExpr(n *ast.BinaryExpr) error { return notImplemented(n) }
func (BaseVisitor) VisitFunction(n *ast.Func) error         { return notImplemented(n) }
func (BaseVisitor) VisitCase(n *ast.Case) error             { return notImplemented(n) }
func (BaseVisitor) VisitInList(n *ast.InList) error         { return notImplemented(n) }
func (BaseVisitor) VisitInSelect(n *ast.InSelect) error     { return notImplemented(n) }
func (BaseVisitor) VisitFragment(n *ast.Fragment) error     { return notImplemented(n) }
func (BaseVisitor) VisitOrder(n *ast.Order) error           { return notImplemented(n) }
func (BaseVisitor) VisitJoin(n *ast.Join) error             { return notImplemented(n) }
func (BaseVisitor) VisitSelect(n *ast.Select) error         { return notImplemented(n) }
func (BaseVisitor) VisitSetOp(n *ast.SetOp) error           { return notImplemented(n) }
func (BaseVisitor) VisitInsert(n *ast.Insert) error         { return notImplemented(n) }
func (BaseVisitor) VisitUpdate(n *ast.Update) error         { return notImplemented(n) }
func (BaseVisitor) VisitDelete(n *ast.Delete) error         { return notImplemented(n) }
func (BaseVisitor) VisitWith(n *ast.With) error             { return notImplemented(n) }
func (BaseVisitor) VisitCreateView(n *ast.CreateView) error { return notImplemented(n) }

var _ ast.Visitor = BaseVisitor{}
