package ast

import (
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Binding names the result of a statement for the body of a WITH.
type Binding struct {
	Row     *Row
	Columns []string
	Stmt    Statement
}

// Bind binds stmt to row, optionally declaring its column names.
func Bind(row *Row, stmt Statement, columns ...string) (Binding, error) {
	if row == nil || stmt == nil {
		return Binding{}, invalidOperand("WITH binding needs a row and a statement")
	}
	if err := validateColumnNames(columns); err != nil {
		return Binding{}, err
	}
	return Binding{Row: row, Columns: append([]string(nil), columns...), Stmt: stmt}, nil
}

func MustBind(row *Row, stmt Statement, columns ...string) Binding {
	return must(Bind(row, stmt, columns...))
}

// With is a statement preceded by common table expressions. The bound
// rows are referenced from the body like any table.
type With struct {
	Bindings    []Binding
	IsRecursive bool
	Body        Statement
}

// NewWith requires a body and bindings made by Bind.
func NewWith(body Statement, bindings ...Binding) (*With, error) {
	if body == nil {
		return nil, invalidOperand("WITH without a body")
	}
	for _, b := range bindings {
		if b.Row == nil || b.Stmt == nil {
			return nil, invalidOperand("WITH binding needs a row and a statement")
		}
	}
	return &With{Body: body, Bindings: append([]Binding(nil), bindings...)}, nil
}

func MustWith(body Statement, bindings ...Binding) *With {
	return must(NewWith(body, bindings...))
}

// Recursive returns a copy rendered as WITH RECURSIVE.
func (w *With) Recursive(on bool) *With {
	cp := *w
	cp.IsRecursive = on
	return &cp
}

func (w *With) Type() NodeType         { return NodeWith }
func (w *With) Accept(v Visitor) error { return v.VisitWith(w) }
func (w *With) Fingerprint() uint64 {
	h := utils.NewHasher("with").Bool(w.IsRecursive)
	for _, b := range w.Bindings {
		h.U64(b.Row.Fingerprint())
		for _, c := range b.Columns {
			h.Str(c)
		}
		h.U64(b.Stmt.Fingerprint())
	}
	return h.U64(w.Body.Fingerprint()).Sum()
}
func (w *With) statementNode() {}

// CreateView is CREATE [OR REPLACE] VIEW name AS (body).
type CreateView struct {
	Name      string
	OrReplace bool
	Body      Statement
}

func NewCreateView(name string, body Statement) (*CreateView, error) {
	if err := dialect.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, invalidOperand("view %q without a body", name)
	}
	return &CreateView{Name: name, Body: body}, nil
}

// Replace returns a copy rendered as CREATE OR REPLACE VIEW.
func (c *CreateView) Replace(on bool) *CreateView {
	cp := *c
	cp.OrReplace = on
	return &cp
}

func (c *CreateView) Type() NodeType         { return NodeCreateView }
func (c *CreateView) Accept(v Visitor) error { return v.VisitCreateView(c) }
func (c *CreateView) Fingerprint() uint64 {
	return utils.NewHasher("view").Str(c.Name).Bool(c.OrReplace).U64(c.Body.Fingerprint()).Sum()
}
func (c *CreateView) statementNode() {}
