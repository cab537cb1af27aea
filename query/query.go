// Package query is the entry point for building statements: thin
// constructors over the ast package plus ToSQL, which compiles any node
// into a self-contained fragment.
package query

import (
	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/visitor"
)

// Select starts a SELECT over items. Plain items are positional columns,
// ast.As gives an item an alias and a *ast.Row selects *.
func Select(items ...any) *ast.Select {
	return ast.NewSelect(items...)
}

// Delete starts a DELETE from target.
func Delete(target *ast.Row) (*ast.Delete, error) {
	return ast.NewDelete(target)
}

// Update starts an UPDATE. All assignments must target columns of the same
// row.
func Update(assignments ...ast.Assignment) (*ast.Update, error) {
	return ast.NewUpdate(assignments...)
}

// Insert starts an INSERT INTO target(columns) with an optional first row
// of values.
func Insert(target *ast.Row, columns []string, values ...any) (*ast.Insert, error) {
	ins, err := ast.NewInsert(target, columns...)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		ins = ins.Values(values...)
	}
	return ins, nil
}

// ToSQL compiles n and returns the result as a fragment whose parts are the
// bound parameters, in order.
func ToSQL(n ast.Node, opts ...visitor.Option) (*ast.Fragment, error) {
	sql, args, err := visitor.Compile(n, opts...)
	if err != nil {
		return nil, err
	}
	parts := make([]ast.Expr, len(args))
	for i, a := range args {
		parts[i] = &ast.Literal{Value: a}
	}
	return &ast.Fragment{Template: sql, Parts: parts}, nil
}
