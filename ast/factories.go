package ast

import (
	"fmt"
	"sort"
)

// Helpers for building nodes from runtime column names, where the
// panicking C accessor is not appropriate.

// Columns resolves names against src.
func Columns(src Source, names ...string) ([]*Column, error) {
	cols := make([]*Column, len(names))
	for i, name := range names {
		col, err := src.Col(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

// Match builds the conjunction of column = value over fields, in column
// name order. Nil values compare with IS NULL.
func Match(src Source, fields map[string]any) (Expr, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty match", ErrInvalidOperand)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out Expr
	for _, name := range names {
		col, err := src.Col(name)
		if err != nil {
			return nil, err
		}
		cond := Eq(col, fields[name])
		if out == nil {
			out = cond
		} else {
			out = And(out, cond)
		}
	}
	return out, nil
}

// WhereIn is In over a named column.
func WhereIn(src Source, name string, values ...any) (Expr, error) {
	col, err := src.Col(name)
	if err != nil {
		return nil, err
	}
	return In(col, values...)
}

// OrderBy orders by a named column.
func OrderBy(src Source, name string, desc bool) (*Order, error) {
	col, err := src.Col(name)
	if err != nil {
		return nil, err
	}
	if desc {
		return Desc(col), nil
	}
	return Asc(col), nil
}
