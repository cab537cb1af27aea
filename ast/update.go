package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Assignment is one SET column = value pair.
type Assignment struct {
	Column *Column
	Value  Expr
}

// Set builds an assignment. Values may be literals, Null/Default,
// columns of other rows, expressions or sub-queries.
func Set(col *Column, value any) Assignment {
	return Assignment{Column: col, Value: toExpr(value)}
}

// Update is an immutable UPDATE statement. Rows other than the target
// that appear in assignment values or in the filter become an implicit
// FROM clause.
type Update struct {
	Target      *Row
	Assignments []Assignment
	Filter      Expr
	Returns     []Node
}

// NewUpdate requires at least one assignment and every assigned column to
// belong to the same table row.
func NewUpdate(assignments ...Assignment) (*Update, error) {
	target, err := updateTarget(assignments)
	if err != nil {
		return nil, err
	}
	return &Update{Target: target, Assignments: append([]Assignment(nil), assignments...)}, nil
}

func MustUpdate(assignments ...Assignment) *Update {
	return must(NewUpdate(assignments...))
}

func updateTarget(assignments []Assignment) (*Row, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("%w: no assignments", ErrInvalidUpdate)
	}
	var target *Row
	for _, a := range assignments {
		if a.Column == nil {
			return nil, fmt.Errorf("%w: missing column", ErrInvalidUpdate)
		}
		row, ok := a.Column.Source.(*Row)
		if !ok {
			return nil, fmt.Errorf("%w: %q does not belong to a table", ErrInvalidUpdate, a.Column.Name)
		}
		if target == nil {
			target = row
		} else if row != target {
			return nil, fmt.Errorf("%w: columns of %s and %s", ErrInvalidUpdate, target, row)
		}
	}
	return target, nil
}

// Set returns a copy with the assignments replaced.
func (u *Update) Set(assignments ...Assignment) (*Update, error) {
	target, err := updateTarget(assignments)
	if err != nil {
		return nil, err
	}
	cp := *u
	cp.Target = target
	cp.Assignments = append([]Assignment(nil), assignments...)
	return &cp, nil
}

func (u *Update) Where(cond Expr) *Update {
	cp := *u
	cp.Filter = cond
	return &cp
}

func (u *Update) Returning(items ...any) *Update {
	cp := *u
	cp.Returns = returning(items)
	return &cp
}

// FromList is the implicit FROM clause: rows of the assignment values and
// the filter, in first-reference order, without the target.
func (u *Update) FromList() []Source {
	set := newSourceSet()
	for _, a := range u.Assignments {
		set.add(Rows(a.Value)...)
	}
	if u.Filter != nil {
		set.add(Rows(u.Filter)...)
	}
	set.remove(u.Target)
	return set.list()
}

func (u *Update) Type() NodeType         { return NodeUpdate }
func (u *Update) Accept(v Visitor) error { return v.VisitUpdate(u) }
func (u *Update) Fingerprint() uint64 {
	h := utils.NewHasher("update").U64(u.Target.Fingerprint())
	for _, a := range u.Assignments {
		h.Str(a.Column.Name).U64(a.Value.Fingerprint())
	}
	if u.Filter != nil {
		h.Str("where").U64(u.Filter.Fingerprint())
	}
	hashNodes(h, "returning", u.Returns)
	return h.Sum()
}
func (u *Update) statementNode() {}
