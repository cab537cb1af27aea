package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/utils"
)

// OnConflict is the ON CONFLICT clause of an INSERT. A nil Update means
// DO NOTHING.
type OnConflict struct {
	Columns []*Column
	Update  *Update
}

// DoNothing is ON CONFLICT DO NOTHING.
func DoNothing() *OnConflict {
	return &OnConflict{}
}

// DoUpdate is ON CONFLICT (columns) DO UPDATE. The conflict target must be
// non-empty and the update is required.
func DoUpdate(columns []*Column, update *Update) (*OnConflict, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: DO UPDATE needs a conflict target", ErrInvalidOnConflict)
	}
	if update == nil {
		return nil, fmt.Errorf("%w: DO UPDATE needs an update", ErrInvalidOnConflict)
	}
	return &OnConflict{Columns: append([]*Column(nil), columns...), Update: update}, nil
}

func (o *OnConflict) fingerprint() uint64 {
	h := utils.NewHasher("conflict")
	for _, c := range o.Columns {
		h.U64(c.Fingerprint())
	}
	if o.Update != nil {
		h.U64(o.Update.Fingerprint())
	}
	return h.Sum()
}

// Insert is an immutable INSERT statement. It inserts either literal rows
// or the result of a query.
type Insert struct {
	Target    *Row
	Columns   []string
	ValueRows [][]Expr
	Source    Query
	Conflict  *OnConflict
	Returns   []Node
}

// NewInsert targets row with an optional column list.
func NewInsert(target *Row, columns ...string) (*Insert, error) {
	if target == nil {
		return nil, invalidOperand("INSERT without a target row")
	}
	if err := validateColumnNames(columns); err != nil {
		return nil, err
	}
	return &Insert{Target: target, Columns: append([]string(nil), columns...)}, nil
}

func MustInsert(target *Row, columns ...string) *Insert {
	return must(NewInsert(target, columns...))
}

// Into returns a copy targeting another row and column list.
func (i *Insert) Into(target *Row, columns ...string) (*Insert, error) {
	next, err := NewInsert(target, columns...)
	if err != nil {
		return nil, err
	}
	cp := *i
	cp.Target, cp.Columns = next.Target, next.Columns
	return &cp, nil
}

// Values replaces the inserted data with a single row. A lone Query value
// switches to INSERT ... SELECT.
func (i *Insert) Values(values ...any) *Insert {
	if len(values) == 1 {
		if q, ok := values[0].(Query); ok {
			return i.Query(q)
		}
	}
	return i.Rows(values)
}

// Rows replaces the inserted data with several rows of VALUES.
func (i *Insert) Rows(rows ...[]any) *Insert {
	cp := *i
	cp.Source = nil
	cp.ValueRows = make([][]Expr, len(rows))
	for n, row := range rows {
		cp.ValueRows[n] = toExprs(row)
	}
	return &cp
}

// Query replaces the inserted data with the result of q.
func (i *Insert) Query(q Query) *Insert {
	cp := *i
	cp.ValueRows = nil
	cp.Source = q
	return &cp
}

func (i *Insert) OnConflictDoNothing() *Insert {
	cp := *i
	cp.Conflict = DoNothing()
	return &cp
}

// OnConflict sets the conflict clause; a DO UPDATE must update the insert
// target. A nil clause removes it.
func (i *Insert) OnConflict(oc *OnConflict) (*Insert, error) {
	if oc != nil && oc.Update != nil && oc.Update.Target != i.Target {
		return nil, fmt.Errorf("%w: DO UPDATE targets %s, insert targets %s",
			ErrInvalidOnConflict, oc.Update.Target, i.Target)
	}
	cp := *i
	cp.Conflict = oc
	return &cp, nil
}

// Returning replaces the RETURNING list. Target columns are rendered
// with the table name since INSERT does not alias its target.
func (i *Insert) Returning(items ...any) *Insert {
	cp := *i
	cp.Returns = returning(items)
	return &cp
}

func (i *Insert) Type() NodeType         { return NodeInsert }
func (i *Insert) Accept(v Visitor) error { return v.VisitInsert(i) }
func (i *Insert) Fingerprint() uint64 {
	h := utils.NewHasher("insert").U64(i.Target.Fingerprint())
	for _, c := range i.Columns {
		h.Str(c)
	}
	for _, row := range i.ValueRows {
		h.Str("row")
		for _, v := range row {
			h.U64(v.Fingerprint())
		}
	}
	if i.Source != nil {
		h.Str("query").U64(i.Source.Fingerprint())
	}
	if i.Conflict != nil {
		h.U64(i.Conflict.fingerprint())
	}
	hashNodes(h, "returning", i.Returns)
	return h.Sum()
}
func (i *Insert) statementNode() {}
