package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// Delete is an immutable DELETE statement.
type Delete struct {
	Target  *Row
	Sources []Source
	Filter  Expr
	Returns []Node
}

func NewDelete(target *Row) (*Delete, error) {
	if target == nil {
		return nil, invalidOperand("DELETE without a target")
	}
	return &Delete{Target: target}, nil
}

func MustDelete(target *Row) *Delete {
	return must(NewDelete(target))
}

// Table returns a copy deleting from another row.
func (d *Delete) Table(target *Row) (*Delete, error) {
	if target == nil {
		return nil, invalidOperand("DELETE without a target")
	}
	cp := *d
	cp.Target = target
	return &cp, nil
}

// Using replaces the USING list; no arguments clears it.
func (d *Delete) Using(sources ...Source) *Delete {
	cp := *d
	cp.Sources = append([]Source(nil), sources...)
	return &cp
}

func (d *Delete) Where(cond Expr) *Delete {
	cp := *d
	cp.Filter = cond
	return &cp
}

func (d *Delete) Returning(items ...any) *Delete {
	cp := *d
	cp.Returns = returning(items)
	return &cp
}

func (d *Delete) Type() NodeType         { return NodeDelete }
func (d *Delete) Accept(v Visitor) error { return v.VisitDelete(d) }
func (d *Delete) Fingerprint() uint64 {
	h := utils.NewHasher("delete")
	if d.Target != nil {
		h.U64(d.Target.Fingerprint())
	}
	for _, src := range d.Sources {
		h.U64(sourceKey(src))
	}
	if d.Filter != nil {
		h.Str("where").U64(d.Filter.Fingerprint())
	}
	hashNodes(h, "returning", d.Returns)
	return h.Sum()
}
func (d *Delete) statementNode() {}
