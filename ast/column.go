package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// Column is a named column of a row source.
type Column struct {
	Source Source
	Name   string
}

func newColumn(src Source, name string) (*Column, error) {
	if err := validateColumnName(name); err != nil {
		return nil, err
	}
	return &Column{Source: src, Name: name}, nil
}

func (c *Column) Type() NodeType         { return NodeColumn }
func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }
func (c *Column) Fingerprint() uint64 {
	return utils.NewHasher("col").U64(sourceKey(c.Source)).Str(c.Name).Sum()
}
func (c *Column) exprNode() {}

// sourceKey identifies a source inside a fingerprint. Rows already hash
// their identity; queries mix their structure with their identity so two
// equal sub-selects used side by side stay distinct.
func sourceKey(src Source) uint64 {
	if src == nil {
		return 0
	}
	if r, ok := src.(*Row); ok {
		return r.Fingerprint()
	}
	return utils.Mix64(src.Fingerprint(), src.Identity())
}
