package ast

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Row references one row of a physical table. Aliases are not stored on the
// Row: each compilation assigns its own, so a Row can be shared freely
// between statements.
type Row struct {
	Table string
	id    uint64
}

// NewRow validates the table name and returns a fresh row identity.
func NewRow(table string) (*Row, error) {
	if err := dialect.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &Row{Table: table, id: nextIdentity()}, nil
}

// MustRow is NewRow for table names known at compile time.
func MustRow(table string) *Row {
	return must(NewRow(table))
}

func (r *Row) Type() NodeType         { return NodeRow }
func (r *Row) Accept(v Visitor) error { return v.VisitRow(r) }
func (r *Row) Fingerprint() uint64 {
	return utils.NewHasher("row").Str(r.Table).U64(r.id).Sum()
}
func (r *Row) sourceNode()      {}
func (r *Row) Identity() uint64 { return r.id }

func (r *Row) Col(name string) (*Column, error) { return newColumn(r, name) }
func (r *Row) C(name string) *Column            { return must(r.Col(name)) }

func (r *Row) String() string { return fmt.Sprintf("Row(%s)", r.Table) }

func validateColumnName(name string) error {
	if strings.HasPrefix(name, "__") {
		return fmt.Errorf("%w: %q", ErrReservedAttribute, name)
	}
	return dialect.ValidateIdentifier(name)
}

func validateColumnNames(names []string) error {
	for _, name := range names {
		if err := validateColumnName(name); err != nil {
			return err
		}
	}
	return nil
}
