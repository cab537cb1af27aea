package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Fragment is raw SQL with %s placeholders, one per part. Literal parts are
// bound as parameters, expression parts are compiled in place. A compiled
// statement is itself a Fragment whose parts are all literals.
type Fragment struct {
	Template string
	Parts    []Expr
}

// SQL builds a fragment; the number of %s placeholders in template must
// match len(parts). Use %% for a literal percent sign.
func SQL(template string, parts ...any) (*Fragment, error) {
	if n := dialect.CountPlaceholders(template); n != len(parts) {
		return nil, fmt.Errorf("%w: template has %d placeholders, got %d parts",
			dialect.ErrPlaceholderMismatch, n, len(parts))
	}
	return &Fragment{Template: template, Parts: toExprs(parts)}, nil
}

func MustSQL(template string, parts ...any) *Fragment {
	return must(SQL(template, parts...))
}

// Params returns the bound values of a fragment. Parts that are not
// literals are returned as nodes.
func (f *Fragment) Params() []any {
	out := make([]any, len(f.Parts))
	for i, p := range f.Parts {
		if lit, ok := p.(*Literal); ok {
			out[i] = lit.Value
		} else {
			out[i] = p
		}
	}
	return out
}

// Equal reports whether both fragments have the same template and parts.
func (f *Fragment) Equal(other *Fragment) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Template == other.Template && f.Fingerprint() == other.Fingerprint()
}

func (f *Fragment) String() string {
	return fmt.Sprintf("SQL(%q, %v)", f.Template, f.Params())
}

func (f *Fragment) Type() NodeType         { return NodeFragment }
func (f *Fragment) Accept(v Visitor) error { return v.VisitFragment(f) }
func (f *Fragment) Fingerprint() uint64 {
	h := utils.NewHasher("sql").Str(f.Template)
	for _, p := range f.Parts {
		h.U64(p.Fingerprint())
	}
	return h.Sum()
}
func (f *Fragment) exprNode() {}
