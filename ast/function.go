package ast

import (
	"regexp"

	"github.com/Konsultn-Engineering/qbuild/utils"
)

var functionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Func is a function call rendered as name(args). A Row argument renders
// as * and a Query argument as a parenthesized sub-query.
type Func struct {
	Name string
	Args []Node
	// Suffix is appended verbatim after the closing parenthesis.
	Suffix string
}

// NewFunc validates the function name. Arguments are converted like
// operands; bare rows are kept as rows.
func NewFunc(name string, args ...any) (*Func, error) {
	if !functionName.MatchString(name) {
		return nil, invalidOperand("function name %q", name)
	}
	return &Func{Name: name, Args: toNodes(args)}, nil
}

// Fn is NewFunc for names known at compile time.
func Fn(name string, args ...any) *Func {
	return must(NewFunc(name, args...))
}

func (f *Func) Type() NodeType         { return NodeFunction }
func (f *Func) Accept(v Visitor) error { return v.VisitFunction(f) }
func (f *Func) Fingerprint() uint64 {
	h := utils.NewHasher("func:" + f.Name).Str(f.Suffix)
	for _, arg := range f.Args {
		h.U64(arg.Fingerprint())
	}
	return h.Sum()
}
func (f *Func) exprNode() {}

func Avg(x any) *Func            { return Fn("avg", x) }
func Count(x any) *Func          { return Fn("count", x) }
func Sum(x any) *Func            { return Fn("sum", x) }
func Max(x any) *Func            { return Fn("max", x) }
func Min(x any) *Func            { return Fn("min", x) }
func Coalesce(args ...any) *Func { return Fn("coalesce", args...) }
func NullIf(x, y any) *Func      { return Fn("nullif", x, y) }
func Concat(args ...any) *Func   { return Fn("concat", args...) }
func Exists(q Query) *Func       { return Fn("exists", q) }
func Any(x any) *Func            { return Fn("any", x) }
func Length(x any) *Func         { return Fn("length", x) }
func Abs(x any) *Func            { return Fn("abs", x) }
func Mod(x, y any) *Func         { return Fn("mod", x, y) }
func Pow(x, y any) *Func         { return Fn("pow", x, y) }

// Substr is substr(x, from[, length]).
func Substr(x any, bounds ...any) *Func {
	return Fn("substr", append([]any{x}, bounds...)...)
}

// Now is the current UTC timestamp.
func Now() *Func {
	return &Func{Name: "now", Suffix: " at timezone 'UTC'"}
}

// Unnest expands arrays into a set of rows. It is usable both as a FROM
// source and, through its columns or directly, as a value.
type Unnest struct {
	Args []Expr
	id   uint64
}

// NewUnnest builds unnest(args...). A slice argument is bound as one
// array parameter.
func NewUnnest(args ...any) *Unnest {
	return &Unnest{Args: toExprs(args), id: nextIdentity()}
}

func (u *Unnest) Type() NodeType         { return NodeUnnest }
func (u *Unnest) Accept(v Visitor) error { return v.VisitUnnest(u) }
func (u *Unnest) Fingerprint() uint64 {
	h := utils.NewHasher("unnest").U64(u.id)
	for _, arg := range u.Args {
		h.U64(arg.Fingerprint())
	}
	return h.Sum()
}
func (u *Unnest) exprNode()        {}
func (u *Unnest) sourceNode()      {}
func (u *Unnest) Identity() uint64 { return u.id }

func (u *Unnest) Col(name string) (*Column, error) { return newColumn(u, name) }
func (u *Unnest) C(name string) *Column            { return must(u.Col(name)) }
