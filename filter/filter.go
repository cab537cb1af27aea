// Package filter parses textual predicates such as
//
//	p.active = true AND (p.name ILIKE '%acme%' OR p.id IN (1, 2, :extra))
//
// into ast expressions over named row sources. String literals use single
// quotes with '' as the escape; :name refers to a bound parameter.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/qbuild/ast"
)

var (
	ErrSyntax       = errors.New("filter syntax error")
	ErrUnknownRow   = errors.New("unknown row")
	ErrUnknownParam = errors.New("unknown parameter")
)

// Env resolves the row names and parameters a filter refers to.
type Env struct {
	Rows   map[string]ast.Source
	Params map[string]any
}

// Parse compiles src into an expression.
func Parse(src string, env Env) (ast.Expr, error) {
	tree, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return env.or(tree)
}

// MustParse is Parse for static filters; it panics on error.
func MustParse(src string, env Env) ast.Expr {
	e, err := Parse(src, env)
	if err != nil {
		panic(err)
	}
	return e
}

func (env Env) or(n *orExpr) (ast.Expr, error) {
	exprs := make([]ast.Expr, 0, len(n.And))
	for _, a := range n.And {
		e, err := env.and(a)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return ast.Or(exprs[0], exprs[1], exprs[2:]...), nil
}

func (env Env) and(n *andExpr) (ast.Expr, error) {
	exprs := make([]ast.Expr, 0, len(n.Not))
	for _, x := range n.Not {
		e, err := env.not(x)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return ast.And(exprs[0], exprs[1], exprs[2:]...), nil
}

func (env Env) not(n *notExpr) (ast.Expr, error) {
	if n.Negated != nil {
		e, err := env.not(n.Negated)
		if err != nil {
			return nil, err
		}
		return ast.Not(e), nil
	}
	if n.Term.Group != nil {
		return env.or(n.Term.Group)
	}
	return env.condition(n.Term.Cond)
}

func (env Env) condition(c *condition) (ast.Expr, error) {
	left, err := env.operand(c.Left)
	if err != nil {
		return nil, err
	}
	tail := c.Tail
	switch {
	case tail == nil:
		return ast.Value(left), nil

	case tail.Compare != nil:
		right, err := env.operand(tail.Compare.Right)
		if err != nil {
			return nil, err
		}
		return comparison(tail.Compare.Op, left, right)

	case tail.In != nil:
		values := make([]any, len(tail.In.Values))
		for i, v := range tail.In.Values {
			if values[i], err = env.value(v); err != nil {
				return nil, err
			}
		}
		if tail.In.Not {
			return ast.NotIn(left, values...)
		}
		return ast.In(left, values...)

	case tail.Like != nil:
		pattern, err := env.operand(tail.Like.Pattern)
		if err != nil {
			return nil, err
		}
		if _, ok := pattern.(ast.Expr); !ok {
			if _, ok := pattern.(string); !ok {
				return nil, fmt.Errorf("%w: %s pattern must be a string, got %T",
					ast.ErrInvalidOperand, tail.Like.Op, pattern)
			}
		}
		var e ast.Expr
		if strings.EqualFold(tail.Like.Op, "ILIKE") {
			e = ast.ILike(left, pattern)
		} else {
			e = ast.Like(left, pattern)
		}
		if tail.Like.Not {
			e = ast.Not(e)
		}
		return e, nil

	default:
		if tail.Is.Not {
			return ast.IsNotNull(left), nil
		}
		return ast.IsNull(left), nil
	}
}

func comparison(op string, left, right any) (ast.Expr, error) {
	switch op {
	case "=":
		return ast.Eq(left, right), nil
	case "!=", "<>":
		return ast.Ne(left, right), nil
	case "<":
		return ast.Lt(left, right), nil
	case "<=":
		return ast.Le(left, right), nil
	case ">":
		return ast.Gt(left, right), nil
	case ">=":
		return ast.Ge(left, right), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", ErrSyntax, op)
	}
}

// operand returns an ast.Expr for references and calls, or the plain Go
// value of a literal.
func (env Env) operand(o *operand) (any, error) {
	switch {
	case o.Func != nil:
		args := make([]any, len(o.Func.Args))
		for i, a := range o.Func.Args {
			v, err := env.operand(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return ast.NewFunc(strings.ToLower(o.Func.Name), args...)

	case o.Ref != nil:
		src, ok := env.Rows[o.Ref.Row]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrUnknownRow, o.Ref.Row, o.Pos)
		}
		return src.Col(o.Ref.Column)

	default:
		return env.value(o.Value)
	}
}

func (env Env) value(v *value) (any, error) {
	switch {
	case v.String != nil:
		s := *v.String
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	case v.Number != nil:
		if n, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return n, nil
		}
		return strconv.ParseFloat(*v.Number, 64)
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "true"), nil
	case v.Null:
		return ast.Null, nil
	default:
		name := strings.TrimPrefix(*v.Param, ":")
		p, ok := env.Params[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrUnknownParam, name, v.Pos)
		}
		return p, nil
	}
}
