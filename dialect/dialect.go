package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrPlaceholderMismatch = errors.New("placeholder count does not match parameters")
)

// Dialect describes how a driver expects identifiers, placeholders and
// inlined values. Compiled statements always use the %s placeholder style;
// Rebind translates them for a concrete driver.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) (string, error)
	Placeholder(n int) string
	RenderValue(v any) string
}

// Tupler is implemented by parameters that expand to a parenthesized list,
// as used by IN against a literal sequence.
type Tupler interface {
	TupleValues() []any
}

var bareIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier rejects names that cannot be safely double-quoted.
// A % would read as a placeholder in compiled text.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}
	if strings.ContainsRune(name, '"') {
		return fmt.Errorf("%w: %q must not already contain quotes", ErrInvalidIdentifier, name)
	}
	if strings.ContainsRune(name, '%') {
		return fmt.Errorf("%w: %q must not contain %%", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateAlias accepts only bare identifiers, since column aliases are
// rendered unquoted.
func ValidateAlias(alias string) error {
	if !bareIdentifier.MatchString(alias) {
		return fmt.Errorf("%w: alias %q must be a bare identifier", ErrInvalidIdentifier, alias)
	}
	return nil
}

// Quote double-quotes an identifier that already passed ValidateIdentifier.
func Quote(name string) string {
	return `"` + name + `"`
}

func quoteChecked(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return Quote(name), nil
}

// Rebind rewrites every %s placeholder into the dialect's own style and
// flattens Tupler parameters into one placeholder per element. %% is
// emitted as a single %.
func Rebind(d Dialect, query string, args []any) (string, []any, error) {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	out := make([]any, 0, len(args))
	next := 0

	err := scan(query, func(lit string) {
		sb.WriteString(lit)
	}, func() error {
		if next >= len(args) {
			return fmt.Errorf("%w: more placeholders than %d params", ErrPlaceholderMismatch, len(args))
		}
		arg := args[next]
		next++
		if t, ok := arg.(Tupler); ok {
			vals := t.TupleValues()
			sb.WriteByte('(')
			for i, v := range vals {
				if i > 0 {
					sb.WriteString(", ")
				}
				out = append(out, v)
				sb.WriteString(d.Placeholder(len(out)))
			}
			sb.WriteByte(')')
			return nil
		}
		out = append(out, arg)
		sb.WriteString(d.Placeholder(len(out)))
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if next != len(args) {
		return "", nil, fmt.Errorf("%w: %d placeholders, %d params", ErrPlaceholderMismatch, next, len(args))
	}
	return sb.String(), out, nil
}

// Interpolate inlines every parameter using the dialect's literal syntax.
// The result is for display only and must never be executed.
func Interpolate(d Dialect, query string, args []any) (string, error) {
	var sb strings.Builder
	next := 0

	err := scan(query, func(lit string) {
		sb.WriteString(lit)
	}, func() error {
		if next >= len(args) {
			return fmt.Errorf("%w: more placeholders than %d params", ErrPlaceholderMismatch, len(args))
		}
		arg := args[next]
		next++
		if t, ok := arg.(Tupler); ok {
			vals := t.TupleValues()
			sb.WriteByte('(')
			for i, v := range vals {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(d.RenderValue(v))
			}
			sb.WriteByte(')')
			return nil
		}
		sb.WriteString(d.RenderValue(arg))
		return nil
	})
	if err != nil {
		return "", err
	}
	if next != len(args) {
		return "", fmt.Errorf("%w: %d placeholders, %d params", ErrPlaceholderMismatch, next, len(args))
	}
	return sb.String(), nil
}

// CountPlaceholders returns the number of %s markers in a template.
func CountPlaceholders(template string) int {
	n := 0
	_ = scan(template, func(string) {}, func() error {
		n++
		return nil
	})
	return n
}

func scan(query string, literal func(string), placeholder func() error) error {
	start := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '%' || i+1 >= len(query) {
			continue
		}
		switch query[i+1] {
		case '%':
			literal(query[start:i])
			literal("%")
			i++
			start = i + 1
		case 's':
			literal(query[start:i])
			if err := placeholder(); err != nil {
				return err
			}
			i++
			start = i + 1
		}
	}
	literal(query[start:])
	return nil
}
