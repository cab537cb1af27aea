package ast

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/qbuild/dialect"
)

var (
	// ErrInvalidIdentifier is returned for empty or pre-quoted names.
	ErrInvalidIdentifier   = dialect.ErrInvalidIdentifier
	// ErrPlaceholderMismatch is returned by SQL for a template/parts mismatch.
	ErrPlaceholderMismatch = dialect.ErrPlaceholderMismatch
	ErrEmptyIn             = errors.New("IN requires at least one value")
	ErrInvalidJoinKind     = errors.New("join kind must be one of inner, left, right, full")
	ErrInvalidOnConflict   = errors.New("invalid ON CONFLICT clause")
	ErrInvalidUpdate       = errors.New("invalid UPDATE assignments")
	ErrInvalidOperand      = errors.New("invalid operand")
	// ErrReservedAttribute is returned for dunder column names.
	ErrReservedAttribute   = errors.New("reserved attribute")
	ErrNotImplemented      = errors.New("not implemented")
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func invalidOperand(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidOperand}, args...)...)
}
