package ast

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/qbuild/utils"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

var joinKeywords = [...]string{
	JoinInner: "INNER",
	JoinLeft:  "LEFT",
	JoinRight: "RIGHT",
	JoinFull:  "FULL",
}

func (t JoinType) String() string {
	if t < JoinInner || t > JoinFull {
		return fmt.Sprintf("JoinType(%d)", int(t))
	}
	return joinKeywords[t]
}

// ParseJoinType accepts inner, left, right and full in any case.
func ParseJoinType(kind string) (JoinType, error) {
	for t, kw := range joinKeywords {
		if strings.EqualFold(kind, kw) {
			return JoinType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidJoinKind, kind)
}

// Join attaches Right to a select. Left only takes part in FROM inference;
// a nil On renders the bare join keyword.
type Join struct {
	Kind  JoinType
	Left  Source
	Right Source
	On    Expr
}

func NewJoin(kind JoinType, left, right Source, on Expr) (*Join, error) {
	if kind < JoinInner || kind > JoinFull {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJoinKind, kind)
	}
	if right == nil {
		return nil, invalidOperand("join without a right-hand source")
	}
	return &Join{Kind: kind, Left: left, Right: right, On: on}, nil
}

// InnerJoin and the other kind helpers panic on a nil right-hand source.
func InnerJoin(left, right Source, on Expr) *Join {
	return must(NewJoin(JoinInner, left, right, on))
}

func LeftJoin(left, right Source, on Expr) *Join {
	return must(NewJoin(JoinLeft, left, right, on))
}

func RightJoin(left, right Source, on Expr) *Join {
	return must(NewJoin(JoinRight, left, right, on))
}

func FullJoin(left, right Source, on Expr) *Join {
	return must(NewJoin(JoinFull, left, right, on))
}

func (j *Join) Type() NodeType         { return NodeJoin }
func (j *Join) Accept(v Visitor) error { return v.VisitJoin(j) }
func (j *Join) Fingerprint() uint64 {
	h := utils.NewHasher("join:" + j.Kind.String()).
		U64(sourceKey(j.Left)).
		U64(sourceKey(j.Right))
	if j.On != nil {
		h.U64(j.On.Fingerprint())
	}
	return h.Sum()
}
