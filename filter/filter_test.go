package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/visitor"
)

func testEnv() Env {
	return Env{
		Rows: map[string]ast.Source{
			"p": ast.MustRow("res_partner"),
			"u": ast.MustRow("res_users"),
		},
		Params: map[string]any{
			"ids":  []int{1, 2},
			"name": "acme",
		},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		sql  string
		args []any
	}{
		{"eq", `p.id = 5`, `("res_partner"."id" = %s)`, []any{int64(5)}},
		{"float", `p.credit >= 1.5`, `("res_partner"."credit" >= %s)`, []any{1.5}},
		{"ne null", `p.name != null`, `("res_partner"."name" IS NOT NULL)`, nil},
		{"diamond", `p.name <> 'x'`, `("res_partner"."name" != %s)`, []any{"x"}},
		{
			"and ilike",
			`p.active = true AND p.name ILIKE '%acme%'`,
			`(("res_partner"."active" = %s) AND ("res_partner"."name" ILIKE %s))`,
			[]any{true, "%acme%"},
		},
		{
			"and binds tighter than or",
			`p.id = 1 OR p.id = 2 AND p.active`,
			`(("res_partner"."id" = %s) OR (("res_partner"."id" = %s) AND "res_partner"."active"))`,
			[]any{int64(1), int64(2)},
		},
		{
			"groups",
			`(p.id = 1 OR p.id = 2) AND p.active`,
			`((("res_partner"."id" = %s) OR ("res_partner"."id" = %s)) AND "res_partner"."active")`,
			[]any{int64(1), int64(2)},
		},
		{
			"not group",
			`NOT (p.id IN (1, 2))`,
			`(NOT ("res_partner"."id" IN %s))`,
			[]any{ast.Tuple{int64(1), int64(2)}},
		},
		{
			"not in param",
			`p.id NOT IN (:ids)`,
			`("res_partner"."id" NOT IN %s)`,
			[]any{ast.Tuple{1, 2}},
		},
		{
			"not like with escaped quote",
			`p.name NOT LIKE 'o''neil%'`,
			`(NOT ("res_partner"."name" LIKE %s))`,
			[]any{"o'neil%"},
		},
		{"function", `lower(p.name) = :name`, `(lower("res_partner"."name") = %s)`, []any{"acme"}},
		{"two rows", `u.partner_id = p.id`, `("res_users"."partner_id" = "res_partner"."id")`, nil},
		{"is null", `p.parent_id IS NULL`, `("res_partner"."parent_id" IS NULL)`, nil},
		{"is not null", `p.parent_id is not null`, `("res_partner"."parent_id" IS NOT NULL)`, nil},
		{
			"lowercase keywords",
			`p.id in (3) and not p.active`,
			`(("res_partner"."id" IN %s) AND (NOT "res_partner"."active"))`,
			[]any{ast.Tuple{int64(3)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.src, testEnv())
			require.NoError(t, err)

			sql, args, err := visitor.Compile(expr)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown row", `x.id = 1`, ErrUnknownRow},
		{"unknown param", `p.id = :missing`, ErrUnknownParam},
		{"dangling operator", `p.id =`, ErrSyntax},
		{"empty in", `p.id IN ()`, ErrSyntax},
		{"quoted identifier", `p."id" = 1`, ErrSyntax},
		{"numeric like pattern", `p.name LIKE 5`, ast.ErrInvalidOperand},
		{"reserved column", `p.__class__ = 1`, ast.ErrReservedAttribute},
		{"bad function name", `p.id = 1 AND 1bad(p.id)`, ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, testEnv())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse(`p.id ==`, testEnv()) })
	assert.NotPanics(t, func() { MustParse(`p.id = 1`, testEnv()) })
}
