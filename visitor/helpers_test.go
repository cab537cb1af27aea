package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/qbuild/ast"
)

func build(t *testing.T, n ast.Node) (string, []any) {
	t.Helper()
	sql, args, err := NewSQLVisitor().Build(n)
	require.NoError(t, err)
	return sql, args
}

func assertSQL(t *testing.T, n ast.Node, want string, wantArgs ...any) {
	t.Helper()
	sql, args := build(t, n)
	assert.Equal(t, want, sql)
	if len(wantArgs) == 0 {
		assert.Empty(t, args)
		return
	}
	assert.Equal(t, wantArgs, args)
}
