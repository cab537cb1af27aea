package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		naming TableNaming
		model  string
		want   string
	}{
		{TableModel, "res.partner", "res_partner"},
		{TableModel, "account.move.line", "account_move_line"},
		{TableSnake, "BlogPost", "blog_post"},
		{TableSnakePlural, "BlogPost", "blog_posts"},
		{TableSnakePlural, "Category", "categories"},
		{TableSnakePlural, "Person", "people"},
		{TableCamel, "BlogPost", "blogPost"},
		{TableCamelPlural, "BlogPost", "blogPosts"},
		{TablePascal, "blog_post", "BlogPost"},
		{TablePascalPlural, "blog_post", "BlogPosts"},
	}

	for _, tt := range tests {
		t.Run(tt.naming.String()+"/"+tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.naming.TableName(tt.model))
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"ID":          "id",
		"UserID":      "user_id",
		"HTTPServer":  "http_server",
		"createdAt":   "created_at",
		"partner_id":  "partner_id",
		"OAuth2Token": "o_auth2_token",
		"Address2":    "address2",
	}
	for in, want := range tests {
		assert.Equal(t, want, ColumnName(in), in)
	}
}

func TestParseTableNaming(t *testing.T) {
	n, err := ParseTableNaming("")
	require.NoError(t, err)
	assert.Equal(t, TableModel, n)

	n, err = ParseTableNaming("SNAKE_PLURAL")
	require.NoError(t, err)
	assert.Equal(t, TableSnakePlural, n)
	assert.True(t, n.IsPlural())
	assert.False(t, TableSnake.IsPlural())

	_, err = ParseTableNaming("kebab")
	assert.Error(t, err)
}

func TestPluralSingular(t *testing.T) {
	assert.Equal(t, "partners", Plural("partner"))
	assert.Equal(t, "Companies", Plural("Company"))
	assert.Equal(t, "partner", Singular("partners"))
	assert.Equal(t, "", Plural(""))
}
