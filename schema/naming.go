// Package schema maps model and field names to table and column names.
package schema

import (
	"fmt"
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// TableNaming is a convention for deriving table names from model names.
type TableNaming int

const (
	TableModel        TableNaming = iota // res.partner -> res_partner
	TableSnake                           // BlogPost -> blog_post
	TableSnakePlural                     // BlogPost -> blog_posts
	TableCamel                           // BlogPost -> blogPost
	TableCamelPlural                     // BlogPost -> blogPosts
	TablePascal                          // blog_post -> BlogPost
	TablePascalPlural                    // blog_post -> BlogPosts
)

var tableNamingNames = [...]string{
	TableModel:        "model",
	TableSnake:        "snake",
	TableSnakePlural:  "snake_plural",
	TableCamel:        "camel",
	TableCamelPlural:  "camel_plural",
	TablePascal:       "pascal",
	TablePascalPlural: "pascal_plural",
}

func (t TableNaming) String() string {
	if t < 0 || int(t) >= len(tableNamingNames) {
		return fmt.Sprintf("TableNaming(%d)", int(t))
	}
	return tableNamingNames[t]
}

// ParseTableNaming accepts the names printed by String. The empty string
// selects TableModel.
func ParseTableNaming(name string) (TableNaming, error) {
	if name == "" {
		return TableModel, nil
	}
	for i, n := range tableNamingNames {
		if strings.EqualFold(n, name) {
			return TableNaming(i), nil
		}
	}
	return 0, fmt.Errorf("unknown table naming %q", name)
}

func (t TableNaming) IsPlural() bool {
	switch t {
	case TableSnakePlural, TableCamelPlural, TablePascalPlural:
		return true
	default:
		return false
	}
}

// TableName converts a model name according to t.
func (t TableNaming) TableName(model string) string {
	switch t {
	case TableModel:
		return strings.ReplaceAll(model, ".", "_")
	case TableSnake:
		return toSnakeCase(model)
	case TableSnakePlural:
		return Plural(toSnakeCase(model))
	case TableCamel:
		return toCamelCase(model)
	case TableCamelPlural:
		return pluralizeLast(toCamelCase(model))
	case TablePascal:
		return toPascalCase(model)
	case TablePascalPlural:
		return pluralizeLast(toPascalCase(model))
	default:
		return Plural(toSnakeCase(model))
	}
}

// ColumnName converts a Go style field name to snake_case.
func ColumnName(field string) string {
	return toSnakeCase(field)
}

var acronyms = map[string]string{
	"ID":     "id",
	"UUID":   "uuid",
	"URL":    "url",
	"HTTP":   "http",
	"API":    "api",
	"JSON":   "json",
	"SQL":    "sql",
	"OAuth":  "o_auth",
	"OAuth2": "o_auth2",
}

func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if s, ok := acronyms[name]; ok {
		return s
	}
	name = strings.ReplaceAll(name, ".", "_")
	if !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && runes[i-1] != '_' {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func toCamelCase(name string) string {
	pascal := toPascalCase(name)
	if pascal == "" {
		return ""
	}
	r := []rune(pascal)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func toPascalCase(name string) string {
	var result strings.Builder
	for _, part := range strings.Split(toSnakeCase(name), "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		result.WriteString(string(r))
	}
	return result.String()
}

// pluralizeLast pluralizes the final word of a camel or Pascal cased name.
func pluralizeLast(name string) string {
	runes := []rune(name)
	cut := 0
	for i := len(runes) - 1; i > 0; i-- {
		if unicode.IsUpper(runes[i]) {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + Plural(string(runes[cut:]))
}

// Plural returns the plural form of a word, keeping its case pattern.
func Plural(name string) string {
	if name == "" {
		return ""
	}
	return preserveCase(name, pluralizeClient.Plural(name))
}

// Singular returns the singular form of a word, keeping its case pattern.
func Singular(name string) string {
	if name == "" {
		return ""
	}
	return preserveCase(name, pluralizeClient.Singular(name))
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	}
	return strings.ToLower(result)
}
