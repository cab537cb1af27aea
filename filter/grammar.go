package filter

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IN|ILIKE|LIKE|IS|NULL|TRUE|FALSE)\b`},
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Param", Pattern: `:[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Operator", Pattern: `<>|!=|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type orExpr struct {
	Pos lexer.Position
	And []*andExpr `@@ ( "OR" @@ )*`
}

type andExpr struct {
	Not []*notExpr `@@ ( "AND" @@ )*`
}

type notExpr struct {
	Negated *notExpr `  "NOT" @@`
	Term    *term    `| @@`
}

type term struct {
	Group *orExpr    `  "(" @@ ")"`
	Cond  *condition `| @@`
}

type condition struct {
	Left *operand  `@@`
	Tail *condTail `@@?`
}

type condTail struct {
	Compare *compare `  @@`
	In      *inList  `| @@`
	Like    *like    `| @@`
	Is      *isNull  `| @@`
}

type compare struct {
	Op    string   `@Operator`
	Right *operand `@@`
}

type inList struct {
	Not    bool     `@"NOT"? "IN"`
	Values []*value `"(" @@ ( "," @@ )* ")"`
}

type like struct {
	Not     bool     `@"NOT"?`
	Op      string   `@("LIKE" | "ILIKE")`
	Pattern *operand `@@`
}

type isNull struct {
	Not bool `"IS" @"NOT"? "NULL"`
}

type operand struct {
	Pos   lexer.Position
	Func  *funcCall `  @@`
	Ref   *ref      `| @@`
	Value *value    `| @@`
}

type funcCall struct {
	Name string     `@Ident "("`
	Args []*operand `( @@ ( "," @@ )* )? ")"`
}

type ref struct {
	Row    string `@Ident`
	Column string `"." @Ident`
}

type value struct {
	Pos    lexer.Position
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @("TRUE" | "FALSE")`
	Null   bool    `| @"NULL"`
	Param  *string `| @Param`
}

var parser = participle.MustBuild[orExpr](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(4),
)
