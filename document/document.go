// Package document reads YAML query documents and builds statements from
// them. Expressions inside a document use the filter syntax, with table
// aliases declared under tables:
//
//	kind: select
//	tables:
//	  p: res.partner
//	  u: res.users
//	columns: [p.id, {expr: u.login, as: login}]
//	joins:
//	  - {kind: left, left: p, right: u, condition: u.partner_id = p.id}
//	where: p.active = true AND p.name ILIKE :pattern
//	order_by: [{expr: p.name, desc: true}]
//	limit: 10
//	params:
//	  pattern: '%acme%'
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

var ErrInvalidDocument = errors.New("invalid query document")

const (
	KindSelect = "select"
	KindInsert = "insert"
	KindUpdate = "update"
	KindDelete = "delete"
)

type Document struct {
	Kind   string            `json:"kind"`
	Tables map[string]string `json:"tables"`
	Params map[string]any    `json:"params,omitempty"`

	Columns  []Projection `json:"columns,omitempty"`
	Joins    []Join       `json:"joins,omitempty"`
	Where    string       `json:"where,omitempty"`
	GroupBy  []string     `json:"group_by,omitempty"`
	Having   string       `json:"having,omitempty"`
	OrderBy  []Order      `json:"order_by,omitempty"`
	Limit    *int         `json:"limit,omitempty"`
	Offset   *int         `json:"offset,omitempty"`
	Distinct bool         `json:"distinct,omitempty"`

	Target     string       `json:"target,omitempty"`
	Set        []Assignment `json:"set,omitempty"`
	Fields     []string     `json:"fields,omitempty"`
	Values     [][]any      `json:"values,omitempty"`
	OnConflict string       `json:"on_conflict,omitempty"`
	Using      []string     `json:"using,omitempty"`
	Returning  []Projection `json:"returning,omitempty"`
}

// Projection is a select or returning item. A plain string is an
// expression without alias.
type Projection struct {
	Expr string `json:"expr"`
	As   string `json:"as,omitempty"`
}

func (p *Projection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Projection{Expr: s}
		return nil
	}
	type plain Projection
	return json.Unmarshal(data, (*plain)(p))
}

// Order is an ORDER BY item. A plain string keeps the database default
// direction.
type Order struct {
	Expr       string `json:"expr"`
	Desc       bool   `json:"desc,omitempty"`
	NullsFirst bool   `json:"nulls_first,omitempty"`
	Explicit   bool   `json:"-"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = Order{Expr: s}
		return nil
	}
	type plain Order
	if err := json.Unmarshal(data, (*plain)(o)); err != nil {
		return err
	}
	o.Explicit = true
	return nil
}

type Join struct {
	Kind  string `json:"kind,omitempty"`
	Left  string `json:"left"`
	Right string `json:"right"`
	On    string `json:"condition,omitempty"`
}

// Assignment sets a column either to a literal value or to an expression.
type Assignment struct {
	Column string `json:"column"`
	Value  any    `json:"value,omitempty"`
	Expr   string `json:"expr,omitempty"`
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}

// Parse decodes a YAML (or JSON) document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc, useNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.Params = normalizeMap(doc.Params)
	for i, row := range doc.Values {
		for j, v := range row {
			doc.Values[i][j] = normalize(v)
		}
	}
	for i := range doc.Set {
		doc.Set[i].Value = normalize(doc.Set[i].Value)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseValue decodes a single YAML scalar or collection, as used for
// parameters given on the command line.
func ParseValue(text string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v, useNumber); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal renders the document back to YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Validate checks the fields each kind requires.
func (d *Document) Validate() error {
	if len(d.Tables) == 0 {
		return fmt.Errorf("%w: no tables", ErrInvalidDocument)
	}
	switch d.Kind {
	case KindSelect:
		if len(d.Columns) == 0 {
			return fmt.Errorf("%w: select without columns", ErrInvalidDocument)
		}
	case KindInsert:
		if d.Target == "" {
			return fmt.Errorf("%w: insert without target", ErrInvalidDocument)
		}
		for i, row := range d.Values {
			if len(d.Fields) > 0 && len(row) != len(d.Fields) {
				return fmt.Errorf("%w: row %d has %d values for %d fields",
					ErrInvalidDocument, i, len(row), len(d.Fields))
			}
		}
		if d.OnConflict != "" && d.OnConflict != "nothing" {
			return fmt.Errorf("%w: on_conflict must be \"nothing\"", ErrInvalidDocument)
		}
	case KindUpdate:
		if d.Target == "" || len(d.Set) == 0 {
			return fmt.Errorf("%w: update needs target and set", ErrInvalidDocument)
		}
	case KindDelete:
		if d.Target == "" {
			return fmt.Errorf("%w: delete without target", ErrInvalidDocument)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDocument, d.Kind)
	}
	return nil
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}

// normalize turns json.Number into int64 or float64, recursively.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case map[string]any:
		return normalizeMap(x)
	default:
		return v
	}
}
