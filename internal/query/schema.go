// Package query turns a model.ListQuery into a validated Plan and evaluates it
// either as SQL (relational backend) or in memory (flat-file backend), so both
// backends filter, sort and page records the same way.
package query

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrUnknownSort  = errors.New("unknown sort field")
)

// Column is one field a listing can filter or sort on.
type Column struct {
	Name string
	// Expr is the SQL expression producing the column as text-or-number,
	// with NULL references already mapped to the None sentinel.
	Expr string
	// Exact columns hold identifiers; a targeted search compares them for
	// equality instead of substring containment.
	Exact bool
	// Numeric columns sort by value, not lexically.
	Numeric bool
	// Search marks the column as part of the free-text any-field match.
	Search bool
}

// Schema describes the filterable and sortable columns of one record type.
type Schema struct {
	Entity  string
	Key     string
	Columns []Column
	// Name holds the first/last name columns whose concatenation is matched
	// word by word in free-text search. Empty for records without names.
	Name        [2]string
	DefaultSort string
	DefaultThen string
	// Pairs are the (primary, secondary) sort combinations offered to users.
	// Any column may still be used on either side.
	Pairs [][2]string
}

// Column looks a column up by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Fields lists the column names in declaration order.
func (s Schema) Fields() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s Schema) hasName() bool {
	return s.Name[0] != "" && s.Name[1] != ""
}

func (s Schema) mustColumn(name string) Column {
	c, ok := s.Column(name)
	if !ok {
		panic(fmt.Sprintf("query: schema %s has no column %q", s.Entity, name))
	}
	return c
}

// Colleges is the schema of the colleges table (alias c).
var Colleges = Schema{
	Entity: "college",
	Key:    "college_code",
	Columns: []Column{
		{Name: "college_code", Expr: "c.college_code", Exact: true, Search: true},
		{Name: "college_name", Expr: "c.college_name", Search: true},
	},
	DefaultSort: "college_code",
	DefaultThen: "college_name",
	Pairs: [][2]string{
		{"college_code", "college_name"},
		{"college_name", "college_code"},
	},
}

// Programs is the schema of the programs table (alias p).
var Programs = Schema{
	Entity: "program",
	Key:    "program_code",
	Columns: []Column{
		{Name: "program_code", Expr: "p.program_code", Exact: true, Search: true},
		{Name: "program_name", Expr: "p.program_name", Search: true},
		{Name: "college_code", Expr: "COALESCE(p.college_code, 'N/A')", Exact: true, Search: true},
	},
	DefaultSort: "program_code",
	DefaultThen: "program_name",
	Pairs: [][2]string{
		{"program_code", "program_name"},
		{"program_name", "college_code"},
		{"college_code", "program_name"},
	},
}

// Students is the schema of the students table (alias s) joined to programs
// (alias p) for the derived college.
var Students = Schema{
	Entity: "student",
	Key:    "id_number",
	Columns: []Column{
		{Name: "id_number", Expr: "s.id_number", Exact: true, Search: true},
		{Name: "first_name", Expr: "s.first_name", Search: true},
		{Name: "last_name", Expr: "s.last_name", Search: true},
		{Name: "full_name", Expr: "(s.first_name || ' ' || s.last_name)"},
		{Name: "year_level", Expr: "s.year_level", Exact: true, Numeric: true, Search: true},
		{Name: "gender", Expr: "s.gender::text", Exact: true, Search: true},
		{Name: "program_code", Expr: "COALESCE(s.program_code, 'N/A')", Exact: true, Search: true},
		{Name: "college_code", Expr: "COALESCE(p.college_code, 'N/A')", Exact: true, Search: true},
	},
	Name:        [2]string{"first_name", "last_name"},
	DefaultSort: "id_number",
	DefaultThen: "last_name",
	Pairs: [][2]string{
		{"id_number", "last_name"},
		{"first_name", "last_name"},
		{"last_name", "first_name"},
		{"gender", "last_name"},
		{"year_level", "last_name"},
		{"program_code", "last_name"},
		{"college_code", "last_name"},
	},
}
