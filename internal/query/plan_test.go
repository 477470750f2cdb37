package query

import (
	"testing"

	"github.com/stemsi/lexis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	p, err := Build(Students, model.ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, MatchAll, p.Mode)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, model.DefaultPageSize, p.Limit)
	assert.Equal(t, "id_number", p.SortBy.Name)
	assert.Equal(t, "last_name", p.ThenBy.Name)
	assert.False(t, p.Desc)
}

func TestBuild_SecondaryDefaultAvoidsPrimary(t *testing.T) {
	p, err := Build(Students, model.ListQuery{SortBy: "last_name"})
	require.NoError(t, err)

	assert.Equal(t, "id_number", p.ThenBy.Name)
}

func TestBuild_RejectsUnknownFields(t *testing.T) {
	_, err := Build(Programs, model.ListQuery{Field: "password", Term: "x"})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = Build(Colleges, model.ListQuery{SortBy: "program_code"})
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestBuild_Modes(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		query  model.ListQuery
		mode   Mode
		words  []string
	}{
		{"blank term keeps all", Students, model.ListQuery{Field: "first_name", Term: "  "}, MatchAll, nil},
		{"targeted field", Programs, model.ListQuery{Field: "program_code", Term: "BSCS"}, MatchField, nil},
		{"any field for colleges", Colleges, model.ListQuery{Term: "ccs"}, MatchAnyField, nil},
		{"student words", Students, model.ListQuery{Term: "Lucy  Ramos"}, MatchName, []string{"lucy", "ramos"}},
		{"student single word", Students, model.ListQuery{Term: "BSCS"}, MatchName, []string{"bscs"}},
		{"program phrase stays whole", Students, model.ListQuery{Term: "BS Computer"}, MatchName, []string{"bs computer"}},
		{"ba phrase stays whole", Students, model.ListQuery{Term: "ba english"}, MatchName, []string{"ba english"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.schema, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, p.Mode)
			if tt.words != nil {
				assert.Equal(t, tt.words, p.Words)
			}
		})
	}
}

func TestWhere_SQL(t *testing.T) {
	p, err := Build(Programs, model.ListQuery{Field: "program_code", Term: "BSCS"})
	require.NoError(t, err)
	clause, args := p.Where(1)
	assert.Equal(t, "LOWER(p.program_code) = $1", clause)
	assert.Equal(t, []any{"bscs"}, args)

	p, err = Build(Programs, model.ListQuery{Field: "program_name", Term: "100%"})
	require.NoError(t, err)
	clause, args = p.Where(3)
	assert.Equal(t, "p.program_name ILIKE $3", clause)
	assert.Equal(t, []any{`%100\%%`}, args)

	p, err = Build(Students, model.ListQuery{Term: "lucy ramos"})
	require.NoError(t, err)
	clause, args = p.Where(1)
	assert.Equal(t, "((s.first_name || ' ' || s.last_name) ILIKE $1 AND (s.first_name || ' ' || s.last_name) ILIKE $2)", clause)
	assert.Equal(t, []any{"%lucy%", "%ramos%"}, args)

	p, err = Build(Students, model.ListQuery{Term: "2"})
	require.NoError(t, err)
	clause, args = p.Where(1)
	assert.Contains(t, clause, "(s.first_name || ' ' || s.last_name) ILIKE $1 OR (")
	assert.Contains(t, clause, "CAST(s.year_level AS TEXT) ILIKE $1")
	assert.Contains(t, clause, "COALESCE(p.college_code, 'N/A') ILIKE $1")
	assert.Len(t, args, 1)

	p, err = Build(Colleges, model.ListQuery{})
	require.NoError(t, err)
	clause, args = p.Where(1)
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)
}

func TestOrderBy(t *testing.T) {
	p, err := Build(Students, model.ListQuery{SortBy: "year_level", ThenBy: "last_name", Order: model.SortDesc})
	require.NoError(t, err)

	assert.Equal(t, `ORDER BY s.year_level DESC, LOWER(s.last_name) COLLATE "C" DESC, s.id_number COLLATE "C" ASC`, p.OrderBy())
}

func TestSchemas_PairsAndDefaultsNameColumns(t *testing.T) {
	for _, s := range []Schema{Colleges, Programs, Students} {
		_, ok := s.Column(s.Key)
		assert.True(t, ok, "%s key", s.Entity)
		for _, pair := range s.Pairs {
			_, err := Build(s, model.ListQuery{SortBy: pair[0], ThenBy: pair[1]})
			assert.NoError(t, err, "%s pair %v", s.Entity, pair)
		}
	}
}
