package query

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Match evaluates the plan's filter against one record, given a function that
// returns the record's value for a column name.
func (p Plan) Match(get func(field string) string) bool {
	switch p.Mode {
	case MatchField:
		v := strings.ToLower(get(p.Column.Name))
		if p.Column.Exact {
			return v == p.Term
		}
		return strings.Contains(v, p.Term)

	case MatchAnyField:
		return p.matchAny(get, p.Term)

	case MatchName:
		full := strings.ToLower(get(p.Schema.Name[0]) + " " + get(p.Schema.Name[1]))
		all := true
		for _, w := range p.Words {
			if !strings.Contains(full, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
		return len(p.Words) == 1 && p.matchAny(get, p.Words[0])
	}
	return true
}

func (p Plan) matchAny(get func(string) string, term string) bool {
	for _, c := range p.Schema.Columns {
		if c.Search && strings.Contains(strings.ToLower(get(c.Name)), term) {
			return true
		}
	}
	return false
}

// Compare orders two records the way OrderBy does.
func (p Plan) Compare(a, b func(field string) string) int {
	if c := compareColumn(p.SortBy, a, b); c != 0 {
		if p.Desc {
			return -c
		}
		return c
	}
	if c := compareColumn(p.ThenBy, a, b); c != 0 {
		if p.Desc {
			return -c
		}
		return c
	}
	return strings.Compare(a(p.Schema.Key), b(p.Schema.Key))
}

func compareColumn(c Column, a, b func(string) string) int {
	av, bv := a(c.Name), b(c.Name)
	if c.Numeric {
		an, aErr := strconv.Atoi(av)
		bn, bErr := strconv.Atoi(bv)
		if aErr == nil && bErr == nil {
			return cmp.Compare(an, bn)
		}
	}
	return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
}

// Run filters, sorts and pages rows in memory. It returns the page and the
// number of matching rows before paging. get returns a row's column value.
func Run[T any](p Plan, rows []T, get func(row T, field string) string) ([]T, int) {
	bind := func(row T) func(string) string {
		return func(field string) string { return get(row, field) }
	}

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		if p.Match(bind(row)) {
			matched = append(matched, row)
		}
	}
	slices.SortStableFunc(matched, func(a, b T) int {
		return p.Compare(bind(a), bind(b))
	})

	total := len(matched)
	start := p.Offset()
	if start >= total {
		return []T{}, total
	}
	end := min(start+p.Limit, total)
	return matched[start:end], total
}
