package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/stemsi/lexis/internal/model"
)

// Mode selects how a Plan matches records.
type Mode int

const (
	// MatchAll keeps every record (empty search term).
	MatchAll Mode = iota
	// MatchField matches the term against one targeted column.
	MatchField
	// MatchAnyField keeps records where any searchable column contains the term.
	MatchAnyField
	// MatchName keeps records whose "first last" name contains every word;
	// a single word may instead appear in any searchable column.
	MatchName
)

// phrasePrefixes mark multi-word student searches that are program names
// ("bs computer science") and must be matched as one literal token.
var phrasePrefixes = []string{"bs", "ba", "bt"}

// Plan is a validated, normalised ListQuery bound to a Schema.
type Plan struct {
	Schema Schema
	Mode   Mode
	Column Column
	// Term is the lowercased search term.
	Term   string
	Words  []string
	SortBy Column
	ThenBy Column
	Desc   bool
	Page   int
	Limit  int
}

// Offset is the zero-based index of the first record on the page.
func (p Plan) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Build validates q against s. Unknown filter or sort fields are rejected;
// a page below 1 becomes 1 and a missing page size becomes DefaultPageSize.
// Pages so large that their offset would overflow are clamped; they are past
// the end of any listing either way.
func Build(s Schema, q model.ListQuery) (Plan, error) {
	p := Plan{
		Schema: s,
		Desc:   q.Order == model.SortDesc,
		Page:   q.Page,
		Limit:  q.PageSize,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = model.DefaultPageSize
	}
	if maxPage := math.MaxInt/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = s.DefaultSort
	}
	col, ok := s.Column(sortBy)
	if !ok {
		return Plan{}, fmt.Errorf("%w %q for %s", ErrUnknownSort, sortBy, s.Entity)
	}
	p.SortBy = col

	thenBy := q.ThenBy
	if thenBy == "" {
		thenBy = s.DefaultThen
		if thenBy == sortBy {
			thenBy = s.DefaultSort
		}
	}
	if col, ok = s.Column(thenBy); !ok {
		return Plan{}, fmt.Errorf("%w %q for %s", ErrUnknownSort, thenBy, s.Entity)
	}
	p.ThenBy = col

	term := strings.TrimSpace(q.Term)
	field := strings.TrimSpace(q.Field)
	if field != "" {
		if col, ok = s.Column(field); !ok {
			return Plan{}, fmt.Errorf("%w %q for %s", ErrUnknownField, field, s.Entity)
		}
	}
	if term == "" {
		p.Mode = MatchAll
		return p, nil
	}
	p.Term = strings.ToLower(term)

	switch {
	case field != "":
		p.Mode = MatchField
		p.Column = col
	case s.hasName():
		p.Mode = MatchName
		p.Words = splitWords(p.Term)
	default:
		p.Mode = MatchAnyField
	}
	return p, nil
}

// splitWords splits a lowercased student search into the words that must all
// appear in the full name. Program-like phrases stay whole.
func splitWords(term string) []string {
	if strings.Contains(term, " ") {
		for _, prefix := range phrasePrefixes {
			if strings.HasPrefix(term, prefix) {
				return []string{term}
			}
		}
	}
	return strings.Fields(term)
}
