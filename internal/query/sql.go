package query

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where renders the plan's filter as a SQL boolean expression whose
// placeholders start at $next. MatchAll renders "TRUE" with no arguments.
func (p Plan) Where(next int) (string, []any) {
	contains := "%" + likeEscaper.Replace(p.Term) + "%"

	switch p.Mode {
	case MatchField:
		if p.Column.Exact {
			return fmt.Sprintf("LOWER(%s) = $%d", textExpr(p.Column), next), []any{p.Term}
		}
		return fmt.Sprintf("%s ILIKE $%d", textExpr(p.Column), next), []any{contains}

	case MatchAnyField:
		return p.anyField(next), []any{contains}

	case MatchName:
		full := fmt.Sprintf("(%s || ' ' || %s)",
			p.Schema.mustColumn(p.Schema.Name[0]).Expr,
			p.Schema.mustColumn(p.Schema.Name[1]).Expr)
		if len(p.Words) == 1 {
			arg := "%" + likeEscaper.Replace(p.Words[0]) + "%"
			return fmt.Sprintf("(%s ILIKE $%d OR %s)", full, next, p.anyField(next)), []any{arg}
		}
		parts := make([]string, len(p.Words))
		args := make([]any, len(p.Words))
		for i, w := range p.Words {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", full, next+i)
			args[i] = "%" + likeEscaper.Replace(w) + "%"
		}
		return "(" + strings.Join(parts, " AND ") + ")", args
	}
	return "TRUE", nil
}

func (p Plan) anyField(n int) string {
	var parts []string
	for _, c := range p.Schema.Columns {
		if c.Search {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", textExpr(c), n))
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// OrderBy renders the two-key ORDER BY clause. Both keys share the plan's
// direction; the primary key breaks remaining ties in ascending order.
func (p Plan) OrderBy() string {
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	key := p.Schema.mustColumn(p.Schema.Key)
	return fmt.Sprintf(`ORDER BY %s %s, %s %s, %s COLLATE "C" ASC`,
		sortExpr(p.SortBy), dir, sortExpr(p.ThenBy), dir, key.Expr)
}

func textExpr(c Column) string {
	if c.Numeric {
		return "CAST(" + c.Expr + " AS TEXT)"
	}
	return c.Expr
}

// sortExpr orders text by the bytes of its lowercased form, the same order
// Compare uses in memory, whatever the database's default collation is.
func sortExpr(c Column) string {
	if c.Numeric {
		return c.Expr
	}
	return "LOWER(" + c.Expr + `) COLLATE "C"`
}
