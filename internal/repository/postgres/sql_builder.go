package postgres

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/catalog-service/internal/query"
)

// args accumulates positional parameters while a statement is rendered.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

var kindCast = map[query.Kind]string{
	query.KindString: "::text",
	query.KindNumber: "::double precision",
	query.KindBool:   "::boolean",
	query.KindTime:   "::timestamptz",
}

// likeEscaper neutralizes LIKE wildcards inside user input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereSQL renders compiled groups as (a OR b) AND (c). It mirrors
// query.Condition.Match so the database returns exactly what the in-memory
// pipeline would.
func whereSQL[T any](groups [][]query.Condition[T], a *args) string {
	if len(groups) == 0 {
		return "TRUE"
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		ors := make([]string, 0, len(g))
		for _, c := range g {
			ors = append(ors, conditionSQL(c, a))
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(parts, " AND ")
}

func conditionSQL[T any](c query.Condition[T], a *args) string {
	if c.Never {
		return "FALSE"
	}
	col := pgx.Identifier{c.Field.Column}.Sanitize()
	if c.Value == nil {
		if c.Comparator == query.NotEqual {
			return col + " IS NOT NULL"
		}
		return col + " IS NULL"
	}

	switch c.Comparator {
	case query.Contains:
		return col + " ILIKE " + a.add("%"+likeEscaper.Replace(c.Value.(string))+"%") + ` ESCAPE '\'`
	case query.StartsWith:
		return col + " ILIKE " + a.add(likeEscaper.Replace(c.Value.(string))+"%") + ` ESCAPE '\'`
	case query.EndsWith:
		return col + " ILIKE " + a.add("%"+likeEscaper.Replace(c.Value.(string))) + ` ESCAPE '\'`
	}

	lhs, rhs := col, a.add(c.Value)+kindCast[c.Field.Kind]
	if c.Field.Kind == query.KindString {
		lhs, rhs = "lower("+lhs+")", "lower("+rhs+")"
	}
	switch c.Comparator {
	case query.Equal:
		return lhs + " = " + rhs
	case query.NotEqual:
		return lhs + " IS DISTINCT FROM " + rhs
	case query.LessThan:
		return lhs + " < " + rhs
	case query.LessThanOrEqual:
		return lhs + " <= " + rhs
	case query.GreaterThan:
		return lhs + " > " + rhs
	case query.GreaterThanOrEqual:
		return lhs + " >= " + rhs
	}
	return "FALSE"
}

// orderSQL mirrors ResolvedSort.Apply: byte-wise lowercase ordering for
// text, nulls first when ascending, and the primary key ascending as the
// tiebreaker so equal keys keep insertion order in both directions.
func orderSQL[T any](rs query.ResolvedSort[T], primary string) string {
	expr := pgx.Identifier{rs.Field.Column}.Sanitize()
	if rs.Field.Kind == query.KindString {
		expr = "lower(" + expr + `) COLLATE "C"`
	}
	if rs.Descending {
		expr += " DESC NULLS LAST"
	} else {
		expr += " ASC NULLS FIRST"
	}
	if rs.Field.Column != primary {
		expr += ", " + pgx.Identifier{primary}.Sanitize() + " ASC"
	}
	return expr
}

// statement is a rendered paginated listing.
type statement struct {
	list  string
	count string
	args  []any
	// whereArgs is how many leading args the count statement needs.
	whereArgs int
}

// listStatement renders one round trip that returns the page rows plus the
// filtered total via a window count.
func listStatement[T any](table, columns, primary string, plan query.Plan[T]) statement {
	var a args
	where := whereSQL(plan.Groups, &a)
	n := len(a)
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columns)
	b.WriteString(", COUNT(*) OVER() AS total FROM ")
	b.WriteString(table)
	b.WriteString(" WHERE ")
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(orderSQL(plan.Sort, primary))
	b.WriteString(" LIMIT ")
	b.WriteString(a.add(plan.Page.Size))
	b.WriteString(" OFFSET ")
	b.WriteString(a.add(int64(plan.Page.Offset())))
	return statement{
		list:      b.String(),
		count:     "SELECT COUNT(*) FROM " + table + " WHERE " + where,
		args:      a,
		whereArgs: n,
	}
}
