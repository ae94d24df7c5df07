package fastinsert

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/pkg/errors"
)

// SQL is rendered by goqu in its default, non-prepared mode: every value is written into the statement as a
// literal escaped according to the dialect and every identifier is quoted. Values never reach the statement
// text any other way.

// Sanitize renders a single scalar as an SQL literal in the given dialect.
func Sanitize(dialect string, value interface{}) (string, error) {
	sql, _, err := goqu.Dialect(dialect).
		Select(goqu.V(value)).
		ToSQL()
	if err != nil {
		return "", errors.WithStack(err)
	}
	// The rendered statement is "SELECT <literal>".
	return sql[len("SELECT "):], nil
}

// renderInsert renders a multi-row INSERT of rows into table. Every row shares the ColumnSet's
// shared values, followed by its own variable values.
func renderInsert(dialect string, table string, columnSet ColumnSet, rows RowGroup) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("no rows to insert")
	}
	cols := make([]interface{}, 0, len(columnSet.Shared)+len(columnSet.Variable))
	for _, name := range columnSet.Names() {
		cols = append(cols, goqu.C(name))
	}
	vals := make([][]interface{}, len(rows))
	for i, row := range rows {
		vals[i] = columnSet.Row(row)
	}
	sql, _, err := goqu.Dialect(dialect).
		Insert(tableIdentifier(table)).
		Cols(cols...).
		Vals(vals...).
		ToSQL()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return sql, nil
}

// renderExistingQuery renders a SELECT of the variable columns of every row in table that has the given
// static column values and whose variable values match one of rows.
//
// With a single variable column membership is an IN list. With several the rows are OR-ed
// equality conjunctions, since row value constructors aren't available in every engine.
func renderExistingQuery(dialect string, table string, static Columns, variableColumns []string, rows RowGroup) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("no rows to check")
	}
	where := staticPredicates(static)

	if len(variableColumns) == 1 {
		values := make([]interface{}, 0, len(rows))
		hasNull := false
		for _, row := range rows {
			if row[0] == nil {
				hasNull = true
				continue
			}
			values = append(values, row[0])
		}
		col := goqu.C(variableColumns[0])
		// values is passed as one list so that a lone []byte isn't taken for the list itself.
		switch {
		case hasNull && len(values) > 0:
			where = append(where, goqu.Or(col.In(values), col.IsNull()))
		case hasNull:
			where = append(where, col.IsNull())
		default:
			where = append(where, col.In(values))
		}
	} else {
		matches := make([]exp.Expression, len(rows))
		for i, row := range rows {
			eqs := make([]exp.Expression, len(variableColumns))
			for j, name := range variableColumns {
				// Eq renders IS NULL for nil.
				eqs[j] = goqu.C(name).Eq(row[j])
			}
			matches[i] = goqu.And(eqs...)
		}
		where = append(where, goqu.Or(matches...))
	}

	selected := make([]interface{}, len(variableColumns))
	for i, name := range variableColumns {
		selected[i] = goqu.C(name)
	}
	sql, _, err := goqu.Dialect(dialect).
		From(tableIdentifier(table)).
		Select(selected...).
		Where(where...).
		ToSQL()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return sql, nil
}

// staticPredicates returns one equality per static column, using IS NULL for nil values.
func staticPredicates(static Columns) []exp.Expression {
	predicates := make([]exp.Expression, 0, len(static)+1)
	for _, c := range static {
		if c.Value == nil {
			predicates = append(predicates, goqu.C(c.Name).IsNull())
		} else {
			predicates = append(predicates, goqu.C(c.Name).Eq(c.Value))
		}
	}
	return predicates
}

// tableIdentifier allows schema-qualified table names such as "public.attendees".
func tableIdentifier(table string) exp.IdentifierExpression {
	return goqu.I(table)
}

// Render returns the INSERT statements that Insert would execute for spec if no rows already existed,
// one per group, using now as the timestamp value.
func Render(dialect string, spec *InsertSpec, now time.Time) ([]string, error) {
	groups, _ := Group(spec.Values, spec.Options.Unique, spec.GroupSize)
	columnSet := newColumnSet(spec, now)
	statements := make([]string, 0, len(groups))
	for _, group := range groups {
		sql, err := renderInsert(dialect, spec.Table, columnSet, group)
		if err != nil {
			return nil, renderFailure(err)
		}
		statements = append(statements, sql)
	}
	return statements, nil
}
