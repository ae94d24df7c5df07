package postgres

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// columnTypesQuery renders the information_schema lookup for a possibly schema-qualified table.
// Unqualified tables are resolved against the current search path.
func columnTypesQuery(table string) (string, error) {
	where := []goqu.Expression{}
	if i := strings.LastIndex(table, "."); i >= 0 {
		where = append(where,
			goqu.C("table_schema").Eq(table[:i]),
			goqu.C("table_name").Eq(table[i+1:]))
	} else {
		where = append(where,
			goqu.C("table_schema").Eq(goqu.L("ANY(current_schemas(false))")),
			goqu.C("table_name").Eq(table))
	}
	sql, _, err := goqu.Dialect(Dialect).
		From(goqu.S("information_schema").Table("columns")).
		// Casts avoid the information_schema domain types.
		Select(goqu.L("column_name::text"), goqu.L("data_type::text")).
		Where(where...).
		ToSQL()
	return sql, err
}

// FetchColumnTypes looks up the column types of table through db, which may be any Postgres connection.
func FetchColumnTypes(ctx context.Context, db types.Executor, table string) (types.ColumnTypes, error) {
	sql, err := columnTypesQuery(table)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to query column types of %s", table)
	}
	defer rows.Close()

	columnTypes := types.ColumnTypes{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		columnTypes[asString(values[0])] = types.ColumnTypeFromDatabaseType(asString(values[1]))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return columnTypes, nil
}

// asString accepts text as returned by either pgx or database/sql drivers.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}
