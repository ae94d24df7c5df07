package sqldb

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/database/postgres"
	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

func columnTypes(ctx context.Context, db types.Executor, dialect string, table string) (types.ColumnTypes, error) {
	if dialect == SqliteDialect {
		return sqliteColumnTypes(ctx, db, table)
	}
	return postgres.FetchColumnTypes(ctx, db, table)
}

// sqliteColumnTypes reads declared column types with PRAGMA table_info.
func sqliteColumnTypes(ctx context.Context, db types.Executor, table string) (types.ColumnTypes, error) {
	// PRAGMA arguments can't be bound; quote the name the way goqu quotes identifiers.
	quoted := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
	return readColumnTypes(ctx, db, table, fmt.Sprintf("PRAGMA table_info(%s)", quoted), 1, 2)
}

func readColumnTypes(ctx context.Context, db types.Executor, table string, query string, nameIdx, typeIdx int) (types.ColumnTypes, error) {
	rows, err := db.Query(ctx, query)
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
		columnTypes[asString(values[nameIdx])] = types.ColumnTypeFromDatabaseType(asString(values[typeIdx]))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return columnTypes, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
