package fastinsert

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// filterExisting returns the rows of group that don't yet exist in the table under the spec's static
// column values, in their original order. Additional columns and timestamps play no part in this.
func filterExisting(ctx context.Context, db types.Executor, dialect string, spec *InsertSpec, hints types.ColumnTypes, group RowGroup) (RowGroup, error) {
	sql, err := renderExistingQuery(dialect, spec.Table, spec.StaticColumns, spec.VariableColumns, group)
	if err != nil {
		return nil, renderFailure(err)
	}
	existing, err := existingKeys(ctx, db, sql, spec.VariableColumns, hints)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return group, nil
	}

	remaining := make(RowGroup, 0, len(group))
	for _, row := range group {
		if !existing[canonicalKey(row, spec.VariableColumns, hints)] {
			remaining = append(remaining, row)
		}
	}
	return remaining, nil
}

// existingKeys runs the existence query and returns the canonical key of every row found.
func existingKeys(ctx context.Context, db types.Executor, sql string, variableColumns []string, hints types.ColumnTypes) (map[string]bool, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	positions := columnPositions(rows.FieldNames(), variableColumns)
	keys := map[string]bool{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		row := make(Tuple, len(variableColumns))
		for i, pos := range positions {
			if pos < len(values) {
				row[i] = values[pos]
			}
		}
		keys[canonicalKey(row, variableColumns, hints)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return keys, nil
}

// columnPositions maps each variable column to its position in the result set. Results are matched by
// field name where the driver reports names and positionally otherwise.
func columnPositions(fieldNames []string, variableColumns []string) []int {
	positions := make([]int, len(variableColumns))
	for i, name := range variableColumns {
		positions[i] = i
		if idx := slices.IndexFunc(fieldNames, func(f string) bool { return strings.EqualFold(f, name) }); idx >= 0 {
			positions[i] = idx
		}
	}
	return positions
}

func canonicalKey(row Tuple, variableColumns []string, hints types.ColumnTypes) string {
	var b strings.Builder
	for i, name := range variableColumns {
		b.WriteString(canonical(row[i], hints[name]))
		b.WriteByte(0)
	}
	return b.String()
}
