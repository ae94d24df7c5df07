package fastinsert

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	CreatedAtColumn = "created_at"
	UpdatedAtColumn = "updated_at"
)

// Column is a named value shared by every inserted row.
type Column struct {
	Name  string
	Value interface{}
}

// Columns is an ordered mapping of column name to value.
// Order is significant: it is the order in which columns appear in generated SQL.
type Columns []Column

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// Values returns the column values in order.
func (c Columns) Values() []interface{} {
	values := make([]interface{}, len(c))
	for i, col := range c {
		values[i] = col.Value
	}
	return values
}

// ColumnsFromMapSlice converts a yaml.MapSlice, which preserves document order, into Columns.
func ColumnsFromMapSlice(m yaml.MapSlice) (Columns, error) {
	columns := make(Columns, 0, len(m))
	for _, item := range m {
		name, ok := item.Key.(string)
		if !ok {
			return nil, &ConfigurationError{Field: "columns", Value: item.Key, Message: "column names must be strings"}
		}
		columns = append(columns, Column{Name: name, Value: item.Value})
	}
	return columns, nil
}

// ColumnSet is the ordered list of columns of an INSERT together with the values shared by all rows.
// Its order is: static columns, created_at and updated_at if timestamps are enabled, additional columns,
// variable columns.
type ColumnSet struct {
	// Columns whose value is identical in every row, in order
	Shared Columns
	// Per-row columns, in order
	Variable []string
}

// Names returns the full column list in insertion order.
func (cs ColumnSet) Names() []string {
	return append(cs.Shared.Names(), cs.Variable...)
}

// Row returns the values of one row in insertion order.
func (cs ColumnSet) Row(t Tuple) []interface{} {
	row := make([]interface{}, 0, len(cs.Shared)+len(t))
	row = append(row, cs.Shared.Values()...)
	return append(row, t...)
}

func newColumnSet(spec *InsertSpec, now time.Time) ColumnSet {
	shared := make(Columns, 0, len(spec.StaticColumns)+len(spec.AdditionalColumns)+2)
	shared = append(shared, spec.StaticColumns...)
	if spec.Options.Timestamps {
		shared = append(shared,
			Column{Name: CreatedAtColumn, Value: now},
			Column{Name: UpdatedAtColumn, Value: now})
	}
	shared = append(shared, spec.AdditionalColumns...)
	return ColumnSet{Shared: shared, Variable: spec.VariableColumns}
}

func (c Column) String() string {
	return fmt.Sprintf("%s=%v", c.Name, c.Value)
}
