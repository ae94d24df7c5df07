package fastinsert

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// DefaultGroupSize is the number of rows per INSERT used when neither the request nor the
// configuration specify one. It's low enough to keep statements and lock times short and high enough
// to amortise round trips.
const DefaultGroupSize = 1000

// Options controls how an insert request is executed.
type Options struct {
	// Drop rows equal to an earlier row before grouping
	Unique bool `yaml:"unique"`
	// Skip rows already present in the table under the same static column values
	CheckForExisting bool `yaml:"check_for_existing"`
	// Set created_at and updated_at to the time of the operation
	Timestamps bool `yaml:"timestamps"`
}

// Params is the raw, unvalidated form of an insert request.
type Params struct {
	Table string
	// Values shared by every row; also the scope of the existence check
	StaticColumns Columns
	// Values shared by every row that play no part in the existence check, e.g. created_by_id
	AdditionalColumns Columns
	// Name of the single per-row column; ignored if VariableColumns is set
	VariableColumn string
	// Names of the per-row columns
	VariableColumns []string
	// One entry per row: a scalar when there is a single variable column, otherwise a slice
	Values []interface{}
	// Rows per INSERT: an integer or a decimal string. Zero value means use the configured default
	GroupSize interface{}
	Options   Options
	// Types of the variable columns, used when comparing against existing rows
	TypeHints types.ColumnTypes
}

// Tuple holds the variable column values of one row, in variable column order.
type Tuple []interface{}

// InsertSpec is a validated insert request. It must not be modified after construction.
type InsertSpec struct {
	Table             string
	StaticColumns     Columns
	AdditionalColumns Columns
	VariableColumns   []string
	Values            []Tuple
	GroupSize         int
	Options           Options
	TypeHints         types.ColumnTypes
}

// NewInsertSpec validates params and converts them into an InsertSpec.
// defaultGroupSize is used if params don't specify a group size; if it's not positive DefaultGroupSize is used.
// All problems found are reported together in a single *ConfigurationError.
func NewInsertSpec(params Params, defaultGroupSize int) (*InsertSpec, error) {
	var result *multierror.Error

	table := strings.TrimSpace(params.Table)
	if table == "" {
		result = multierror.Append(result, &ConfigurationError{Field: "table", Message: "table is required"})
	}

	variableColumns := params.VariableColumns
	if len(variableColumns) == 0 && params.VariableColumn != "" {
		variableColumns = []string{params.VariableColumn}
	}
	if len(variableColumns) == 0 {
		result = multierror.Append(result, &ConfigurationError{Field: "variable_columns", Message: "at least one variable column is required"})
	}

	staticColumns, err := resolveColumns("static_columns", params.StaticColumns)
	if err != nil {
		result = multierror.Append(result, err)
	}
	additionalColumns, err := resolveColumns("additional_columns", params.AdditionalColumns)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := validateColumnNames(params, variableColumns); err != nil {
		result = multierror.Append(result, err)
	}

	values, err := toTuples(params.Values, len(variableColumns))
	if err != nil {
		result = multierror.Append(result, err)
	}

	groupSize, err := parseGroupSize(params.GroupSize, defaultGroupSize)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		if len(result.Errors) == 1 {
			return nil, errors.WithStack(result.Errors[0])
		}
		return nil, errors.WithStack(&ConfigurationError{
			Message: fmt.Sprintf("%d problems found", len(result.Errors)),
			Err:     err,
		})
	}

	return &InsertSpec{
		Table:             table,
		StaticColumns:     staticColumns,
		AdditionalColumns: additionalColumns,
		VariableColumns:   variableColumns,
		Values:            values,
		GroupSize:         groupSize,
		Options:           params.Options,
		TypeHints:         params.TypeHints,
	}, nil
}

func validateColumnNames(params Params, variableColumns []string) error {
	var result *multierror.Error
	seen := map[string]string{}
	check := func(kind string, name string, value interface{}, checkValue bool) {
		if strings.TrimSpace(name) == "" {
			result = multierror.Append(result, &ConfigurationError{Field: kind, Message: "column names must not be empty"})
			return
		}
		if other, ok := seen[name]; ok {
			result = multierror.Append(result, &ConfigurationError{
				Field:   kind,
				Value:   name,
				Message: fmt.Sprintf("column is also listed in %s", other),
			})
			return
		}
		seen[name] = kind
		if checkValue && !isScalar(value) {
			result = multierror.Append(result, &ConfigurationError{
				Field:   kind,
				Value:   fmt.Sprintf("%T", value),
				Message: fmt.Sprintf("column %s must have a scalar value", name),
			})
		}
	}

	for _, c := range params.StaticColumns {
		check("static_columns", c.Name, c.Value, true)
	}
	if params.Options.Timestamps {
		check("timestamps", CreatedAtColumn, nil, false)
		check("timestamps", UpdatedAtColumn, nil, false)
	}
	for _, c := range params.AdditionalColumns {
		check("additional_columns", c.Name, c.Value, true)
	}
	for _, name := range variableColumns {
		check("variable_columns", name, nil, false)
	}
	return result.ErrorOrNil()
}

// toTuples coerces each raw value into a tuple of the given arity.
func toTuples(raw []interface{}, arity int) ([]Tuple, error) {
	tuples := make([]Tuple, len(raw))
	mismatched := 0
	firstMismatch := -1
	for i, v := range raw {
		t := toTuple(v)
		if len(t) != arity {
			mismatched++
			if firstMismatch < 0 {
				firstMismatch = i
			}
			continue
		}
		for _, elem := range t {
			if !isScalar(elem) {
				return nil, &ConfigurationError{
					Field:   "values",
					Value:   fmt.Sprintf("%T", elem),
					Message: fmt.Sprintf("row %d contains a non-scalar value", i),
				}
			}
		}
		resolved, err := resolveTuple(t)
		if err != nil {
			return nil, &ConfigurationError{
				Field:   "values",
				Message: fmt.Sprintf("row %d contains a value that can't be converted", i),
				Err:     err,
			}
		}
		tuples[i] = resolved
	}
	if mismatched > 0 && arity > 0 {
		return nil, &ConfigurationError{
			Field: "values",
			Message: fmt.Sprintf(
				"%d rows don't have one value per variable column (expected %d); first is row %d with %d values",
				mismatched, arity, firstMismatch, len(toTuple(raw[firstMismatch]))),
		}
	}
	return tuples, nil
}

func toTuple(v interface{}) Tuple {
	switch t := v.(type) {
	case Tuple:
		return t
	case []interface{}:
		return t
	case []byte:
		return Tuple{t}
	case driver.Valuer:
		// e.g. uuid.UUID, which is an array
		return Tuple{t}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		t := make(Tuple, rv.Len())
		for i := range t {
			t[i] = rv.Index(i).Interface()
		}
		return t
	}
	return Tuple{v}
}

// resolveValue replaces a driver.Valuer with the value it reports.
func resolveValue(v interface{}) (interface{}, error) {
	valuer, ok := v.(driver.Valuer)
	if !ok {
		return v, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	value, err := valuer.Value()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

func resolveColumns(kind string, columns Columns) (Columns, error) {
	if len(columns) == 0 {
		return columns, nil
	}
	resolved := make(Columns, len(columns))
	for i, c := range columns {
		value, err := resolveValue(c.Value)
		if err != nil {
			return nil, &ConfigurationError{
				Field:   kind,
				Message: fmt.Sprintf("value of column %s can't be converted", c.Name),
				Err:     err,
			}
		}
		resolved[i] = Column{Name: c.Name, Value: value}
	}
	return resolved, nil
}

// resolveTuple returns t with its driver.Valuers resolved, copying t only if it has any.
func resolveTuple(t Tuple) (Tuple, error) {
	var resolved Tuple
	for i, v := range t {
		if _, ok := v.(driver.Valuer); !ok {
			continue
		}
		if resolved == nil {
			resolved = append(Tuple(nil), t...)
		}
		value, err := resolveValue(v)
		if err != nil {
			return nil, err
		}
		resolved[i] = value
	}
	if resolved == nil {
		return t, nil
	}
	return resolved, nil
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, bool, string, []byte, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		driver.Valuer:
		return true
	}
	return false
}

func parseGroupSize(raw interface{}, defaultGroupSize int) (int, error) {
	invalid := func(message string) error {
		return &ConfigurationError{Field: "group_size", Value: raw, Message: message}
	}

	var n int64
	switch v := raw.(type) {
	case nil:
		if defaultGroupSize > 0 {
			return defaultGroupSize, nil
		}
		return DefaultGroupSize, nil
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > math.MaxInt32 {
			return 0, invalid("group size is too large")
		}
		n = int64(v)
	case uint64:
		if v > math.MaxInt32 {
			return 0, invalid("group size is too large")
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, invalid("group size must be a whole number")
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalid("group size must be numeric")
		}
		n = parsed
	default:
		return 0, invalid("group size must be an integer")
	}
	if n <= 0 {
		return 0, invalid("group size must be positive")
	}
	if n > math.MaxInt32 {
		return 0, invalid("group size is too large")
	}
	return int(n), nil
}
