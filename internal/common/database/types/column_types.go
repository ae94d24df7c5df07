package types

import (
	"fmt"
	"strings"
)

// ColumnType is a coarse classification of a column's storage type.
// It is only used to normalise values read back from the database before comparing them with
// caller-supplied values; it never ends up in generated SQL.
type ColumnType string

const (
	ColumnTypeUnknown   ColumnType = ""
	ColumnTypeText      ColumnType = "text"
	ColumnTypeInteger   ColumnType = "integer"
	ColumnTypeNumeric   ColumnType = "numeric"
	ColumnTypeBoolean   ColumnType = "boolean"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeUUID      ColumnType = "uuid"

	// ColumnTypeLocalTimestamp is a timestamp stored without its offset, e.g. Postgres timestamp without time zone.
	// The stored value is the wall clock of the literal written.
	ColumnTypeLocalTimestamp ColumnType = "localtimestamp"
)

// ColumnTypes maps column name to type.
type ColumnTypes map[string]ColumnType

// ParseColumnType parses the name of a ColumnType, case insensitively.
func ParseColumnType(s string) (ColumnType, error) {
	switch t := ColumnType(strings.ToLower(strings.TrimSpace(s))); t {
	case ColumnTypeText, ColumnTypeInteger, ColumnTypeNumeric, ColumnTypeBoolean, ColumnTypeTimestamp,
		ColumnTypeLocalTimestamp, ColumnTypeUUID:
		return t, nil
	case ColumnTypeUnknown:
		return ColumnTypeUnknown, nil
	}
	return ColumnTypeUnknown, fmt.Errorf("unknown column type %q", s)
}

// ColumnTypeFromDatabaseType maps a database type name as reported by information_schema or a
// declared SQLite column type onto a ColumnType. Matching follows SQLite's affinity rules, which
// also cover the usual Postgres type names.
func ColumnTypeFromDatabaseType(dbType string) ColumnType {
	t := strings.ToLower(dbType)
	switch {
	case t == "":
		return ColumnTypeUnknown
	case strings.HasPrefix(t, "bool"):
		return ColumnTypeBoolean
	case t == "uuid":
		return ColumnTypeUUID
	case strings.HasPrefix(t, "timestamp") && strings.HasSuffix(t, "without time zone"):
		return ColumnTypeLocalTimestamp
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"), t == "date":
		return ColumnTypeTimestamp
	case strings.HasPrefix(t, "interval"), t == "point":
		return ColumnTypeUnknown
	case strings.Contains(t, "int"), t == "serial", t == "bigserial", t == "smallserial":
		return ColumnTypeInteger
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"):
		return ColumnTypeText
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"),
		strings.Contains(t, "numeric"), strings.Contains(t, "decimal"):
		return ColumnTypeNumeric
	}
	return ColumnTypeUnknown
}

// Merge returns a copy of c with the entries of other added where c has no entry.
func (c ColumnTypes) Merge(other ColumnTypes) ColumnTypes {
	rv := make(ColumnTypes, len(c)+len(other))
	for k, v := range other {
		rv[k] = v
	}
	for k, v := range c {
		if v != ColumnTypeUnknown {
			rv[k] = v
		}
	}
	return rv
}
