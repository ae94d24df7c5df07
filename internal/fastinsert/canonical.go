package fastinsert

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// nullText stands in for NULL; it can't collide with any textual value since those are never
// prefixed with a NUL byte.
const nullText = "\x00NULL"

// timestampLayouts are the textual forms in which drivers may return timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// canonical renders v in a textual form that is identical for values the database considers equal,
// regardless of the Go type the value arrived as. For instance int32(1) read back from an integer
// column and int(1) supplied by the caller both become "1"; with a boolean column int64(1), true and
// "t" all become "true".
func canonical(v interface{}, columnType types.ColumnType) string {
	if valuer, ok := v.(driver.Valuer); ok {
		value, err := valuer.Value()
		if err == nil {
			v = value
		}
	}
	if v == nil {
		return nullText
	}

	switch columnType {
	case types.ColumnTypeInteger:
		if i, ok := toInt64(v); ok {
			return strconv.FormatInt(i, 10)
		}
	case types.ColumnTypeNumeric:
		if f, ok := toFloat64(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case types.ColumnTypeBoolean:
		if b, ok := toBool(v); ok {
			return strconv.FormatBool(b)
		}
	case types.ColumnTypeTimestamp:
		if t, ok := toTime(v); ok {
			return formatTimestamp(t.UTC())
		}
	case types.ColumnTypeLocalTimestamp:
		if t, ok := toWallClock(v); ok {
			return formatTimestamp(t)
		}
	case types.ColumnTypeUUID:
		if id, ok := toUUID(v); ok {
			return id.String()
		}
	case types.ColumnTypeText:
		return toText(v)
	}
	return toText(v)
}

func toText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return formatTimestamp(x.UTC())
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case [16]byte:
		return uuid.UUID(x).String()
	}
	if i, ok := toInt64(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return fmt.Sprint(v)
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case float32:
		if float32(int64(x)) == x {
			return int64(x), true
		}
	case float64:
		if float64(int64(x)) == x {
			return int64(x), true
		}
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return i, err == nil
	case []byte:
		return toInt64(string(x))
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []byte:
		return toFloat64(string(x))
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "t", "true", "1", "y", "yes", "on":
			return true, true
		case "f", "false", "0", "n", "no", "off":
			return false, true
		}
		return false, false
	case []byte:
		return toBool(string(x))
	}
	if i, ok := toInt64(v); ok {
		return i != 0, true
	}
	return false, false
}

// formatTimestamp renders t at microsecond precision, the precision Postgres stores.
func formatTimestamp(t time.Time) string {
	return t.Round(time.Microsecond).Format(time.RFC3339Nano)
}

// toWallClock returns the value a timestamp without time zone column holds after v is written, as a UTC time.
// Times are written as UTC literals; strings are written as given, so their offset is dropped.
func toWallClock(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t.UTC(), true
	}
	t, ok := toTime(v)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
}

func toUUID(v interface{}) (uuid.UUID, bool) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, true
	case [16]byte:
		return uuid.UUID(x), true
	case string:
		id, err := uuid.Parse(strings.TrimSpace(x))
		return id, err == nil
	case []byte:
		if len(x) == 16 {
			id, err := uuid.FromBytes(x)
			return id, err == nil
		}
		id, err := uuid.ParseBytes(x)
		return id, err == nil
	}
	return uuid.UUID{}, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(x)); err == nil {
				return t, true
			}
		}
	case []byte:
		return toTime(string(x))
	case int64:
		return time.Unix(x, 0), true
	}
	return time.Time{}, false
}
