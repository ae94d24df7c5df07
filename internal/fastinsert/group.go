package fastinsert

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/armadaproject/fastinsert/internal/common/util"
)

// RowGroup is a batch of rows inserted with a single statement.
type RowGroup []Tuple

// Group partitions rows into contiguous groups of at most groupSize rows, preserving order.
// If unique is set, rows equal to an earlier row are dropped first.
// The number of dropped rows is returned alongside the groups.
func Group(rows []Tuple, unique bool, groupSize int) ([]RowGroup, int) {
	dropped := 0
	if unique {
		rows, dropped = Dedup(rows)
	}
	batches := util.Batch(rows, groupSize)
	groups := make([]RowGroup, len(batches))
	for i, b := range batches {
		groups[i] = b
	}
	return groups, dropped
}

// Dedup returns rows with every row equal to an earlier one removed, keeping first occurrences in order,
// together with the number of rows removed.
// Rows are equal if they hold values of the same types that compare equal; times are compared as instants.
func Dedup(rows []Tuple) ([]Tuple, int) {
	seen := make(map[string]bool, len(rows))
	unique := make([]Tuple, 0, len(rows))
	for _, row := range rows {
		key := tupleKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, row)
	}
	return unique, len(rows) - len(unique)
}

func tupleKey(t Tuple) string {
	var b strings.Builder
	for _, v := range t {
		switch x := v.(type) {
		case time.Time:
			fmt.Fprintf(&b, "time.Time:%s", x.UTC().Format(time.RFC3339Nano))
		case []byte:
			fmt.Fprintf(&b, "[]byte:%q", x)
		case driver.Valuer:
			value, err := x.Value()
			if err != nil {
				// Unrenderable values never compare equal to anything else.
				fmt.Fprintf(&b, "%T:%p", x, &value)
			} else {
				fmt.Fprintf(&b, "%T:%#v", x, value)
			}
		default:
			fmt.Fprintf(&b, "%T:%#v", v, v)
		}
		b.WriteByte(0)
	}
	return b.String()
}
