package fastinsert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

func TestCanonical(t *testing.T) {
	instant := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	tests := map[string]struct {
		values     []interface{}
		columnType types.ColumnType
		expected   string
	}{
		"null": {
			values:     []interface{}{nil},
			columnType: types.ColumnTypeInteger,
			expected:   nullText,
		},
		"integers": {
			values:     []interface{}{1, int32(1), int64(1), uint8(1), "1", " 1", []byte("1"), 1.0},
			columnType: types.ColumnTypeInteger,
			expected:   "1",
		},
		"numerics": {
			values:     []interface{}{1.5, float32(1.5), "1.50", []byte("1.5")},
			columnType: types.ColumnTypeNumeric,
			expected:   "1.5",
		},
		"whole numerics": {
			values:     []interface{}{2, int64(2), 2.0, "2"},
			columnType: types.ColumnTypeNumeric,
			expected:   "2",
		},
		"true": {
			values:     []interface{}{true, int64(1), 1, "t", "TRUE", "yes", []byte("1")},
			columnType: types.ColumnTypeBoolean,
			expected:   "true",
		},
		"false": {
			values:     []interface{}{false, int64(0), "f", "false", "no"},
			columnType: types.ColumnTypeBoolean,
			expected:   "false",
		},
		"timestamps": {
			values: []interface{}{
				instant,
				instant.In(time.FixedZone("UTC+2", 2*60*60)),
				"2022-01-02T03:04:05Z",
				"2022-01-02 05:04:05+02:00",
				"2022-01-02 03:04:05",
				[]byte("2022-01-02T03:04:05Z"),
			},
			columnType: types.ColumnTypeTimestamp,
			expected:   "2022-01-02T03:04:05Z",
		},
		"timestamps at microsecond precision": {
			values: []interface{}{
				time.Date(2022, 1, 2, 3, 4, 5, 123456789, time.UTC),
				time.Date(2022, 1, 2, 3, 4, 5, 123457000, time.UTC),
				"2022-01-02 03:04:05.123457+00:00",
				"2022-01-02T05:04:05.123456789+02:00",
			},
			columnType: types.ColumnTypeTimestamp,
			expected:   "2022-01-02T03:04:05.123457Z",
		},
		"times written to a local timestamp column": {
			values: []interface{}{
				instant,
				instant.In(plusTwo),
				"2022-01-02 03:04:05",
				"2022-01-02T03:04:05+02:00",
				time.Date(2022, 1, 2, 3, 4, 5, 200, time.UTC),
			},
			columnType: types.ColumnTypeLocalTimestamp,
			expected:   "2022-01-02T03:04:05Z",
		},
		"uuids": {
			values: []interface{}{
				id,
				[16]byte(id),
				id.String(),
				"6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
				"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
				"6ba7b8109dad11d180b400c04fd430c8",
				id[:],
				[]byte(id.String()),
			},
			columnType: types.ColumnTypeUUID,
			expected:   "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		},
		"untyped uuid bytes": {
			values:     []interface{}{[16]byte(id)},
			columnType: types.ColumnTypeText,
			expected:   "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		},
		"text": {
			values:     []interface{}{"abc", []byte("abc")},
			columnType: types.ColumnTypeText,
			expected:   "abc",
		},
		"untyped integers": {
			values:     []interface{}{1, int64(1), "1"},
			columnType: types.ColumnTypeUnknown,
			expected:   "1",
		},
		"unparseable values fall back to text": {
			values:     []interface{}{"maybe"},
			columnType: types.ColumnTypeBoolean,
			expected:   "maybe",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, v := range tc.values {
				assert.Equal(t, tc.expected, canonical(v, tc.columnType), "%T %v", v, v)
			}
		})
	}
}

func TestCanonical_NullDiffersFromText(t *testing.T) {
	assert.NotEqual(t, canonical(nil, types.ColumnTypeText), canonical("NULL", types.ColumnTypeText))
	assert.NotEqual(t, canonical(nil, types.ColumnTypeText), canonical("", types.ColumnTypeText))
}
