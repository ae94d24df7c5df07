package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnTypeFromDatabaseType(t *testing.T) {
	tests := map[string]ColumnType{
		"integer":                     ColumnTypeInteger,
		"bigint":                      ColumnTypeInteger,
		"INT":                         ColumnTypeInteger,
		"boolean":                     ColumnTypeBoolean,
		"BOOLEAN":                     ColumnTypeBoolean,
		"timestamp without time zone": ColumnTypeLocalTimestamp,
		"timestamp with time zone":    ColumnTypeTimestamp,
		"TIMESTAMP":                   ColumnTypeTimestamp,
		"DATETIME":                    ColumnTypeTimestamp,
		"character varying":           ColumnTypeText,
		"VARCHAR(255)":                ColumnTypeText,
		"uuid":                        ColumnTypeUUID,
		"UUID":                        ColumnTypeUUID,
		"double precision":            ColumnTypeNumeric,
		"numeric":                     ColumnTypeNumeric,
		"interval":                    ColumnTypeUnknown,
		"":                            ColumnTypeUnknown,
		"jsonb":                       ColumnTypeUnknown,
	}
	for dbType, expected := range tests {
		t.Run(dbType, func(t *testing.T) {
			assert.Equal(t, expected, ColumnTypeFromDatabaseType(dbType))
		})
	}
}

func TestParseColumnType(t *testing.T) {
	ct, err := ParseColumnType(" Integer ")
	assert.NoError(t, err)
	assert.Equal(t, ColumnTypeInteger, ct)

	ct, err = ParseColumnType("UUID")
	assert.NoError(t, err)
	assert.Equal(t, ColumnTypeUUID, ct)

	ct, err = ParseColumnType("localtimestamp")
	assert.NoError(t, err)
	assert.Equal(t, ColumnTypeLocalTimestamp, ct)

	ct, err = ParseColumnType("")
	assert.NoError(t, err)
	assert.Equal(t, ColumnTypeUnknown, ct)

	_, err = ParseColumnType("blob")
	assert.Error(t, err)
}

func TestColumnTypes_Merge(t *testing.T) {
	hints := ColumnTypes{"user_id": ColumnTypeText, "registered": ColumnTypeUnknown}
	inspected := ColumnTypes{"user_id": ColumnTypeInteger, "registered": ColumnTypeBoolean, "parent_id": ColumnTypeInteger}

	merged := hints.Merge(inspected)

	assert.Equal(t, ColumnTypes{
		"user_id":    ColumnTypeText,
		"registered": ColumnTypeBoolean,
		"parent_id":  ColumnTypeInteger,
	}, merged)
	// Neither input is modified.
	assert.Len(t, hints, 2)
	assert.Len(t, inspected, 3)
}
