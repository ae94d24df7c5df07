package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

func TestColumnTypeDecodeHook(t *testing.T) {
	var decoded struct {
		TypeHints map[string]types.ColumnTypes
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: ColumnTypeDecodeHook(),
		Result:     &decoded,
	})
	require.NoError(t, err)

	err = decoder.Decode(map[string]interface{}{
		"typeHints": map[string]interface{}{
			"attendees": map[string]interface{}{"user_id": "Integer", "active": "boolean"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, types.ColumnTypes{"user_id": types.ColumnTypeInteger, "active": types.ColumnTypeBoolean}, decoded.TypeHints["attendees"])

	err = decoder.Decode(map[string]interface{}{
		"typeHints": map[string]interface{}{
			"attendees": map[string]interface{}{"user_id": "blob"},
		},
	})
	assert.Error(t, err)
}

func TestLogValidationErrors(t *testing.T) {
	type database struct {
		Driver string `validate:"required"`
	}
	type config struct {
		Database  database
		GroupSize int `validate:"gt=0"`
	}

	err := LogValidationErrors(validator.New().Struct(config{}))
	assert.EqualError(t, err, "invalid configuration: Database.Driver, GroupSize")

	other := errors.New("boom")
	assert.Equal(t, other, LogValidationErrors(other))
	assert.NoError(t, LogValidationErrors(nil))
}
