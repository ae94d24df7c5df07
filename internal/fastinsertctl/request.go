package fastinsertctl

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
	"github.com/armadaproject/fastinsert/internal/fastinsert"
)

// Request is the YAML form of an insert request. For example:
//
//	table: attendees
//	static_columns:
//	  event_id: 12
//	additional_columns:
//	  created_by_id: 3
//	variable_column: user_id
//	values: [1, 2, 3]
//	group_size: 500
//	options:
//	  check_for_existing: true
//	  timestamps: true
//	type_hints:
//	  user_id: integer
//
// Column mappings are kept in document order, which is the order columns appear in generated SQL.
type Request struct {
	Table             string             `yaml:"table"`
	StaticColumns     yaml.MapSlice      `yaml:"static_columns"`
	AdditionalColumns yaml.MapSlice      `yaml:"additional_columns"`
	VariableColumn    string             `yaml:"variable_column"`
	VariableColumns   []string           `yaml:"variable_columns"`
	Values            []interface{}      `yaml:"values"`
	GroupSize         interface{}        `yaml:"group_size"`
	Options           fastinsert.Options `yaml:"options"`
	TypeHints         map[string]string  `yaml:"type_hints"`
}

func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	request, err := ParseRequest(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse %s", path)
	}
	return request, nil
}

func ParseRequest(data []byte) (*Request, error) {
	request := &Request{}
	if err := yaml.UnmarshalStrict(data, request); err != nil {
		return nil, errors.WithStack(err)
	}
	return request, nil
}

// Params converts the request into fastinsert.Params. Validation of the values is left to fastinsert.NewInsertSpec.
func (r *Request) Params() (fastinsert.Params, error) {
	static, err := fastinsert.ColumnsFromMapSlice(r.StaticColumns)
	if err != nil {
		return fastinsert.Params{}, err
	}
	additional, err := fastinsert.ColumnsFromMapSlice(r.AdditionalColumns)
	if err != nil {
		return fastinsert.Params{}, err
	}
	var hints types.ColumnTypes
	if len(r.TypeHints) > 0 {
		hints = make(types.ColumnTypes, len(r.TypeHints))
		for column, name := range r.TypeHints {
			columnType, err := types.ParseColumnType(name)
			if err != nil {
				return fastinsert.Params{}, &fastinsert.ConfigurationError{Field: "type_hints", Value: name, Err: err}
			}
			hints[column] = columnType
		}
	}
	return fastinsert.Params{
		Table:             r.Table,
		StaticColumns:     static,
		AdditionalColumns: additional,
		VariableColumn:    r.VariableColumn,
		VariableColumns:   r.VariableColumns,
		Values:            r.Values,
		GroupSize:         r.GroupSize,
		Options:           r.Options,
		TypeHints:         hints,
	}, nil
}

// Spec loads the request at path and validates it.
func (a *App) Spec(path string) (*fastinsert.InsertSpec, error) {
	request, err := LoadRequest(path)
	if err != nil {
		return nil, err
	}
	params, err := request.Params()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return fastinsert.NewInsertSpec(params, a.Params.Config.DefaultGroupSize)
}
