package fastinsert

import (
	"fmt"
)

// ConfigurationError is returned when an insert request is malformed or incomplete,
// e.g. a missing table name, no variable columns, or a row whose arity doesn't match the variable columns.
// It is always returned before any SQL is issued.
type ConfigurationError struct {
	// Name of the offending field, e.g. "table" or "values"
	Field string
	// The invalid value, if any
	Value interface{}
	// Explanation of what is wrong
	Message string
	// Underlying problems, if several were found
	Err error
}

func (err *ConfigurationError) Error() string {
	s := "invalid insert request"
	if err.Field != "" {
		s = fmt.Sprintf("%s: field %q", s, err.Field)
		if err.Value != nil {
			s = fmt.Sprintf("%s has invalid value %v", s, err.Value)
		}
	}
	if err.Message != "" {
		s = fmt.Sprintf("%s; %s", s, err.Message)
	}
	if err.Err != nil {
		s = fmt.Sprintf("%s: %s", s, err.Err)
	}
	return s
}

func (err *ConfigurationError) Unwrap() error {
	return err.Err
}

// StorageError is returned when the database rejects a statement or is unreachable.
// Groups before Group were committed; Group and every group after it were not inserted.
type StorageError struct {
	Table string
	// Zero-based position of the failed group
	Group int
	// Number of rows in the failed group
	Rows int
	Err  error
}

func (err *StorageError) Error() string {
	return fmt.Sprintf("failed to insert group %d (%d rows) into %s: %s", err.Group, err.Rows, err.Table, err.Err)
}

func (err *StorageError) Unwrap() error {
	return err.Err
}

// renderFailure reports a value that the SQL generator couldn't render as a literal.
func renderFailure(err error) error {
	return &ConfigurationError{Field: "values", Message: "value can't be rendered as an SQL literal", Err: err}
}
