package types

import (
	"context"
)

// Executor runs raw SQL text against a database. Statements are fully rendered by the caller;
// no bind arguments are passed.
type Executor interface {
	// Exec executes a statement that doesn't return rows and returns the number of rows affected.
	Exec(ctx context.Context, sql string) (int64, error)

	// Query executes a statement that returns rows.
	// The returned DatabaseRows must be closed by the caller.
	Query(ctx context.Context, sql string) (DatabaseRows, error)
}

// TxScope runs a function inside a transaction.
type TxScope interface {
	// BeginTxFunc starts a transaction and executes the given function within it.
	// If the function returns nil the transaction is committed, otherwise it is rolled back and the
	// function's error is returned.
	BeginTxFunc(ctx context.Context, action func(Executor) error) error
}

// Database is the full collaborator surface consumed by the inserter.
type Database interface {
	Executor
	TxScope

	// Dialect names the goqu dialect used to render SQL for this database, e.g. "postgres" or "sqlite3".
	Dialect() string
}

// SchemaInspector is implemented by databases able to report column types of a table.
type SchemaInspector interface {
	ColumnTypes(ctx context.Context, table string) (ColumnTypes, error)
}

// DatabaseRows represents an iterator over a result set.
type DatabaseRows interface {
	// Close closes the result set.
	Close()

	// Next moves the iterator to the next row in the result set, it returns false if the result set is exhausted, otherwise true.
	Next() bool

	// Err returns the error, if any, encountered during iteration over the result set.
	Err() error

	// Values returns the values of the current row in select order.
	Values() ([]any, error)

	// FieldNames returns the column names of the result set in select order.
	FieldNames() []string
}
