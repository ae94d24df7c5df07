// Package sqldb adapts a database/sql handle to the inserter's collaborator interfaces.
// It is used with the modernc.org/sqlite driver ("sqlite") and the lib/pq driver ("postgres").
package sqldb

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/database/postgres"
	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

const (
	SqliteDialect   = "sqlite3"
	PostgresDialect = postgres.Dialect
)

// DB implements types.Database and types.SchemaInspector for a *sql.DB.
type DB struct {
	db      *sql.DB
	dialect string
}

// New wraps db. dialect must name a registered goqu dialect matching the driver behind db.
func New(db *sql.DB, dialect string) *DB {
	return &DB{db: db, dialect: dialect}
}

func (d *DB) Dialect() string {
	return d.dialect
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Exec(ctx context.Context, query string) (int64, error) {
	return exec(ctx, d.db, query)
}

func (d *DB) Query(ctx context.Context, query string) (types.DatabaseRows, error) {
	return queryRows(ctx, d.db, query)
}

func (d *DB) BeginTxFunc(ctx context.Context, action func(types.Executor) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := action(txAdapter{tx: tx}); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.WithMessagef(err, "rollback failed: %s", rollbackErr)
		}
		return err
	}
	return tx.Commit()
}

func (d *DB) ColumnTypes(ctx context.Context, table string) (types.ColumnTypes, error) {
	return columnTypes(ctx, d, d.dialect, table)
}

type txAdapter struct {
	tx *sql.Tx
}

func (t txAdapter) Exec(ctx context.Context, query string) (int64, error) {
	return exec(ctx, t.tx, query)
}

func (t txAdapter) Query(ctx context.Context, query string) (types.DatabaseRows, error) {
	return queryRows(ctx, t.tx, query)
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func exec(ctx context.Context, db execQuerier, query string) (int64, error) {
	result, err := db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		// Not every driver reports affected rows.
		return 0, nil
	}
	return n, nil
}

func queryRows(ctx context.Context, db execQuerier, query string) (types.DatabaseRows, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return &rowsAdapter{rows: rows, columns: columns}, nil
}

type rowsAdapter struct {
	rows    *sql.Rows
	columns []string
}

func (r *rowsAdapter) Close() {
	_ = r.rows.Close()
}

func (r *rowsAdapter) Next() bool {
	return r.rows.Next()
}

func (r *rowsAdapter) Err() error {
	return r.rows.Err()
}

func (r *rowsAdapter) FieldNames() []string {
	return r.columns
}

func (r *rowsAdapter) Values() ([]any, error) {
	values := make([]any, len(r.columns))
	dest := make([]any, len(r.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, err
	}
	return values, nil
}
