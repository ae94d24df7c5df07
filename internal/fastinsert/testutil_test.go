package fastinsert

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/armadaproject/fastinsert/internal/common/database/sqldb"
	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

// newSqliteDb returns an in-memory database on which the given statements have been run.
func newSqliteDb(t *testing.T, setup ...string) *sqldb.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range setup {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return sqldb.New(db, sqldb.SqliteDialect)
}

func queryInt(t *testing.T, db types.Executor, query string) int64 {
	rows, err := db.Query(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next(), query)
	values, err := rows.Values()
	require.NoError(t, err)
	n, ok := toInt64(values[0])
	require.True(t, ok, "%v is not an integer", values[0])
	return n
}

// recordingDb records every statement it's given and fails the failOn'th Exec, counting from one.
type recordingDb struct {
	dialect    string
	statements []string
	execs      int
	failOn     int
	err        error
}

func (db *recordingDb) Dialect() string {
	return db.dialect
}

func (db *recordingDb) Exec(_ context.Context, sql string) (int64, error) {
	db.statements = append(db.statements, sql)
	db.execs++
	if db.execs == db.failOn {
		return 0, db.err
	}
	return 1, nil
}

func (db *recordingDb) Query(_ context.Context, sql string) (types.DatabaseRows, error) {
	db.statements = append(db.statements, sql)
	return &emptyRows{}, nil
}

func (db *recordingDb) BeginTxFunc(_ context.Context, action func(types.Executor) error) error {
	return action(db)
}

type emptyRows struct{}

func (r *emptyRows) Close()                 {}
func (r *emptyRows) Next() bool             { return false }
func (r *emptyRows) Err() error             { return nil }
func (r *emptyRows) Values() ([]any, error) { return nil, nil }
func (r *emptyRows) FieldNames() []string   { return nil }

type staticInspector struct {
	columnTypes types.ColumnTypes
	err         error
	calls       int
}

func (i *staticInspector) ColumnTypes(_ context.Context, _ string) (types.ColumnTypes, error) {
	i.calls++
	return i.columnTypes, i.err
}

// cannedDb answers every query with the same rows, as returned by a driver.
type cannedDb struct {
	fieldNames []string
	rows       [][]any
	queries    []string
}

func (db *cannedDb) Exec(_ context.Context, sql string) (int64, error) {
	return 0, nil
}

func (db *cannedDb) Query(_ context.Context, sql string) (types.DatabaseRows, error) {
	db.queries = append(db.queries, sql)
	return &cannedRows{fieldNames: db.fieldNames, rows: db.rows, next: -1}, nil
}

type cannedRows struct {
	fieldNames []string
	rows       [][]any
	next       int
}

func (r *cannedRows) Close()                 {}
func (r *cannedRows) Next() bool             { r.next++; return r.next < len(r.rows) }
func (r *cannedRows) Err() error             { return nil }
func (r *cannedRows) Values() ([]any, error) { return r.rows[r.next], nil }
func (r *cannedRows) FieldNames() []string   { return r.fieldNames }

// queryStrings returns the first column of every row as text.
func queryStrings(t *testing.T, db types.Executor, query string) []string {
	rows, err := db.Query(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()
	result := []string{}
	for rows.Next() {
		values, err := rows.Values()
		require.NoError(t, err)
		result = append(result, toText(values[0]))
	}
	require.NoError(t, rows.Err())
	return result
}
