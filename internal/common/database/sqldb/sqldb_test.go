package sqldb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

type recordingExecutor struct {
	queries []string
	rows    [][]any
}

func (e *recordingExecutor) Exec(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (e *recordingExecutor) Query(_ context.Context, sql string) (types.DatabaseRows, error) {
	e.queries = append(e.queries, sql)
	return &fixedRows{rows: e.rows, next: -1}, nil
}

type fixedRows struct {
	rows [][]any
	next int
}

func (r *fixedRows) Close()                 {}
func (r *fixedRows) Next() bool             { r.next++; return r.next < len(r.rows) }
func (r *fixedRows) Err() error             { return nil }
func (r *fixedRows) Values() ([]any, error) { return r.rows[r.next], nil }
func (r *fixedRows) FieldNames() []string   { return []string{"column_name", "data_type"} }

func TestColumnTypes_PostgresUsesSearchPath(t *testing.T) {
	executor := &recordingExecutor{rows: [][]any{
		{[]byte("user_id"), []byte("integer")},
		{"token", "uuid"},
	}}

	columnTypes, err := columnTypes(context.Background(), executor, PostgresDialect, "attendees")
	require.NoError(t, err)
	assert.Equal(t, types.ColumnTypes{"user_id": types.ColumnTypeInteger, "token": types.ColumnTypeUUID}, columnTypes)
	require.Len(t, executor.queries, 1)
	assert.Contains(t, executor.queries[0], `("table_schema" = ANY(current_schemas(false)))`)
}

func TestColumnTypes_Sqlite(t *testing.T) {
	handle, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	handle.SetMaxOpenConns(1)
	defer handle.Close()
	_, err = handle.Exec(`CREATE TABLE "odd""name" (user_id INTEGER, token UUID, expires_at DATETIME)`)
	require.NoError(t, err)

	db := New(handle, SqliteDialect)
	columnTypes, err := db.ColumnTypes(context.Background(), `odd"name`)
	require.NoError(t, err)
	assert.Equal(t, types.ColumnTypes{
		"user_id":    types.ColumnTypeInteger,
		"token":      types.ColumnTypeUUID,
		"expires_at": types.ColumnTypeTimestamp,
	}, columnTypes)
}
