package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

const Dialect = "postgres"

// PoolAdapter implements types.Database and types.SchemaInspector on top of a pgx pool.
type PoolAdapter struct {
	*pgxpool.Pool
}

func (p PoolAdapter) Dialect() string {
	return Dialect
}

func (p PoolAdapter) Exec(ctx context.Context, sql string) (int64, error) {
	tag, err := p.Pool.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p PoolAdapter) Query(ctx context.Context, sql string) (types.DatabaseRows, error) {
	rows, err := p.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{Rows: rows}, nil
}

func (p PoolAdapter) BeginTxFunc(ctx context.Context, action func(types.Executor) error) error {
	return p.Pool.BeginTxFunc(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return action(TxAdapter{Tx: tx})
	})
}

func (p PoolAdapter) ColumnTypes(ctx context.Context, table string) (types.ColumnTypes, error) {
	return FetchColumnTypes(ctx, p, table)
}

// TxAdapter exposes a pgx transaction as a types.Executor.
type TxAdapter struct {
	pgx.Tx
}

func (t TxAdapter) Exec(ctx context.Context, sql string) (int64, error) {
	tag, err := t.Tx.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t TxAdapter) Query(ctx context.Context, sql string) (types.DatabaseRows, error) {
	rows, err := t.Tx.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{Rows: rows}, nil
}

type rowsAdapter struct {
	pgx.Rows
}

func (r rowsAdapter) FieldNames() []string {
	fields := r.Rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = string(fd.Name)
	}
	return names
}
