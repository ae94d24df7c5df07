package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"github.com/armadaproject/fastinsert/internal/common/util"
	"github.com/armadaproject/fastinsert/internal/fastinsert/configuration"
)

// TestConnection holds the connection parameters of the Postgres instance used by integration tests.
var TestConnection = map[string]string{
	"host":     "localhost",
	"port":     "5432",
	"user":     "postgres",
	"password": "psw",
	"sslmode":  "disable",
}

// WithTestDb spins up a Postgres database for testing
//
//	setup: statements executed before entering the action callback, e.g. CREATE TABLE
//	action: callback for client code
//
// The database is dropped once the action returns.
func WithTestDb(setup []string, action func(db *pgxpool.Pool) error) error {
	ctx := context.Background()

	// Connect and create a dedicated database for the test
	dbName := "test_" + util.NewULID()
	db, err := pgx.Connect(ctx, CreateConnectionString(TestConnection))
	if err != nil {
		return errors.WithStack(err)
	}
	defer db.Close(ctx)

	_, err = db.Exec(ctx, "CREATE DATABASE "+dbName)
	if err != nil {
		return errors.WithStack(err)
	}

	// Connect again: this time to the database we just created. This is the database we use for tests
	connection := map[string]string{"dbname": dbName}
	for k, v := range TestConnection {
		connection[k] = v
	}
	testDbPool, err := OpenPgxPool(ctx, configuration.DatabaseConfig{
		Postgres:        configuration.PostgresConfig{Connection: connection},
		ConnectAttempts: 1,
	})
	if err != nil {
		return err
	}

	defer func() {
		testDbPool.Close()

		// disconnect all db user before cleanup
		_, err = db.Exec(ctx,
			`SELECT pg_terminate_backend(pg_stat_activity.pid)
			 FROM pg_stat_activity WHERE pg_stat_activity.datname = '`+dbName+`';`)
		if err != nil {
			fmt.Println("Failed to disconnect users")
		}

		_, err = db.Exec(ctx, "DROP DATABASE "+dbName)
		if err != nil {
			fmt.Println("Failed to drop database")
		}
	}()

	for _, stmt := range setup {
		if _, err := testDbPool.Exec(ctx, stmt); err != nil {
			return errors.WithStack(err)
		}
	}

	return action(testDbPool)
}
