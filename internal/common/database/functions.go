package database

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/lib/pq"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/armadaproject/fastinsert/internal/common/database/postgres"
	"github.com/armadaproject/fastinsert/internal/common/database/sqldb"
	"github.com/armadaproject/fastinsert/internal/common/database/types"
	"github.com/armadaproject/fastinsert/internal/common/util"
	"github.com/armadaproject/fastinsert/internal/fastinsert/configuration"
)

func CreateConnectionString(values map[string]string) string {
	// https://www.postgresql.org/docs/10/libpq-connect.html#id-1.7.3.8.3.5
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"='"+replacer.Replace(values[k])+"'")
	}
	return strings.Join(parts, " ")
}

func OpenPgxPool(ctx context.Context, config configuration.DatabaseConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.Connect(ctx, CreateConnectionString(config.Postgres.Connection))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = pingWithRetry(config, func() error { return db.Ping(ctx) })
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Open connects to the configured database. The returned function releases the connection.
func Open(ctx context.Context, config configuration.DatabaseConfig) (types.Database, func(), error) {
	switch config.Driver {
	case configuration.DriverPgx, "":
		pool, err := OpenPgxPool(ctx, config)
		if err != nil {
			return nil, func() {}, err
		}
		return postgres.PoolAdapter{Pool: pool}, pool.Close, nil
	case configuration.DriverPq:
		return openSqlDb(ctx, config, "postgres", CreateConnectionString(config.Postgres.Connection), sqldb.PostgresDialect)
	case configuration.DriverSqlite:
		path, err := homedir.Expand(config.SqlitePath)
		if err != nil {
			return nil, func() {}, errors.WithStack(err)
		}
		return openSqlDb(ctx, config, "sqlite", path, sqldb.SqliteDialect)
	}
	return nil, func() {}, errors.Errorf("unsupported database driver %q", config.Driver)
}

func openSqlDb(ctx context.Context, config configuration.DatabaseConfig, driverName, dsn, dialect string) (types.Database, func(), error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, func() {}, errors.WithStack(err)
	}
	if driverName == "sqlite" {
		// SQLite allows a single writer; one connection also keeps in-memory databases intact.
		db.SetMaxOpenConns(1)
	}
	err = pingWithRetry(config, func() error { return db.PingContext(ctx) })
	if err != nil {
		_ = db.Close()
		return nil, func() {}, err
	}
	closer := func() { util.CloseResource(driverName+" database", db) }
	return sqldb.New(db, dialect), closer, nil
}

func pingWithRetry(config configuration.DatabaseConfig, ping func() error) error {
	attempts := config.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		ping,
		retry.Attempts(attempts),
		retry.Delay(config.ConnectRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).Warnf("database not reachable (attempt %d of %d)", n+1, attempts)
		}),
	)
	return errors.WithMessage(err, "failed to connect to database")
}
