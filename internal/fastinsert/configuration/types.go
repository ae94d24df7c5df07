package configuration

import (
	"time"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
)

const (
	DriverPgx    = "pgx"
	DriverPq     = "pq"
	DriverSqlite = "sqlite"
)

type PostgresConfig struct {
	// libpq connection parameters, e.g. host, port, user, password, dbname, sslmode
	Connection map[string]string
}

type DatabaseConfig struct {
	// Which driver to connect with: pgx, pq or sqlite
	Driver string `validate:"oneof=pgx pq sqlite"`
	// Connection details used by the pgx and pq drivers
	Postgres PostgresConfig
	// Path or DSN of the sqlite database; used by the sqlite driver only
	SqlitePath string
	// Number of attempts made to reach the database on startup
	ConnectAttempts uint `validate:"gte=1"`
	// Delay between connection attempts
	ConnectRetryDelay time.Duration
}

type FastInsertConfiguration struct {
	// Database configuration
	Database DatabaseConfig
	// Number of rows per INSERT when a request doesn't specify a group size
	DefaultGroupSize int `validate:"gt=0"`
	// Number of tables whose column types are cached after schema introspection
	SchemaCacheSize int `validate:"gt=0"`
	// Column types used to compare existing values, keyed by table then column.
	// These take precedence over introspected types.
	TypeHints map[string]types.ColumnTypes
	// Port on which prometheus metrics are served; 0 disables the endpoint
	MetricsPort uint16
}
