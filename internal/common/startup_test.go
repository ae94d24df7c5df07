package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
	"github.com/armadaproject/fastinsert/internal/fastinsert/configuration"
)

const defaultConfig = `
defaultGroupSize: 1000
schemaCacheSize: 16
database:
  driver: pgx
  connectAttempts: 5
  connectRetryDelay: 1s
  postgres:
    connection:
      host: localhost
      port: 5432
typeHints:
  attendees:
    user_id: integer
`

const overrideConfig = `
database:
  driver: sqlite
  sqlitePath: /tmp/test.db
typeHints:
  attendees:
    active: Boolean
`

func writeFile(t *testing.T, path string, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), defaultConfig)
	override := filepath.Join(dir, "override.yaml")
	writeFile(t, override, overrideConfig)
	t.Setenv("FASTINSERT_SCHEMACACHESIZE", "32")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("group-size", 0, "")
	flags.Uint("attempts", 9, "")
	require.NoError(t, flags.Parse([]string{"--group-size", "50"}))

	var config configuration.FastInsertConfiguration
	_, err := LoadConfig(&config, dir, []string{override}, map[string]*pflag.Flag{
		"defaultGroupSize":         flags.Lookup("group-size"),
		"database.connectAttempts": flags.Lookup("attempts"),
	})
	require.NoError(t, err)

	assert.Equal(t, configuration.FastInsertConfiguration{
		Database: configuration.DatabaseConfig{
			Driver: configuration.DriverSqlite,
			Postgres: configuration.PostgresConfig{
				Connection: map[string]string{"host": "localhost", "port": "5432"},
			},
			SqlitePath:        "/tmp/test.db",
			ConnectAttempts:   5,
			ConnectRetryDelay: time.Second,
		},
		DefaultGroupSize: 50,
		SchemaCacheSize:  32,
		TypeHints: map[string]types.ColumnTypes{
			"attendees": {"user_id": types.ColumnTypeInteger, "active": types.ColumnTypeBoolean},
		},
	}, config)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig_MissingDefault(t *testing.T) {
	var config configuration.FastInsertConfiguration
	_, err := LoadConfig(&config, t.TempDir(), nil, nil)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidColumnType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "typeHints:\n  attendees:\n    user_id: blob\n")

	var config configuration.FastInsertConfiguration
	_, err := LoadConfig(&config, dir, nil, nil)
	assert.Error(t, err)
}
