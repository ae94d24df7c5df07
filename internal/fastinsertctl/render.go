package fastinsertctl

import (
	"fmt"

	"github.com/armadaproject/fastinsert/internal/common/database/sqldb"
	"github.com/armadaproject/fastinsert/internal/fastinsert"
	"github.com/armadaproject/fastinsert/internal/fastinsert/configuration"
)

// Render writes the INSERT statements the request at path would produce, assuming none of its rows exist.
// Nothing is sent to the database.
func (a *App) Render(path string) error {
	spec, err := a.Spec(path)
	if err != nil {
		return err
	}
	statements, err := fastinsert.Render(a.dialect(), spec, a.Clock.Now())
	if err != nil {
		return err
	}
	for _, statement := range statements {
		fmt.Fprintf(a.Out, "%s;\n", statement)
	}
	return nil
}

func (a *App) dialect() string {
	if a.Params.Dialect != "" {
		return a.Params.Dialect
	}
	if a.Params.Config.Database.Driver == configuration.DriverSqlite {
		return sqldb.SqliteDialect
	}
	return sqldb.PostgresDialect
}
