package fastinsertctl

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/fastinsert/internal/common/database"
	"github.com/armadaproject/fastinsert/internal/common/database/postgres"
	"github.com/armadaproject/fastinsert/internal/common/database/types"
	"github.com/armadaproject/fastinsert/internal/fastinsert"
)

// Run executes the requests at the given paths in order against the configured database,
// stopping at the first failure. A summary of each completed request is written to a.Out.
func (a *App) Run(ctx context.Context, paths ...string) error {
	// Validate every request before touching the database.
	specs := make([]*fastinsert.InsertSpec, len(paths))
	for i, path := range paths {
		spec, err := a.Spec(path)
		if err != nil {
			return errors.WithMessagef(err, "invalid request %s", path)
		}
		specs[i] = spec
	}

	inserter, closeDb, err := a.inserter(ctx)
	if err != nil {
		return err
	}
	defer closeDb()

	for i, spec := range specs {
		result, err := inserter.Insert(ctx, spec)
		if err != nil {
			if postgres.IsUniqueViolation(err) {
				return errors.WithMessagef(err,
					"%s violates constraint %s; set check_for_existing to skip rows that already exist",
					paths[i], postgres.ConstraintName(err))
			}
			return errors.WithMessagef(err, "failed to insert %s", paths[i])
		}
		fmt.Fprintf(a.Out, "%s: %s\n", paths[i], result)
	}
	return nil
}

func (a *App) inserter(ctx context.Context) (*fastinsert.Inserter, func(), error) {
	config := a.Params.Config
	db, closeDb, err := database.Open(ctx, config.Database)
	if err != nil {
		return nil, nil, err
	}

	if a.Registry != nil && a.metrics == nil {
		a.metrics = fastinsert.NewMetrics(a.Registry)
	}
	inserter := fastinsert.NewInserter(db, a.Clock, a.metrics)
	if inspector, ok := db.(types.SchemaInspector); ok && config.SchemaCacheSize > 0 {
		cachingInspector, err := database.NewCachingInspector(inspector, config.SchemaCacheSize)
		if err != nil {
			closeDb()
			return nil, nil, err
		}
		inserter.WithInspector(cachingInspector)
	}
	for table, hints := range config.TypeHints {
		inserter.WithTypeHints(table, hints)
	}
	log.Debugf("Connected to %s database", db.Dialect())
	return inserter, closeDb, nil
}
