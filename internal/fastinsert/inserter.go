package fastinsert

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/armadaproject/fastinsert/internal/common/database/types"
	"github.com/armadaproject/fastinsert/internal/common/logging"
	"github.com/armadaproject/fastinsert/internal/common/util"
)

// Result summarises a completed Insert call.
type Result struct {
	// Identifier of the call, included in every log line it produced
	Operation string
	// Number of groups processed
	Groups int
	// Number of rows remaining after duplicate removal
	Rows int
	// Rows dropped because they repeated an earlier row of the request
	Duplicates int
	// Rows skipped because they already existed in the table
	Existing int
	// Rows sent to the database in INSERT statements
	Inserted int
}

// Inserter writes InsertSpecs to a database, one multi-row INSERT per group.
// Groups are written in order and each group is atomic; a failed group stops the operation,
// leaving earlier groups committed.
type Inserter struct {
	db        types.Database
	inspector types.SchemaInspector
	hints     map[string]types.ColumnTypes
	clock     clock.PassiveClock
	metrics   *Metrics
	log       *log.Entry
}

// NewInserter creates an Inserter writing to db. If db can report column types they are used when
// comparing against existing rows. metrics may be nil.
func NewInserter(db types.Database, clock clock.PassiveClock, metrics *Metrics) *Inserter {
	inserter := &Inserter{
		db:      db,
		hints:   map[string]types.ColumnTypes{},
		clock:   clock,
		metrics: metrics,
		log:     log.NewEntry(log.StandardLogger()),
	}
	if inspector, ok := db.(types.SchemaInspector); ok {
		inserter.inspector = inspector
	}
	return inserter
}

// WithTypeHints sets the column types of table's variable columns. Hints given on a request take precedence.
func (i *Inserter) WithTypeHints(table string, hints types.ColumnTypes) *Inserter {
	i.hints[table] = hints
	return i
}

// WithInspector replaces the source of column types, e.g. with a database.CachingInspector.
// A nil inspector disables inspection.
func (i *Inserter) WithInspector(inspector types.SchemaInspector) *Inserter {
	i.inspector = inspector
	return i
}

func (i *Inserter) WithLogger(logger *log.Entry) *Inserter {
	i.log = logger
	return i
}

// Insert writes the rows of spec to the database.
//
// With Options.CheckForExisting each group is checked and inserted in a single transaction, and
// rows already present under the same static column values are skipped. If a group fails the returned
// error is a *StorageError identifying it, and the Result accounts for the groups committed before it.
func (i *Inserter) Insert(ctx context.Context, spec *InsertSpec) (*Result, error) {
	now := i.clock.Now()
	result := &Result{Operation: util.ULIDAt(now)}
	logger := i.log.WithFields(log.Fields{"operation": result.Operation, "table": spec.Table})

	groups, duplicates := Group(spec.Values, spec.Options.Unique, spec.GroupSize)
	result.Groups = len(groups)
	result.Duplicates = duplicates
	result.Rows = len(spec.Values) - duplicates
	i.metrics.RecordDuplicates(spec.Table, duplicates)
	if len(groups) == 0 {
		logger.Debug("No rows to insert")
		return result, nil
	}

	var hints types.ColumnTypes
	if spec.Options.CheckForExisting {
		hints = i.typeHints(ctx, spec, logger)
	}
	columnSet := newColumnSet(spec, now)

	for index, group := range groups {
		start := i.clock.Now()
		inserted, existing, err := i.insertGroup(ctx, spec, columnSet, hints, group)
		if err != nil {
			i.metrics.RecordGroupFailure(spec.Table)
			var configErr *ConfigurationError
			if errors.As(err, &configErr) {
				return result, errors.WithStack(err)
			}
			err = errors.WithStack(&StorageError{Table: spec.Table, Group: index, Rows: len(group), Err: err})
			logging.WithStacktrace(logger.WithField("group", index), err).Error("Failed to insert group")
			return result, err
		}
		result.Inserted += inserted
		result.Existing += existing
		i.metrics.RecordGroup(spec.Table, inserted, existing, i.clock.Since(start))
		logger.WithFields(log.Fields{
			"group":    index,
			"inserted": inserted,
			"existing": existing,
		}).Debug("Inserted group")
	}

	logger.WithFields(log.Fields{
		"groups":     result.Groups,
		"inserted":   result.Inserted,
		"existing":   result.Existing,
		"duplicates": result.Duplicates,
	}).Info("Insert complete")
	return result, nil
}

func (i *Inserter) insertGroup(ctx context.Context, spec *InsertSpec, columnSet ColumnSet, hints types.ColumnTypes, group RowGroup) (int, int, error) {
	dialect := i.db.Dialect()
	if !spec.Options.CheckForExisting {
		sql, err := renderInsert(dialect, spec.Table, columnSet, group)
		if err != nil {
			return 0, 0, renderFailure(err)
		}
		if _, err := i.db.Exec(ctx, sql); err != nil {
			return 0, 0, err
		}
		return len(group), 0, nil
	}

	inserted, existing := 0, 0
	err := i.db.BeginTxFunc(ctx, func(tx types.Executor) error {
		remaining, err := filterExisting(ctx, tx, dialect, spec, hints, group)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			existing = len(group)
			return nil
		}
		sql, err := renderInsert(dialect, spec.Table, columnSet, remaining)
		if err != nil {
			return renderFailure(err)
		}
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
		inserted, existing = len(remaining), len(group)-len(remaining)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, existing, nil
}

// typeHints returns the column types used to compare spec's variable values against stored ones.
// Request hints win over configured hints, which win over inspected types. Inspection is skipped when
// every variable column already has a type, and a failed inspection falls back to untyped comparison.
func (i *Inserter) typeHints(ctx context.Context, spec *InsertSpec, logger *log.Entry) types.ColumnTypes {
	hints := spec.TypeHints.Merge(i.hints[spec.Table])
	if i.inspector == nil || covers(hints, spec.VariableColumns) {
		return hints
	}
	inspected, err := i.inspector.ColumnTypes(ctx, spec.Table)
	if err != nil {
		logging.WithStacktrace(logger, err).Warn("Failed to inspect column types; comparing values as text")
		return hints
	}
	return hints.Merge(inspected)
}

func covers(hints types.ColumnTypes, columns []string) bool {
	for _, c := range columns {
		if hints[c] == types.ColumnTypeUnknown {
			return false
		}
	}
	return true
}

func (r *Result) String() string {
	return fmt.Sprintf("operation %s: %d inserted, %d already present, %d duplicates dropped, %d groups",
		r.Operation, r.Inserted, r.Existing, r.Duplicates, r.Groups)
}
