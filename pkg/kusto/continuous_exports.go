package kusto

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

type exportProperties struct {
	SizeLimit       int64
	Distributed     bool
	ManagedIdentity string
}

func loadContinuousExports(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := optional(exec.Mgmt(ctx, database, ".show continuous-exports"))
	if err != nil {
		return err
	}

	overlay := model.New()
	err = res.Each(func(row Row) error {
		name := row.String("Name")

		var props exportProperties
		if _, err := row.JSON("ExportProperties", &props); err != nil {
			return errors.Wrapf(err, "continuous export %s", name)
		}

		var scoped []string
		if _, err := row.JSON("CursorScopedTables", &scoped); err != nil {
			return errors.Wrapf(err, "continuous export %s", name)
		}
		tables := make([]string, 0, len(scoped))
		for _, t := range scoped {
			tables = append(tables, entityName(t))
		}

		overlay.ContinuousExports[name] = &model.ContinuousExport{
			ExternalTable:       row.String("ExternalTableName"),
			Query:               row.String("Query"),
			Tables:              tables,
			IntervalBetweenRuns: row.String("IntervalBetweenRuns"),
			ForcedLatency:       row.String("ForcedLatency"),
			SizeLimit:           props.SizeLimit,
			Distributed:         props.Distributed,
			ManagedIdentity:     props.ManagedIdentity,
		}
		return nil
	})
	if err != nil {
		return err
	}

	fold(db, overlay)
	return nil
}
