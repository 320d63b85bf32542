package kusto

import (
	"context"

	"github.com/pseudomuto/kustokeeper/pkg/model"
)

// loadMaterializedViews reads view definitions and then their retention and
// caching policies. Whether a view is built over another view is derived
// during normalization.
func loadMaterializedViews(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := exec.Mgmt(ctx, database, ".show materialized-views")
	if err != nil {
		return err
	}

	overlay := model.New()
	_ = res.Each(func(row Row) error {
		name := row.String("Name")
		overlay.MaterializedViews[name] = &model.MaterializedView{
			Source:            row.String("SourceTable"),
			Folder:            row.String("Folder"),
			DocString:         row.String("DocString"),
			Query:             row.String("Query"),
			AutoUpdateSchema:  row.Bool("AutoUpdateSchema"),
			EffectiveDateTime: row.String("EffectiveDateTime"),
			Lookback:          row.String("Lookback"),
		}

		// cslschema lists the backing table of a view as well.
		delete(db.Tables, name)
		return nil
	})

	fold(db, overlay)
	return loadViewPolicies(ctx, db, database, exec)
}
