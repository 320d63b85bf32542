package kusto

import (
	"context"
	"fmt"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

// loadTables reads every table with its columns, folder and doc string from
// `.show database <db> cslschema`.
func loadTables(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := exec.Mgmt(ctx, database, fmt.Sprintf(".show database %s cslschema", utils.QuoteIdentifier(database)))
	if err != nil {
		return err
	}

	overlay := model.New()
	_ = res.Each(func(row Row) error {
		name := row.String("TableName")
		if name == "" {
			return nil
		}

		overlay.Tables[name] = &model.Table{
			Folder:    row.String("Folder"),
			DocString: row.String("DocString"),
			Columns:   parseSchema(row.String("Schema")),
		}
		return nil
	})

	fold(db, overlay)
	return nil
}
