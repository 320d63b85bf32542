package kusto

import (
	"context"

	"github.com/pseudomuto/kustokeeper/pkg/model"
)

func loadFunctions(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := exec.Mgmt(ctx, database, ".show functions")
	if err != nil {
		return err
	}

	overlay := model.New()
	_ = res.Each(func(row Row) error {
		overlay.Functions[row.String("Name")] = &model.Function{
			Folder:     row.String("Folder"),
			DocString:  row.String("DocString"),
			Parameters: row.String("Parameters"),
			Body:       stripBody(row.String("Body")),
		}
		return nil
	})

	fold(db, overlay)
	return nil
}
