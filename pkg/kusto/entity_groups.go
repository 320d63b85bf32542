package kusto

import (
	"context"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/model"
)

// loadEntityGroups reads entity groups. Clusters without entity group
// support report the command as unknown, which counts as no groups.
func loadEntityGroups(ctx context.Context, db *model.Database, database string, exec Executor) error {
	res, err := optional(exec.Mgmt(ctx, database, ".show entity_groups"))
	if err != nil {
		return err
	}

	overlay := model.New()
	_ = res.Each(func(row Row) error {
		var entities []string
		if ok, err := row.JSON("Entities", &entities); !ok || err != nil {
			entities = splitTopLevel(strings.Trim(row.String("Entities"), "[]"))
		}

		overlay.EntityGroups[row.String("Name")] = &model.EntityGroup{Entities: entities}
		return nil
	})

	fold(db, overlay)
	return nil
}
