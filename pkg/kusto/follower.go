package kusto

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

type entityOverride struct {
	CachingPolicyOverride *cachingPolicy
}

// FollowerLoader returns a Loader that reads the cache overrides of a
// follower database into db.Followers[key]. It is meant to run alone against
// a follower cluster.
//
// Example:
//
//	observed, err := kusto.LoadDatabase(ctx, "telemetry", follower, kusto.FollowerLoader("replica"))
//	changes := schema.PlanFollower(observed.Followers["replica"], desired.Followers["replica"], "telemetry")
func FollowerLoader(key string) Loader {
	return NewLoader("follower database", func(ctx context.Context, db *model.Database, database string, exec Executor) error {
		f, err := loadFollower(ctx, database, exec)
		if err != nil {
			return err
		}

		overlay := model.New()
		overlay.Followers[key] = f
		fold(db, overlay)
		return nil
	})
}

func loadFollower(ctx context.Context, database string, exec Executor) (*model.FollowerDatabase, error) {
	res, err := optional(exec.Mgmt(ctx, database, fmt.Sprintf(".show follower database %s", utils.QuoteIdentifier(database))))
	if err != nil {
		return nil, err
	}

	f := &model.FollowerDatabase{DatabaseName: database}
	if res.Len() == 0 {
		return f, nil
	}
	row := res.Row(0)

	var db cachingPolicy
	if _, err := row.JSON("CachingPolicyOverride", &db); err != nil {
		return nil, err
	}
	f.HotCache = string(db.DataHotSpan)

	if f.Tables, err = overrides(row, "TableMetadataOverrides"); err != nil {
		return nil, err
	}
	if f.MaterializedViews, err = overrides(row, "MaterializedViewsMetadataOverrides"); err != nil {
		return nil, err
	}

	return f, nil
}

func overrides(row Row, column string) (map[string]string, error) {
	var raw map[string]entityOverride
	if _, err := row.JSON(column, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", column)
	}

	out := make(map[string]string, len(raw))
	for name, o := range raw {
		if o.CachingPolicyOverride != nil && o.CachingPolicyOverride.DataHotSpan != "" {
			out[name] = string(o.CachingPolicyOverride.DataHotSpan)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
