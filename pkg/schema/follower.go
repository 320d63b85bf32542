package schema

import (
	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/timespan"
)

// PlanFollower plans the cache overrides of a follower database. Followers
// are read-only, so the hot cache of the database and of individual tables
// and materialized views is all that can be managed. Overrides observed but
// not desired are deleted.
func PlanFollower(observed, desired *model.FollowerDatabase, database string) []*Change {
	if desired == nil {
		return nil
	}
	if observed == nil {
		observed = &model.FollowerDatabase{}
	}

	var scripts []Script
	var fields []compare.Difference

	if o, n := timespan.Canonical(observed.HotCache), timespan.Canonical(desired.HotCache); o != n {
		text := deleteFollowerCaching(database, "")
		if n != "" {
			text = alterFollowerCaching(database, "", n)
		}
		scripts = append(scripts, newScript(CategoryFollower, OrderDatabasePolicies, text))
		fields = append(fields, compare.Difference{Name: "hotCache", Old: o, New: n})
	}

	overrides := func(kind string, order int, old, new map[string]string) {
		removed, common, added := compare.Partition(old, new)
		for _, name := range removed {
			scope := kind + " (" + quoteAll([]string{name}) + ")"
			scripts = append(scripts, newScript(CategoryFollower, order, deleteFollowerCaching(database, scope)))
			fields = append(fields, compare.Difference{Name: kind + " " + name, Old: timespan.Canonical(old[name])})
		}

		for _, name := range append(common, added...) {
			o, n := timespan.Canonical(old[name]), timespan.Canonical(new[name])
			if o == n {
				continue
			}
			scope := kind + " (" + quoteAll([]string{name}) + ")"
			scripts = append(scripts, newScript(CategoryFollower, order, alterFollowerCaching(database, scope, n)))
			fields = append(fields, compare.Difference{Name: kind + " " + name, Old: o, New: n})
		}
	}
	overrides("tables", OrderTableCaching, observed.Tables, desired.Tables)
	overrides("materialized-views", OrderViewPolicy, observed.MaterializedViews, desired.MaterializedViews)

	return appendChange(nil, build(EntityFollower, database, OperationAlter, fields, scripts, false))
}
