package kusto

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

type (
	retentionPolicy struct {
		SoftDeletePeriod string
	}

	cachingPolicy struct {
		DataHotSpan hotSpan
	}

	rowLevelSecurityPolicy struct {
		IsEnabled bool
		Query     string
	}

	// hotSpan accepts both the plain timespan form and the `{"Value": ...}`
	// object form used by caching policies.
	hotSpan string
)

func (h *hotSpan) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*h = hotSpan(s)
		return nil
	}

	var obj struct{ Value string }
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*h = hotSpan(obj.Value)
	return nil
}

// showPolicy runs `.show <target> policy <kind>` and treats a missing policy
// as an empty result.
func showPolicy(ctx context.Context, exec Executor, database, target, kind string) (*Result, error) {
	return optional(exec.Mgmt(ctx, database, fmt.Sprintf(".show %s policy %s", target, kind)))
}

func loadDatabasePolicies(ctx context.Context, db *model.Database, database string, exec Executor) error {
	target := "database " + utils.QuoteIdentifier(database)
	overlay := model.New()
	defaults := &model.RetentionAndCache{}

	res, err := showPolicy(ctx, exec, database, target, "retention")
	if err != nil {
		return err
	}
	if res.Len() > 0 {
		var p retentionPolicy
		if _, err := res.Row(0).JSON("Policy", &p); err != nil {
			return err
		}
		defaults.Retention = p.SoftDeletePeriod
	}

	res, err = showPolicy(ctx, exec, database, target, "caching")
	if err != nil {
		return err
	}
	if res.Len() > 0 {
		var p cachingPolicy
		if _, err := res.Row(0).JSON("Policy", &p); err != nil {
			return err
		}
		defaults.HotCache = string(p.DataHotSpan)
	}

	overlay.DefaultRetentionAndCache = defaults
	fold(db, overlay)
	return nil
}

// eachEntityPolicy runs a wildcard policy query and calls fn for every row
// naming an entity present in known.
func eachEntityPolicy[T any](
	ctx context.Context,
	exec Executor,
	database, target, kind string,
	known map[string]*T,
	fn func(name string, row Row) error,
) error {
	res, err := showPolicy(ctx, exec, database, target, kind)
	if err != nil {
		return err
	}

	return res.Each(func(row Row) error {
		name := entityName(row.String("EntityName"))
		if _, ok := known[name]; !ok {
			return nil
		}
		return errors.Wrapf(fn(name, row), "%s policy of %s", kind, name)
	})
}

// tablePolicies returns the Policies of the named table in overlay,
// allocating it on first use.
func tablePolicies(overlay *model.Database, name string) *model.Policies {
	t, ok := overlay.Tables[name]
	if !ok {
		t = &model.Table{}
		overlay.Tables[name] = t
	}
	if t.Policies == nil {
		t.Policies = &model.Policies{}
	}
	return t.Policies
}

func loadTablePolicies(ctx context.Context, db *model.Database, database string, exec Executor) error {
	overlay := model.New()
	known := db.Tables

	err := eachEntityPolicy(ctx, exec, database, "table *", "retention", known, func(name string, row Row) error {
		var p retentionPolicy
		ok, err := row.JSON("Policy", &p)
		if ok && p.SoftDeletePeriod != "" {
			tablePolicies(overlay, name).Retention = utils.Ptr(p.SoftDeletePeriod)
		}
		return err
	})
	if err != nil {
		return err
	}

	err = eachEntityPolicy(ctx, exec, database, "table *", "caching", known, func(name string, row Row) error {
		var p cachingPolicy
		ok, err := row.JSON("Policy", &p)
		if ok && p.DataHotSpan != "" {
			tablePolicies(overlay, name).HotCache = utils.Ptr(string(p.DataHotSpan))
		}
		return err
	})
	if err != nil {
		return err
	}

	err = eachEntityPolicy(ctx, exec, database, "table *", "update", known, func(name string, row Row) error {
		var p []model.UpdatePolicy
		ok, err := row.JSON("Policy", &p)
		if ok && len(p) > 0 {
			tablePolicies(overlay, name).UpdatePolicies = p
		}
		return err
	})
	if err != nil {
		return err
	}

	err = eachEntityPolicy(ctx, exec, database, "table *", "row_level_security", known, func(name string, row Row) error {
		var p rowLevelSecurityPolicy
		ok, err := row.JSON("Policy", &p)
		if ok && p.IsEnabled && strings.TrimSpace(p.Query) != "" {
			tablePolicies(overlay, name).RowLevelSecurity = utils.Ptr(p.Query)
		}
		return err
	})
	if err != nil {
		return err
	}

	err = eachEntityPolicy(ctx, exec, database, "table *", "restricted_view_access", known, func(name string, row Row) error {
		if row.Bool("Policy") {
			tablePolicies(overlay, name).RestrictedViewAccess = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	fold(db, overlay)
	return nil
}

// loadPartitioning annotates tables that are already present. Rows for
// unknown tables are ignored.
func loadPartitioning(ctx context.Context, db *model.Database, database string, exec Executor) error {
	overlay := model.New()

	err := eachEntityPolicy(ctx, exec, database, "table *", "partitioning", db.Tables, func(name string, row Row) error {
		var p model.PartitioningPolicy
		ok, err := row.JSON("Policy", &p)
		if ok && len(p.PartitionKeys) > 0 {
			tablePolicies(overlay, name).Partitioning = &p
		}
		return err
	})
	if err != nil {
		return err
	}

	fold(db, overlay)
	return nil
}

// loadViewPolicies loads retention and caching for every known materialized
// view.
func loadViewPolicies(ctx context.Context, db *model.Database, database string, exec Executor) error {
	overlay := model.New()

	for name := range db.MaterializedViews {
		target := "materialized-view " + utils.QuoteIdentifier(name)
		policies := &model.Policies{}

		res, err := showPolicy(ctx, exec, database, target, "retention")
		if err != nil {
			return err
		}
		if res.Len() > 0 {
			var p retentionPolicy
			if _, err := res.Row(0).JSON("Policy", &p); err != nil {
				return errors.Wrapf(err, "retention policy of %s", name)
			}
			policies.Retention = utils.NonEmpty(p.SoftDeletePeriod)
		}

		res, err = showPolicy(ctx, exec, database, target, "caching")
		if err != nil {
			return err
		}
		if res.Len() > 0 {
			var p cachingPolicy
			if _, err := res.Row(0).JSON("Policy", &p); err != nil {
				return errors.Wrapf(err, "caching policy of %s", name)
			}
			policies.HotCache = utils.NonEmpty(string(p.DataHotSpan))
		}

		overlay.MaterializedViews[name] = &model.MaterializedView{Policies: policies}
	}

	fold(db, overlay)
	return nil
}
