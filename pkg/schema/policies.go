package schema

import (
	"strconv"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

var policyFields = []compare.Field[model.Policies]{
	{Name: "retention", Value: func(p *model.Policies) string { return utils.Deref(p.Retention) }},
	{Name: "hotCache", Value: func(p *model.Policies) string { return utils.Deref(p.HotCache) }},
	{Name: "rowLevelSecurity", Value: func(p *model.Policies) string { return utils.Deref(p.RowLevelSecurity) }},
	{Name: "restrictedViewAccess", Value: func(p *model.Policies) string {
		if !p.RestrictedViewAccess {
			return ""
		}
		return strconv.FormatBool(p.RestrictedViewAccess)
	}},
	{Name: "updatePolicies", Value: func(p *model.Policies) string { return indentJSON(p.UpdatePolicies) }},
	{Name: "partitioning", Value: func(p *model.Policies) string {
		if p.Partitioning == nil {
			return ""
		}
		return indentJSON(p.Partitioning)
	}},
}

// viewPolicyFields are the policies materialized views support.
var viewPolicyFields = policyFields[:2]

func policiesOf(p *model.Policies) *model.Policies {
	if p == nil {
		return &model.Policies{}
	}
	return p
}

// retentionAndCaching plans the retention and caching scripts shared by
// tables and materialized views. A policy present in observed but absent
// from desired is deleted so the entity inherits the database default.
func retentionAndCaching(target, name, category string, retentionOrder, cachingOrder int, old, new *model.Policies) []Script {
	var scripts []Script

	if o, n := utils.Deref(old.Retention), utils.Deref(new.Retention); o != n {
		text := deletePolicy(target, name, "retention")
		if n != "" {
			text = alterRetention(target, name, n)
		}
		scripts = append(scripts, newScript(category, retentionOrder, text))
	}

	if o, n := utils.Deref(old.HotCache), utils.Deref(new.HotCache); o != n {
		text := deletePolicy(target, name, "caching")
		if n != "" {
			text = alterCaching(target, name, n)
		}
		scripts = append(scripts, newScript(category, cachingOrder, text))
	}

	return scripts
}

// tablePolicies plans every table level policy script.
func tablePolicies(name string, old, new *model.Policies) []Script {
	old, new = policiesOf(old), policiesOf(new)
	scripts := retentionAndCaching("table", name, CategoryTablePolicy, OrderTableRetention, OrderTableCaching, old, new)

	if !samePartitioning(old.Partitioning, new.Partitioning) {
		text := deletePolicy("table", name, "partitioning")
		if new.Partitioning != nil {
			text = alterPartitioning(name, new.Partitioning)
		}
		scripts = append(scripts, newScript(CategoryTablePolicy, OrderTablePartitioning, text))
	}

	if o, n := utils.Deref(old.RowLevelSecurity), utils.Deref(new.RowLevelSecurity); o != n {
		text := deletePolicy("table", name, "row_level_security")
		if n != "" {
			text = alterRowLevelSecurity(name, n)
		}
		scripts = append(scripts, newScript(CategoryTablePolicy, OrderTableRowLevelSecurity, text))
	}

	if old.RestrictedViewAccess != new.RestrictedViewAccess {
		scripts = append(scripts, newScript(CategoryTablePolicy, OrderTableRestrictedViewAccess,
			alterRestrictedViewAccess(name, new.RestrictedViewAccess)))
	}

	if !compare.Slices(old.UpdatePolicies, new.UpdatePolicies, func(a, b model.UpdatePolicy) bool { return a == b }) {
		text := deletePolicy("table", name, "update")
		if len(new.UpdatePolicies) > 0 {
			text = alterUpdatePolicy(name, new.UpdatePolicies)
		}
		scripts = append(scripts, newScript(CategoryUpdatePolicy, OrderUpdatePolicy, text))
	}

	return scripts
}

// samePartitioning compares partitioning policies. The cluster stamps an
// effective date on every policy, so it only matters when desired sets one.
func samePartitioning(observed, desired *model.PartitioningPolicy) bool {
	if observed != nil && desired != nil && desired.EffectiveDateTime == "" {
		observed = observed.Clone()
		observed.EffectiveDateTime = ""
	}
	return observed.Equal(desired)
}

// viewPolicies plans the retention and caching scripts of a materialized
// view.
func viewPolicies(name string, old, new *model.Policies) []Script {
	return retentionAndCaching("materialized-view", name, CategoryViewPolicy, OrderViewPolicy, OrderViewPolicy,
		policiesOf(old), policiesOf(new))
}
