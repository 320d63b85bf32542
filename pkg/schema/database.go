package schema

import (
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/timespan"
)

// principals plans one change per role whose principal set differs.
// Removing every admin would lock operators out of the database, so that
// change is never valid.
func (p *planner) principals() []*Change {
	var changes []*Change
	for _, role := range p.desired.Roles() {
		observed := *p.observed.RolePrincipals(role.Role)
		if model.SamePrincipals(observed, role.Principals) {
			continue
		}

		fields := []compare.Difference{{
			Name: role.Role,
			Old:  principalList(observed),
			New:  principalList(role.Principals),
		}}
		scripts := []Script{
			newScript(CategoryPrincipals, OrderPrincipals, setPrincipals(p.database, role.Role, role.Principals)),
		}
		unsafe := role.Role == model.RoleAdmins && len(role.Principals) == 0

		changes = appendChange(changes, build(EntityPrincipals, role.Role, OperationAlter, fields, scripts, unsafe))
	}
	return changes
}

// principalList renders one principal per line so the renderer shows a
// unified diff of the role membership.
func principalList(ps []model.Principal) string {
	lines := make([]string, 0, len(ps))
	for _, pr := range ps {
		line := pr.ID
		if pr.Name != "" {
			line += " (" + pr.Name + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

var defaultPolicyFields = []compare.Field[model.RetentionAndCache]{
	{Name: "retention", Value: func(r *model.RetentionAndCache) string { return r.Retention }},
	{Name: "hotCache", Value: func(r *model.RetentionAndCache) string { return r.HotCache }},
}

// databasePolicies re-asserts the default retention and caching policies.
// Only values the desired document declares are managed.
func (p *planner) databasePolicies() []*Change {
	desired := p.desired.DefaultRetentionAndCache
	if desired == nil {
		return nil
	}

	observed := p.observed.DefaultRetentionAndCache
	if observed == nil {
		observed = &model.RetentionAndCache{}
	}

	var scripts []Script
	if desired.Retention != "" && !timespan.Equal(desired.Retention, observed.Retention) {
		scripts = append(scripts, newScript(CategoryDatabasePolicy, OrderDatabasePolicies,
			alterRetention("database", p.database, desired.Retention)))
	}
	if desired.HotCache != "" && !timespan.Equal(desired.HotCache, observed.HotCache) {
		scripts = append(scripts, newScript(CategoryDatabasePolicy, OrderDatabasePolicies,
			alterCaching("database", p.database, desired.HotCache)))
	}

	fields := compare.Pairs(observed, desired, defaultPolicyFields)
	return appendChange(nil, build(EntityDatabase, p.database, OperationAlter, fields, scripts, false))
}
