package schema

import (
	"strconv"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

var viewFields = []compare.Field[model.MaterializedView]{
	{Name: "source", Value: func(mv *model.MaterializedView) string { return mv.Source }},
	{Name: "kind", Value: func(mv *model.MaterializedView) string { return mv.SourceKind() }},
	{Name: "folder", Value: func(mv *model.MaterializedView) string { return mv.Folder }},
	{Name: "docString", Value: func(mv *model.MaterializedView) string { return mv.DocString }},
	{Name: "autoUpdateSchema", Value: func(mv *model.MaterializedView) string { return flag(mv.AutoUpdateSchema) }},
	{Name: "lookback", Value: func(mv *model.MaterializedView) string { return mv.Lookback }},
	{Name: "dimensionTables", Value: func(mv *model.MaterializedView) string { return strings.Join(mv.DimensionTables, ", ") }},
	{Name: "query", Value: func(mv *model.MaterializedView) string { return mv.Query + "\n" }},
}

func (p *planner) materializedViews() []*Change {
	var changes []*Change
	for _, name := range dependencyOrder(p.desired.MaterializedViews) {
		changes = appendChange(changes, planView(name, p.observed.MaterializedViews[name], p.desired.MaterializedViews[name]))
	}
	return changes
}

// dependencyOrder returns the view names with every view placed after the
// view it reads from. Unrelated views keep name order.
func dependencyOrder(views map[string]*model.MaterializedView) []string {
	const (
		visiting = iota + 1
		done
	)

	order := make([]string, 0, len(views))
	state := make(map[string]int, len(views))

	var visit func(name string)
	visit = func(name string) {
		if state[name] != 0 {
			return
		}
		state[name] = visiting

		if src := views[name].Source; src != name {
			if _, ok := views[src]; ok {
				visit(src)
			}
		}

		state[name] = done
		order = append(order, name)
	}

	for _, name := range compare.SortedKeys(views) {
		visit(name)
	}
	return order
}

// dropOrder returns the removed views with dependents ahead of the views
// they read from.
func dropOrder(views map[string]*model.MaterializedView, removed []string) []string {
	gone := make(map[string]bool, len(removed))
	for _, name := range removed {
		gone[name] = true
	}

	order := dependencyOrder(views)
	out := make([]string, 0, len(removed))
	for i := len(order) - 1; i >= 0; i-- {
		if gone[order[i]] {
			out = append(out, order[i])
		}
	}
	return out
}

// planView plans a materialized view. Views with backfill are created
// asynchronously. Backfill, effective date and extent creation time only
// apply at creation and are not compared. A view cannot be moved to another
// source, so such a change is invalid.
func planView(name string, old, new *model.MaterializedView) *Change {
	var scripts []Script
	var unsafe bool
	var oldPolicies *model.Policies

	if old == nil {
		text := createMaterializedView(name, new)
		if new.Backfill {
			scripts = append(scripts, asyncScript(CategoryMaterializedView, OrderMaterializedView, text))
		} else {
			scripts = append(scripts, newScript(CategoryMaterializedView, OrderMaterializedView, text))
		}
	} else {
		oldPolicies = old.Policies
		unsafe = !strings.EqualFold(old.Source, new.Source) || old.SourceKind() != new.SourceKind()

		if unsafe || old.Query != new.Query || old.Lookback != new.Lookback ||
			!compare.Slices(old.DimensionTables, new.DimensionTables, func(a, b string) bool { return a == b }) {
			scripts = append(scripts, newScript(CategoryMaterializedView, OrderMaterializedView, alterMaterializedView(name, new)))
		}

		if old.Folder != new.Folder {
			scripts = append(scripts, newScript(CategoryMaterializedView, OrderMaterializedView,
				alterMaterializedViewProperty(name, "folder", utils.QuoteString(new.Folder))))
		}
		if old.DocString != new.DocString {
			scripts = append(scripts, newScript(CategoryMaterializedView, OrderMaterializedView,
				alterMaterializedViewProperty(name, "docstring", utils.QuoteString(new.DocString))))
		}
		if old.AutoUpdateSchema != new.AutoUpdateSchema {
			scripts = append(scripts, newScript(CategoryMaterializedView, OrderMaterializedView,
				alterMaterializedViewProperty(name, "autoUpdateSchema", strconv.FormatBool(new.AutoUpdateSchema))))
		}
	}

	scripts = append(scripts, viewPolicies(name, oldPolicies, new.Policies)...)

	fields := compare.Pairs(old, new, viewFields)
	fields = append(fields, compare.Pairs(oldPolicies, new.Policies, viewPolicyFields)...)
	return build(EntityMaterializedView, name, operation(old != nil), fields, scripts, unsafe)
}
