package schema

import (
	"encoding/json"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/merge"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

type planner struct {
	database string
	observed *model.Database
	desired  *model.Database
}

// Plan computes the changes required to move the observed database to the
// desired one. Both documents are normalized first so representational
// differences (legacy policy fields, timespan spelling, defaults) never
// produce changes.
//
// Changes are returned in a fixed kind order: principals, database default
// policies, deletions, then creates and alters for entity groups, tables,
// external tables, functions, materialized views and continuous exports.
// Within a kind, entities are visited in name order so the result is
// deterministic. Planning never fails; a change that would lose data is
// returned with every script marked invalid.
//
// Example:
//
//	changes := schema.Plan(observed, desired, "telemetry")
//	if !schema.IsValid(changes) {
//		// refuse to apply
//	}
func Plan(observed, desired *model.Database, database string) []*Change {
	p := &planner{
		database: database,
		observed: merge.Normalize(observed),
	}
	p.desired = merge.Normalize(inheritDefaults(desired, p.observed.DefaultRetentionAndCache))

	steps := []func() []*Change{
		p.principals,
		p.databasePolicies,
		p.deletions,
		p.entityGroups,
		p.tables,
		p.externalTables,
		p.functions,
		p.materializedViews,
		p.continuousExports,
	}

	var changes []*Change
	for _, step := range steps {
		changes = append(changes, step()...)
	}
	return changes
}

// inheritDefaults fills the default retention and caching the desired
// document leaves unset with the live values, so table and view policies on
// both sides are stripped against the same defaults.
func inheritDefaults(desired *model.Database, live *model.RetentionAndCache) *model.Database {
	out := desired.Clone()
	if live == nil {
		return out
	}

	d := out.DefaultRetentionAndCache
	if d == nil {
		d = &model.RetentionAndCache{}
	}
	if strings.TrimSpace(d.Retention) == "" {
		d.Retention = live.Retention
	}
	if strings.TrimSpace(d.HotCache) == "" {
		d.HotCache = live.HotCache
	}

	out.DefaultRetentionAndCache = d
	return out
}

// build assembles a change and renders its Markdown section. It returns nil
// when there is nothing to do.
func build(entity EntityKind, name string, op Operation, fields []compare.Difference, scripts []Script, unsafe bool) *Change {
	if len(scripts) == 0 {
		return nil
	}

	c := &Change{Entity: entity, Name: name, Operation: op, Scripts: scripts}
	if unsafe {
		c.invalidate()
	}
	c.Diff = renderChange(c, fields)
	return c
}

func operation(exists bool) Operation {
	if exists {
		return OperationAlter
	}
	return OperationCreate
}

func appendChange(changes []*Change, c *Change) []*Change {
	if c == nil {
		return changes
	}
	return append(changes, c)
}

func (p *planner) deletions() []*Change {
	var changes []*Change

	drop := func(entity EntityKind, order int, names []string, text func(string) string) {
		for _, name := range names {
			script := newScript(CategoryDrop, order, text(name))
			changes = appendChange(changes, build(entity, name, OperationDelete, nil, []Script{script}, false))
		}
	}

	removed, _, _ := compare.Partition(p.observed.ContinuousExports, p.desired.ContinuousExports)
	drop(EntityContinuousExport, OrderDropContinuousExport, removed, dropContinuousExport)

	removed, _, _ = compare.Partition(p.observed.MaterializedViews, p.desired.MaterializedViews)
	drop(EntityMaterializedView, OrderDropMaterializedView, dropOrder(p.observed.MaterializedViews, removed), dropMaterializedView)

	removed, _, _ = compare.Partition(p.observed.Functions, p.desired.Functions)
	drop(EntityFunction, OrderDropFunction, removed, dropFunction)

	removed, _, _ = compare.Partition(p.observed.ExternalTables, p.desired.ExternalTables)
	drop(EntityExternalTable, OrderDropExternalTable, removed, dropExternalTable)

	removed, _, _ = compare.Partition(p.observed.Tables, p.desired.Tables)
	drop(EntityTable, OrderDropTable, removed, dropTable)

	removed, _, _ = compare.Partition(p.observed.EntityGroups, p.desired.EntityGroups)
	drop(EntityEntityGroup, OrderDropEntityGroup, removed, dropEntityGroup)

	return changes
}

// indentJSON renders v for display. Empty values render as "".
func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}

	switch s := string(data); s {
	case "null", "[]", "{}":
		return ""
	default:
		return s
	}
}
