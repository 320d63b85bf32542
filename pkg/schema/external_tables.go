package schema

import (
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

var externalTableFields = []compare.Field[model.ExternalTable]{
	{Name: "kind", Value: func(et *model.ExternalTable) string { return et.ExternalKind() }},
	{Name: "folder", Value: func(et *model.ExternalTable) string { return et.Folder }},
	{Name: "docString", Value: func(et *model.ExternalTable) string { return et.DocString }},
	{Name: "schema", Value: func(et *model.ExternalTable) string { return et.Schema.Schema() }},
	{Name: "dataFormat", Value: func(et *model.ExternalTable) string { return et.DataFormat }},
	{Name: "pathFormat", Value: func(et *model.ExternalTable) string { return et.PathFormat }},
	{Name: "partitions", Value: func(et *model.ExternalTable) string { return strings.Join(et.Partitions, ", ") }},
	{Name: "connectionStrings", Value: func(et *model.ExternalTable) string { return maskedConnections(et.ConnectionStrings) }},
	{Name: "compressed", Value: func(et *model.ExternalTable) string { return flag(et.Compressed) }},
	{Name: "fileExtension", Value: func(et *model.ExternalTable) string { return et.FileExtension }},
	{Name: "namePrefix", Value: func(et *model.ExternalTable) string { return et.NamePrefix }},
	{Name: "sqlTable", Value: func(et *model.ExternalTable) string { return et.SQLTable }},
	{Name: "sqlDialect", Value: func(et *model.ExternalTable) string { return et.SQLDialect }},
	{Name: "createIfNotExists", Value: func(et *model.ExternalTable) string { return flag(et.CreateIfNotExists) }},
	{Name: "fireTriggers", Value: func(et *model.ExternalTable) string { return flag(et.FireTriggers) }},
}

func (p *planner) externalTables() []*Change {
	var changes []*Change
	for _, name := range compare.SortedKeys(p.desired.ExternalTables) {
		old, new := reportedFields(p.observed.ExternalTables[name], p.desired.ExternalTables[name]), p.desired.ExternalTables[name]
		if old != nil && len(compare.Fields(old, new, externalTableFields)) == 0 {
			continue
		}
		fields := compare.Pairs(old, new, externalTableFields)

		scripts := []Script{newScript(CategoryExternalTable, OrderExternalTable, createOrAlterExternalTable(name, new))}
		changes = appendChange(changes, build(EntityExternalTable, name, operation(old != nil), fields, scripts, false))
	}
	return changes
}

// reportedFields adjusts the observed table for the fields the cluster does not
// always report. Partitions and the path format are only compared when the
// cluster returned them.
func reportedFields(observed, desired *model.ExternalTable) *model.ExternalTable {
	if observed == nil {
		return nil
	}

	out := observed.Clone()
	if len(out.Partitions) == 0 {
		out.Partitions = desired.Partitions
	}
	if out.PathFormat == "" {
		out.PathFormat = desired.PathFormat
	}
	return out
}

// maskedConnections renders connection strings without their secrets. The
// cluster redacts keys and tokens, so only the resource part is comparable.
func maskedConnections(conns []string) string {
	masked := make([]string, len(conns))
	for i, c := range conns {
		if cut := strings.IndexAny(c, ";?"); cut >= 0 {
			c = c[:cut] + ";*****"
		}
		masked[i] = strings.TrimSuffix(c, "/")
	}
	return strings.Join(masked, ", ")
}
