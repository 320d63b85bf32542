package schema

import (
	"strconv"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

var continuousExportFields = []compare.Field[model.ContinuousExport]{
	{Name: "externalTable", Value: func(ce *model.ContinuousExport) string { return ce.ExternalTable }},
	{Name: "tables", Value: func(ce *model.ContinuousExport) string { return strings.Join(ce.Tables, ", ") }},
	{Name: "intervalBetweenRuns", Value: func(ce *model.ContinuousExport) string { return ce.IntervalBetweenRuns }},
	{Name: "forcedLatency", Value: func(ce *model.ContinuousExport) string { return ce.ForcedLatency }},
	{Name: "sizeLimit", Value: func(ce *model.ContinuousExport) string {
		if ce.SizeLimit == 0 {
			return ""
		}
		return strconv.FormatInt(ce.SizeLimit, 10)
	}},
	{Name: "distributed", Value: func(ce *model.ContinuousExport) string { return flag(ce.Distributed) }},
	{Name: "managedIdentity", Value: func(ce *model.ContinuousExport) string { return ce.ManagedIdentity }},
	{Name: "query", Value: func(ce *model.ContinuousExport) string { return ce.Query + "\n" }},
}

func (p *planner) continuousExports() []*Change {
	var changes []*Change
	for _, name := range compare.SortedKeys(p.desired.ContinuousExports) {
		old, new := p.observed.ContinuousExports[name], p.desired.ContinuousExports[name]
		if old != nil && len(compare.Fields(old, new, continuousExportFields)) == 0 {
			continue
		}
		fields := compare.Pairs(old, new, continuousExportFields)

		scripts := []Script{
			newScript(CategoryContinuousExport, OrderContinuousExport, createOrAlterContinuousExport(name, new)),
		}
		changes = appendChange(changes, build(EntityContinuousExport, name, operation(old != nil), fields, scripts, false))
	}
	return changes
}
