package schema

import (
	"strconv"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

var functionFields = []compare.Field[model.Function]{
	{Name: "folder", Value: func(f *model.Function) string { return f.Folder }},
	{Name: "docString", Value: func(f *model.Function) string { return f.DocString }},
	{Name: "parameters", Value: func(f *model.Function) string { return f.Parameters }},
	{Name: "skipValidation", Value: func(f *model.Function) string { return flag(f.SkipValidation) }},
	{Name: "view", Value: func(f *model.Function) string { return flag(f.View) }},
	{Name: "body", Value: func(f *model.Function) string { return f.Body + "\n" }},
}

// functions re-asserts every function whose definition differs with a single
// create-or-alter script.
func (p *planner) functions() []*Change {
	var changes []*Change
	for _, name := range compare.SortedKeys(p.desired.Functions) {
		old, new := p.observed.Functions[name], p.desired.Functions[name]
		if old != nil && old.Equal(new) {
			continue
		}

		scripts := []Script{newScript(CategoryFunction, OrderFunction, createOrAlterFunction(name, new))}
		fields := compare.Pairs(old, new, functionFields)
		changes = appendChange(changes, build(EntityFunction, name, operation(old != nil), fields, scripts, false))
	}
	return changes
}

func flag(v bool) string {
	if !v {
		return ""
	}
	return strconv.FormatBool(v)
}
