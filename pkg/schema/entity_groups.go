package schema

import (
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

var entityGroupFields = []compare.Field[model.EntityGroup]{
	{Name: "entities", Value: func(eg *model.EntityGroup) string { return strings.Join(eg.Entities, ", ") }},
}

func (p *planner) entityGroups() []*Change {
	var changes []*Change
	for _, name := range compare.SortedKeys(p.desired.EntityGroups) {
		old, new := p.observed.EntityGroups[name], p.desired.EntityGroups[name]
		if old != nil && len(compare.Fields(old, new, entityGroupFields)) == 0 {
			continue
		}
		fields := compare.Pairs(old, new, entityGroupFields)

		scripts := []Script{newScript(CategoryEntityGroup, OrderEntityGroup, createOrAlterEntityGroup(name, new))}
		changes = appendChange(changes, build(EntityEntityGroup, name, operation(old != nil), fields, scripts, false))
	}
	return changes
}
