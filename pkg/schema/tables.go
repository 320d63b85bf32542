package schema

import (
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

var tableFields = []compare.Field[model.Table]{
	{Name: "folder", Value: func(t *model.Table) string { return t.Folder }},
	{Name: "docString", Value: func(t *model.Table) string { return t.DocString }},
}

func (p *planner) tables() []*Change {
	var changes []*Change
	for _, name := range compare.SortedKeys(p.desired.Tables) {
		changes = appendChange(changes, planTable(name, p.observed.Tables[name], p.desired.Tables[name]))
	}
	return changes
}

// planTable plans a table and its policies. Columns can be added and
// reordered in place; removing a column or changing its type drops data and
// makes the change invalid.
func planTable(name string, old, new *model.Table) *Change {
	var scripts []Script
	var unsafe bool

	if old == nil {
		scripts = append(scripts, newScript(CategoryTable, OrderTable, createMergeTable(name, new)))
		scripts = append(scripts, tablePolicies(name, nil, new.Policies)...)
	} else {
		cols := diffColumns(old.Columns, new.Columns)
		unsafe = cols.removed || cols.retyped

		switch {
		case unsafe, cols.reordered:
			scripts = append(scripts, newScript(CategoryTable, OrderTable, alterTable(name, new)))
		case cols.added || old.Folder != new.Folder || old.DocString != new.DocString:
			scripts = append(scripts, newScript(CategoryTable, OrderTable, createMergeTable(name, new)))
		}
		scripts = append(scripts, tablePolicies(name, old.Policies, new.Policies)...)
	}

	var oldPolicies *model.Policies
	var oldColumns *model.Columns
	if old != nil {
		oldPolicies, oldColumns = old.Policies, old.Columns
	}

	fields := compare.Pairs(old, new, tableFields)
	fields = append(fields, columnPairs(oldColumns, new.Columns)...)
	fields = append(fields, compare.Pairs(oldPolicies, new.Policies, policyFields)...)

	return build(EntityTable, name, operation(old != nil), fields, scripts, unsafe)
}

type columnDiff struct {
	added, removed, retyped, reordered bool
}

func diffColumns(old, new *model.Columns) columnDiff {
	var d columnDiff
	var common []string

	for _, col := range old.All() {
		typ, ok := new.Get(col.Name)
		switch {
		case !ok:
			d.removed = true
		case !strings.EqualFold(typ, col.Type):
			d.retyped = true
		default:
			common = append(common, col.Name)
		}
	}

	var desiredOrder []string
	for _, col := range new.All() {
		if _, ok := old.Get(col.Name); ok {
			desiredOrder = append(desiredOrder, col.Name)
		} else {
			d.added = true
		}
	}

	if !d.removed && !d.retyped {
		for i := range common {
			if common[i] != desiredOrder[i] {
				d.reordered = true
				break
			}
		}
	}

	return d
}

// columnPairs lists every column in desired order followed by the columns
// only observed has.
func columnPairs(old, new *model.Columns) []compare.Difference {
	var out []compare.Difference
	for _, col := range new.All() {
		typ, _ := old.Get(col.Name)
		if strings.EqualFold(typ, col.Type) {
			typ = col.Type
		}
		out = append(out, compare.Difference{Name: "column " + col.Name, Old: typ, New: col.Type})
	}
	for _, col := range old.All() {
		if _, ok := new.Get(col.Name); !ok {
			out = append(out, compare.Difference{Name: "column " + col.Name, Old: col.Type})
		}
	}
	return out
}
