// Package compare provides generic helpers for structural comparison.
//
// Besides the nil-safe pointer and slice helpers used by Equal methods, the
// package implements comparison tables: an explicit, per entity list of
// fields and renderers. Tables are how the planner decides which fields
// changed (and therefore which partial alter commands are needed) without
// resorting to runtime reflection.
//
// # Usage Examples
//
// Comparing two functions field by field:
//
//	table := []compare.Field[model.Function]{
//		{Name: "folder", Value: func(f *model.Function) string { return f.Folder }},
//		{Name: "body", Value: func(f *model.Function) string { return f.Body }},
//	}
//
//	for _, d := range compare.Fields(observed, desired, table) {
//		fmt.Printf("%s: %q -> %q\n", d.Name, d.Old, d.New)
//	}
//
// Splitting two collections into removed, common and added names:
//
//	removed, common, added := compare.Partition(observed.Tables, desired.Tables)
package compare
