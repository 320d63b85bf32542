package compare

import (
	"cmp"
	"slices"
)

type (
	// Field is one row of an explicit comparison table. Value renders the
	// field of an entity as text; an empty string means the field is absent.
	//
	// Comparison tables replace reflection: every entity kind lists the
	// fields it manages once and both the planner and the renderer walk the
	// same table.
	Field[T any] struct {
		Name  string
		Value func(*T) string
	}

	// Difference is a field whose rendered value differs between two
	// entities.
	Difference struct {
		Name string
		Old  string
		New  string
	}
)

// Fields walks the comparison table and returns the fields whose values
// differ, in table order. A nil entity renders every field as absent.
//
// Example:
//
//	table := []compare.Field[Function]{
//		{Name: "folder", Value: func(f *Function) string { return f.Folder }},
//		{Name: "body", Value: func(f *Function) string { return f.Body }},
//	}
//	diffs := compare.Fields(oldFn, newFn, table)
func Fields[T any](old, new *T, table []Field[T]) []Difference {
	var diffs []Difference
	for _, f := range table {
		o, n := render(old, f), render(new, f)
		if o != n {
			diffs = append(diffs, Difference{Name: f.Name, Old: o, New: n})
		}
	}
	return diffs
}

// Pairs renders every field of the table for both entities, in table order,
// whether or not the values differ. Renderers use it to show unchanged
// fields next to changed ones.
func Pairs[T any](old, new *T, table []Field[T]) []Difference {
	out := make([]Difference, 0, len(table))
	for _, f := range table {
		out = append(out, Difference{Name: f.Name, Old: render(old, f), New: render(new, f)})
	}
	return out
}

// Changed reports whether the pair holds different values.
func (d Difference) Changed() bool {
	return d.Old != d.New
}

func render[T any](v *T, f Field[T]) string {
	if v == nil {
		return ""
	}
	return f.Value(v)
}

// NilCheck performs a nil check on two pointers and returns whether they are equal
// and whether more comparison checks are needed.
//
// Returns (equal, needsMoreChecks) where:
//   - equal: true if both are nil, false if only one is nil
//   - needsMoreChecks: true if both pointers are non-nil and further comparison is needed
func NilCheck[T any](a, b *T) (equal bool, needsMoreChecks bool) {
	if a == nil && b == nil {
		return true, false
	}
	if a == nil || b == nil {
		return false, false
	}
	return false, true
}

// Pointers compares two pointer values for equality.
// Returns true if both are nil, or both are non-nil with equal values.
func Pointers[T comparable](a, b *T) bool {
	if (a != nil) != (b != nil) {
		return false
	}
	return a == nil || *a == *b
}

// Slices compares two slices element by element using equalFunc.
func Slices[T any](a, b []T, equalFunc func(T, T) bool) bool {
	return slices.EqualFunc(a, b, equalFunc)
}

// SortedKeys returns the keys of m in ascending order. Planners iterate
// entity collections through it so output is deterministic.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Partition splits the keys of two maps into those only in observed, those
// in both and those only in desired. Every list is sorted.
//
// Example:
//
//	removed, kept, added := compare.Partition(observed.Tables, desired.Tables)
func Partition[K cmp.Ordered, A, B any](observed map[K]A, desired map[K]B) (removed, common, added []K) {
	for _, k := range SortedKeys(observed) {
		if _, ok := desired[k]; ok {
			common = append(common, k)
		} else {
			removed = append(removed, k)
		}
	}
	for _, k := range SortedKeys(desired) {
		if _, ok := observed[k]; !ok {
			added = append(added, k)
		}
	}
	return removed, common, added
}
