package compare_test

import (
	"testing"

	. "github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string
	Color string
	Size  string
}

var widgetTable = []Field[widget]{
	{Name: "name", Value: func(w *widget) string { return w.Name }},
	{Name: "color", Value: func(w *widget) string { return w.Color }},
	{Name: "size", Value: func(w *widget) string { return w.Size }},
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		old, new *widget
		expected []Difference
	}{
		{
			name:     "identical",
			old:      &widget{Name: "a", Color: "red"},
			new:      &widget{Name: "a", Color: "red"},
			expected: nil,
		},
		{
			name: "one field changed",
			old:  &widget{Name: "a", Color: "red"},
			new:  &widget{Name: "a", Color: "blue"},
			expected: []Difference{
				{Name: "color", Old: "red", New: "blue"},
			},
		},
		{
			name: "field removed",
			old:  &widget{Name: "a", Size: "xl"},
			new:  &widget{Name: "a"},
			expected: []Difference{
				{Name: "size", Old: "xl", New: ""},
			},
		},
		{
			name: "nil old renders absent",
			old:  nil,
			new:  &widget{Name: "a", Size: "s"},
			expected: []Difference{
				{Name: "name", Old: "", New: "a"},
				{Name: "size", Old: "", New: "s"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Fields(tt.old, tt.new, widgetTable))
		})
	}
}

func TestPairs(t *testing.T) {
	pairs := Pairs(&widget{Name: "a", Color: "red"}, &widget{Name: "a", Color: "blue", Size: "L"}, widgetTable)
	require.Equal(t, []Difference{
		{Name: "name", Old: "a", New: "a"},
		{Name: "color", Old: "red", New: "blue"},
		{Name: "size", Old: "", New: "L"},
	}, pairs)

	require.False(t, pairs[0].Changed())
	require.True(t, pairs[1].Changed())
}

func TestNilCheck(t *testing.T) {
	five := 5

	eq, more := NilCheck[int](nil, nil)
	require.True(t, eq)
	require.False(t, more)

	eq, more = NilCheck(nil, &five)
	require.False(t, eq)
	require.False(t, more)

	eq, more = NilCheck(&five, &five)
	require.False(t, eq)
	require.True(t, more)
}

func TestPointers(t *testing.T) {
	a, b, c := "x", "x", "y"

	require.True(t, Pointers[string](nil, nil))
	require.True(t, Pointers(&a, &b))
	require.False(t, Pointers(&a, &c))
	require.False(t, Pointers(&a, nil))
}

func TestSlices(t *testing.T) {
	eq := func(a, b int) bool { return a == b }

	require.True(t, Slices([]int{1, 2}, []int{1, 2}, eq))
	require.False(t, Slices([]int{1, 2}, []int{2, 1}, eq))
	require.True(t, Slices(nil, []int{}, eq))
}

func TestPartition(t *testing.T) {
	observed := map[string]int{"b": 1, "a": 1, "c": 1}
	desired := map[string]bool{"c": true, "d": true, "a": true}

	removed, common, added := Partition(observed, desired)
	require.Equal(t, []string{"b"}, removed)
	require.Equal(t, []string{"a", "c"}, common)
	require.Equal(t, []string{"d"}, added)
}

func TestSortedKeys(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	require.Empty(t, SortedKeys(map[string]int{}))
}
