package utils_test

import (
	"testing"

	"github.com/pseudomuto/kustokeeper/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestCommandBuilder(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() *utils.CommandBuilder
		expected string
	}{
		{
			name: "drop with ifexists",
			builder: func() *utils.CommandBuilder {
				return utils.NewCommand(".drop", "function").Name("Square").IfExists()
			},
			expected: ".drop function Square ifexists",
		},
		{
			name: "policy command",
			builder: func() *utils.CommandBuilder {
				return utils.NewCommand(".alter", "table").Name("my-events").Policy("caching").Raw("hot = 7d")
			},
			expected: ".alter table ['my-events'] policy caching hot = 7d",
		},
		{
			name: "properties skip empty values",
			builder: func() *utils.CommandBuilder {
				props := utils.NewProperties().
					String("folder", "raw").
					String("docstring", "").
					Bool("skipvalidation", true).
					Bool("view", false).
					Raw("lookback", "6h")
				return utils.NewCommand(".create-or-alter", "function").With(props).Call("F", "x:long").Body(" x + 1 ")
			},
			expected: ".create-or-alter function with (folder=\"raw\", skipvalidation=true, lookback=6h) F(x:long) {\nx + 1\n}",
		},
		{
			name: "empty properties add nothing",
			builder: func() *utils.CommandBuilder {
				return utils.NewCommand(".create", "table").Name("T").With(utils.NewProperties()).Raw("(a:string)")
			},
			expected: ".create table T (a:string)",
		},
		{
			name: "async and pipe",
			builder: func() *utils.CommandBuilder {
				return utils.NewCommand(".set", "").Async().Name("T").Pipe("  Source | take 1  ")
			},
			expected: ".set async T <|\nSource | take 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.builder().String())
		})
	}
}
