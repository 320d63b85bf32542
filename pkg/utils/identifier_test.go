package utils_test

import (
	"testing"

	"github.com/pseudomuto/kustokeeper/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Events", expected: "Events"},
		{name: "underscore", input: "_raw_events2", expected: "_raw_events2"},
		{name: "dash", input: "my-table", expected: "['my-table']"},
		{name: "space", input: "my table", expected: "['my table']"},
		{name: "reserved", input: "table", expected: "['table']"},
		{name: "reserved any case", input: "Where", expected: "['Where']"},
		{name: "quote", input: "it's", expected: `['it\'s']`},
		{name: "already bracketed", input: "['x-y']", expected: "['x-y']"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.QuoteIdentifier(tt.input))
		})
	}
}

func TestStripBrackets(t *testing.T) {
	require.Equal(t, "my-table", utils.StripBrackets("['my-table']"))
	require.Equal(t, "it's", utils.StripBrackets(`['it\'s']`))
	require.Equal(t, "Events", utils.StripBrackets("Events"))
}

func TestStringLiterals(t *testing.T) {
	require.Equal(t, `"say \"hi\"\n"`, utils.QuoteString("say \"hi\"\n"))
	require.Equal(t, `@'{"a":''}'`, utils.VerbatimString(`{"a":'}`))
	require.Equal(t, `h@'secret'`, utils.HiddenString("secret"))
}

func TestPtrHelpers(t *testing.T) {
	require.Equal(t, 5, *utils.Ptr(5))
	require.Equal(t, "", utils.Deref[string](nil))
	require.Equal(t, "x", utils.Deref(utils.Ptr("x")))
	require.Nil(t, utils.NonEmpty(""))
	require.Equal(t, "7d", *utils.NonEmpty("7d"))
}
