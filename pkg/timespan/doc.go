// Package timespan parses and canonicalises Kusto timespan literals.
//
// Retention and caching policies are declared by humans using short forms
// such as "30d" while the live cluster reports them as "30.00:00:00". The
// package converts both forms to a time.Duration so they can be compared,
// and renders a canonical short form for documents and commands.
//
// Supported forms:
//
//	30d, 12h, 1.5h, 90m, 10s, 100ms, 2 days
//	1.02:03:04, 00:30:00, 00:00:01.5
//	time(7d), timespan(1h)
//
// Example:
//
//	timespan.Canonical("30.00:00:00") // "30d"
//	timespan.Equal("1d", "24h")       // true
package timespan
