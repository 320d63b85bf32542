package utils

import (
	"regexp"
	"strings"
)

var (
	plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// reserved holds the words that must be bracketed when used as entity
	// names in control commands.
	reserved = map[string]bool{
		"and": true, "as": true, "by": true, "database": true, "datetime": true,
		"dynamic": true, "extend": true, "false": true, "function": true,
		"in": true, "let": true, "not": true, "on": true, "or": true,
		"project": true, "range": true, "string": true, "table": true,
		"timespan": true, "true": true, "where": true, "with": true,
	}
)

// QuoteIdentifier brackets an entity name when it cannot be used bare in a
// Kusto command.
//
// Examples:
//   - "Events" -> "Events"
//   - "my-table" -> "['my-table']"
//   - "table" -> "['table']"
//   - "['x']" -> "['x']" (already quoted)
func QuoteIdentifier(name string) string {
	if name == "" || IsBracketed(name) {
		return name
	}

	if plainIdentifier.MatchString(name) && !reserved[strings.ToLower(name)] {
		return name
	}

	return "['" + strings.ReplaceAll(name, "'", `\'`) + "']"
}

// IsBracketed reports whether name is already wrapped in ['...'].
func IsBracketed(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "['") && strings.HasSuffix(name, "']")
}

// StripBrackets removes ['...'] quoting if present.
//
// Examples:
//   - "['my-table']" -> "my-table"
//   - "Events" -> "Events"
func StripBrackets(name string) string {
	if !IsBracketed(name) {
		return name
	}
	return strings.ReplaceAll(name[2:len(name)-2], `\'`, "'")
}

// QuoteString renders s as a double quoted Kusto string literal.
//
// Example:
//
//	utils.QuoteString(`say "hi"`) // "say \"hi\""
func QuoteString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// VerbatimString renders s as a verbatim @'...' literal. Single quotes are
// doubled, everything else is kept as is which makes it suitable for JSON
// payloads and multi-line queries.
func VerbatimString(s string) string {
	return "@'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// HiddenString renders s as an obfuscated h@'...' literal so secrets do not
// end up in the cluster's command log.
func HiddenString(s string) string {
	return "h" + VerbatimString(s)
}
