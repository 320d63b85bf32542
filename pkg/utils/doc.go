// Package utils provides common utility functions used throughout the
// kustokeeper codebase.
//
// # Identifier Utilities (identifier.go)
//
// Kusto entity names may be used bare when they are plain identifiers.
// Anything else (dashes, spaces, reserved words) must be bracketed:
//
//	utils.QuoteIdentifier("Events")   // Events
//	utils.QuoteIdentifier("my-table") // ['my-table']
//
// String literals come in three flavours: regular ("..."), verbatim (@'...')
// for JSON payloads and queries, and hidden (h@'...') for secrets such as
// storage connection strings.
//
// # Command Builder (command.go)
//
// CommandBuilder assembles control commands in a fluent style so that every
// planner produces consistently formatted text:
//
//	utils.NewCommand(".alter", "table").
//		Name("Events").
//		Policy("caching").
//		Raw("hot = 7d").
//		String()
//	// .alter table Events policy caching hot = 7d
package utils
