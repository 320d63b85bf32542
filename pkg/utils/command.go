package utils

import (
	"strings"
)

type (
	// CommandBuilder provides a fluent interface for building Kusto control
	// commands. It mirrors the shape every management command shares:
	// verb, object kind, options, name, arguments, properties and a body.
	//
	// Example usage:
	//
	//	cmd := utils.NewCommand(".create-or-alter", "function").
	//		With(utils.NewProperties().String("folder", "lookups")).
	//		Name("Square").
	//		Raw("(x:long)").
	//		Body("x * x").
	//		String()
	//	// .create-or-alter function with (folder="lookups") Square(x:long) {
	//	// x * x
	//	// }
	CommandBuilder struct {
		parts []string
	}

	// Properties is an ordered list of `name=value` pairs rendered inside a
	// `with (...)` clause. Empty values are skipped so callers can add every
	// optional property unconditionally.
	Properties struct {
		pairs []string
	}
)

// NewCommand starts a command with the given verb (e.g. ".create") and
// object kind (e.g. "table"). Either may be empty.
func NewCommand(verb, kind string) *CommandBuilder {
	b := &CommandBuilder{parts: make([]string, 0, 10)}
	return b.Raw(verb).Raw(kind)
}

// Async marks the command as asynchronous. Kusto returns an operation id
// instead of a result set for async commands.
func (b *CommandBuilder) Async() *CommandBuilder {
	return b.Raw("async")
}

// IfNotExists adds the ifnotexists option.
func (b *CommandBuilder) IfNotExists() *CommandBuilder {
	return b.Raw("ifnotexists")
}

// IfExists adds the ifexists option.
func (b *CommandBuilder) IfExists() *CommandBuilder {
	return b.Raw("ifexists")
}

// Name adds an entity name, bracketing it when required.
func (b *CommandBuilder) Name(name string) *CommandBuilder {
	return b.Raw(QuoteIdentifier(name))
}

// Call adds `name(args)` with no space between name and arguments.
//
// Example:
//
//	builder.Call("Square", "x:long") // Square(x:long)
func (b *CommandBuilder) Call(name, args string) *CommandBuilder {
	return b.Raw(QuoteIdentifier(name) + "(" + args + ")")
}

// Policy adds `policy <kind>`.
func (b *CommandBuilder) Policy(kind string) *CommandBuilder {
	return b.Raw("policy").Raw(kind)
}

// With adds a `with (...)` clause when props is non-empty.
func (b *CommandBuilder) With(props *Properties) *CommandBuilder {
	if props == nil || len(props.pairs) == 0 {
		return b
	}
	return b.Raw("with (" + strings.Join(props.pairs, ", ") + ")")
}

// Body adds a `{ ... }` block on its own lines.
func (b *CommandBuilder) Body(body string) *CommandBuilder {
	return b.Raw("{\n" + strings.TrimSpace(body) + "\n}")
}

// Pipe adds `<|` followed by the query on the next line.
func (b *CommandBuilder) Pipe(query string) *CommandBuilder {
	return b.Raw("<|\n" + strings.TrimSpace(query))
}

// Raw adds raw command text. Use sparingly for constructs that don't fit
// the fluent pattern.
func (b *CommandBuilder) Raw(text string) *CommandBuilder {
	if text != "" {
		b.parts = append(b.parts, text)
	}
	return b
}

// String builds the final command text.
func (b *CommandBuilder) String() string {
	return strings.Join(b.parts, " ")
}

// NewProperties creates an empty property list.
func NewProperties() *Properties {
	return &Properties{}
}

// String adds a quoted string property when value is non-empty.
func (p *Properties) String(name, value string) *Properties {
	if value != "" {
		p.pairs = append(p.pairs, name+"="+QuoteString(value))
	}
	return p
}

// Bool adds a boolean property when value is true.
func (p *Properties) Bool(name string, value bool) *Properties {
	if value {
		p.pairs = append(p.pairs, name+"=true")
	}
	return p
}

// Raw adds an unquoted property (timespans, numbers) when value is non-empty.
func (p *Properties) Raw(name, value string) *Properties {
	if value != "" {
		p.pairs = append(p.pairs, name+"="+value)
	}
	return p
}
