package model

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
	"gopkg.in/yaml.v3"
)

type (
	// Column is a single name/type pair.
	Column struct {
		Name string
		Type string
	}

	// Columns is an ordered name→type mapping. It is serialized as a YAML
	// mapping so declaration order survives a round trip.
	Columns struct {
		items []Column
		index map[string]int
	}
)

// NewColumns builds Columns from alternating name, type arguments.
//
// Example:
//
//	cols := model.NewColumns("Timestamp", "datetime", "Name", "string")
func NewColumns(pairs ...string) *Columns {
	c := &Columns{}
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Set(pairs[i], pairs[i+1])
	}
	return c
}

// Set adds a column or replaces the type of an existing one, keeping its
// original position.
func (c *Columns) Set(name, typ string) {
	if c.index == nil {
		c.index = make(map[string]int)
	}

	if i, ok := c.index[name]; ok {
		c.items[i].Type = typ
		return
	}

	c.index[name] = len(c.items)
	c.items = append(c.items, Column{Name: name, Type: typ})
}

// Get returns the type of the named column.
func (c *Columns) Get(name string) (string, bool) {
	if c == nil {
		return "", false
	}

	i, ok := c.index[name]
	if !ok {
		return "", false
	}
	return c.items[i].Type, true
}

// All returns the columns in declaration order.
func (c *Columns) All() []Column {
	if c == nil {
		return nil
	}

	out := make([]Column, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Clone returns a deep copy.
func (c *Columns) Clone() *Columns {
	if c == nil {
		return nil
	}

	out := &Columns{}
	for _, col := range c.items {
		out.Set(col.Name, col.Type)
	}
	return out
}

// Equal compares names, types and order. Types are compared case-insensitively
// since Kusto reports scalar types in lower case.
func (c *Columns) Equal(other *Columns) bool {
	if c.Len() != other.Len() {
		return false
	}

	for i, col := range c.All() {
		o := other.items[i]
		if col.Name != o.Name || !strings.EqualFold(col.Type, o.Type) {
			return false
		}
	}
	return true
}

// Schema renders the columns as a Kusto schema list: `Name:type, ...`.
func (c *Columns) Schema() string {
	parts := make([]string, 0, c.Len())
	for _, col := range c.All() {
		parts = append(parts, utils.QuoteIdentifier(col.Name)+":"+col.Type)
	}
	return strings.Join(parts, ", ")
}

// MarshalYAML implements yaml.Marshaler.
func (c *Columns) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range c.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: col.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: col.Type},
		)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: columns must be a mapping of name to type", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: column %q must have a scalar type", v.Line, k.Value)
		}
		c.Set(k.Value, v.Value)
	}
	return nil
}
