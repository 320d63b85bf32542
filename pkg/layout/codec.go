package layout

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIndent is the YAML indentation used by DefaultCodec.
	DefaultIndent = 2

	// DefaultMinOverlaySize is the serialized size, in bytes, from which an
	// entity is written to its own overlay file.
	DefaultMinOverlaySize = 1024
)

// Codec is the immutable serializer configuration used to read and write
// documents.
type Codec struct {
	// Indent is the number of spaces used for YAML indentation.
	Indent int

	// MinOverlaySize is the serialized size, in bytes, from which Image
	// moves an entity into an overlay file. Zero writes every entity to an
	// overlay file.
	MinOverlaySize int
}

// DefaultCodec returns the codec used when no explicit configuration exists.
func DefaultCodec() Codec {
	return Codec{Indent: DefaultIndent, MinOverlaySize: DefaultMinOverlaySize}
}

// Marshal serializes v as YAML.
func (c Codec) Marshal(v any) ([]byte, error) {
	indent := c.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode yaml")
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes YAML into v, rejecting unknown fields. An empty document
// leaves v untouched.
func (c Codec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
