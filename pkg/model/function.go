package model

import "strings"

// Function is a stored function.
type Function struct {
	Folder         string `yaml:"folder,omitempty"`
	DocString      string `yaml:"docString,omitempty"`
	Parameters     string `yaml:"parameters,omitempty"`
	Body           string `yaml:"body"`
	SkipValidation bool   `yaml:"skipValidation,omitempty"`
	View           bool   `yaml:"view,omitempty"`
}

// Clone returns a copy of f.
func (f *Function) Clone() *Function {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}

// Equal compares the stored definition. Bodies are compared ignoring leading
// and trailing whitespace. SkipValidation and View are creation options the
// cluster does not report back, so they never cause a difference.
func (f *Function) Equal(other *Function) bool {
	return f.Folder == other.Folder &&
		f.DocString == other.DocString &&
		f.Parameters == other.Parameters &&
		strings.TrimSpace(f.Body) == strings.TrimSpace(other.Body)
}
