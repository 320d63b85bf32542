package kusto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Result is a tabular command result. Every value is held in its
	// textual form; dynamic columns hold JSON.
	Result struct {
		Columns []string
		Values  [][]string
	}

	// Row is a single row of a Result.
	Row struct {
		result *Result
		index  int
	}
)

// NewResult returns an empty result with the given columns.
//
// Example:
//
//	res := kusto.NewResult("Name", "Body").
//		Add("Recent", "{ Events | take 10 }").
//		Add("Daily", "{ Events | summarize count() }")
func NewResult(columns ...string) *Result {
	return &Result{Columns: columns}
}

// Add appends a row. Missing trailing values are empty.
func (r *Result) Add(values ...string) *Result {
	row := make([]string, len(r.Columns))
	copy(row, values)
	r.Values = append(r.Values, row)
	return r
}

// Len returns the number of rows. A nil result has no rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

// Column returns the index of the named column, matched case-insensitively,
// or -1.
func (r *Result) Column(name string) int {
	if r == nil {
		return -1
	}
	for i, c := range r.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Row returns the i-th row.
func (r *Result) Row(i int) Row {
	return Row{result: r, index: i}
}

// Scalar returns the first value of the first row, or "" for an empty
// result.
func (r *Result) Scalar() string {
	if r.Len() == 0 || len(r.Values[0]) == 0 {
		return ""
	}
	return r.Values[0][0]
}

// Each calls fn for every row in order, stopping at the first error.
func (r *Result) Each(fn func(Row) error) error {
	for i := 0; i < r.Len(); i++ {
		if err := fn(r.Row(i)); err != nil {
			return err
		}
	}
	return nil
}

// String returns the named value, or "" when the column does not exist.
func (r Row) String(column string) string {
	i := r.result.Column(column)
	if i < 0 || i >= len(r.result.Values[r.index]) {
		return ""
	}
	return r.result.Values[r.index][i]
}

// Bool parses the named value as a boolean. Unparseable values are false.
func (r Row) Bool(column string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(r.String(column)))
	return v
}

// Int parses the named value as an integer. Unparseable values are zero.
func (r Row) Int(column string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(r.String(column)), 10, 64)
	return v
}

// JSON decodes the named dynamic value into v. It returns false without
// touching v when the value is empty or null.
func (r Row) JSON(column string, v any) (bool, error) {
	raw := strings.TrimSpace(r.String(column))
	if raw == "" || raw == "null" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s", column)
	}
	return true, nil
}
