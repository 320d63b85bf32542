package kusto

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound marks a missing entity or policy. Executors may return it (or
// wrap it) directly; errors reported by the cluster are recognised by their
// message.
var ErrNotFound = errors.New("not found")

var notFoundMarkers = []string{
	"not found",
	"notfound",
	"does not exist",
	"doesn't exist",
	"no policy",
}

// IsNotFound reports whether err means the requested entity or policy is not
// configured.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// optional turns a not-found error into an empty result.
func optional(res *Result, err error) (*Result, error) {
	if IsNotFound(err) {
		return &Result{}, nil
	}
	return res, err
}
