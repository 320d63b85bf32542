// Package kustotest provides an in-memory kusto.Executor for tests.
package kustotest

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/kusto"
)

// Call kinds recorded by Fake.
const (
	KindQuery = "query"
	KindMgmt  = "mgmt"
)

type (
	// Fake is a scriptable Executor. Responses are registered per command
	// prefix; the longest matching prefix wins and later registrations win
	// ties. Unmatched commands return an empty result unless Strict is set.
	Fake struct {
		Strict bool

		mu       sync.Mutex
		handlers []*Handler
		calls    []Call
	}

	// Call records one command sent to the fake.
	Call struct {
		Kind     string
		Database string
		Text     string
	}

	// Handler produces responses for commands starting with a prefix.
	Handler struct {
		prefix  string
		results []*kusto.Result
		err     error
		fn      func(text string) (*kusto.Result, error)
		hits    int
	}
)

// New returns an empty, lenient fake.
func New() *Fake {
	return &Fake{}
}

// On registers a handler for commands starting with prefix. Leading and
// trailing whitespace is ignored on both sides.
//
// Example:
//
//	fake := kustotest.New()
//	fake.On(".show functions").Return(kusto.NewResult("Name", "Body").Add("F", "{ print 1 }"))
//	fake.On(".show operations").Return(inProgress, completed)
func (f *Fake) On(prefix string) *Handler {
	f.mu.Lock()
	defer f.mu.Unlock()

	h := &Handler{prefix: strings.TrimSpace(prefix)}
	f.handlers = append(f.handlers, h)
	return h
}

// Return sets the results returned on successive calls. The last result is
// repeated once the list is exhausted.
func (h *Handler) Return(results ...*kusto.Result) *Handler {
	h.results = results
	return h
}

// Fail makes every matching call return err.
func (h *Handler) Fail(err error) *Handler {
	h.err = err
	return h
}

// Func computes the response from the full command text.
func (h *Handler) Func(fn func(text string) (*kusto.Result, error)) *Handler {
	h.fn = fn
	return h
}

// Hits returns how many calls the handler answered.
func (h *Handler) Hits() int { return h.hits }

func (h *Handler) respond(text string) (*kusto.Result, error) {
	defer func() { h.hits++ }()

	switch {
	case h.err != nil:
		return nil, h.err
	case h.fn != nil:
		return h.fn(text)
	case len(h.results) == 0:
		return &kusto.Result{}, nil
	case h.hits < len(h.results):
		return h.results[h.hits], nil
	default:
		return h.results[len(h.results)-1], nil
	}
}

// Query implements kusto.Executor.
func (f *Fake) Query(_ context.Context, database, text string) (*kusto.Result, error) {
	return f.dispatch(KindQuery, database, text)
}

// Mgmt implements kusto.Executor.
func (f *Fake) Mgmt(_ context.Context, database, text string) (*kusto.Result, error) {
	return f.dispatch(KindMgmt, database, text)
}

func (f *Fake) dispatch(kind, database, text string) (*kusto.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Kind: kind, Database: database, Text: text})

	trimmed := strings.TrimSpace(text)
	var match *Handler
	for _, h := range f.handlers {
		if strings.HasPrefix(trimmed, h.prefix) && (match == nil || len(h.prefix) >= len(match.prefix)) {
			match = h
		}
	}

	if match == nil {
		if f.Strict {
			return nil, errors.Errorf("unexpected %s command: %s", kind, trimmed)
		}
		return &kusto.Result{}, nil
	}

	return match.respond(text)
}

// Calls returns every recorded call in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Texts returns the text of every recorded call starting with prefix.
func (f *Fake) Texts(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.HasPrefix(strings.TrimSpace(c.Text), prefix) {
			out = append(out, c.Text)
		}
	}
	return out
}
