package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

type (
	// Journal stores apply results.
	Journal interface {
		Record(ctx context.Context, entries []Entry) error
		Close() error
	}

	// Entry is one applied script.
	Entry struct {
		RunID       uuid.UUID
		Target      string
		Database    string
		AppliedAt   time.Time
		OperationID string
		CommandType string
		State       string
		Reason      string
		CommandText string
	}

	// Nop discards every entry.
	Nop struct{}
)

// Entries converts the results of one target into journal entries.
//
// Example:
//
//	runID := uuid.New()
//	results, err := exec.Execute(ctx, changes, "telemetry")
//	_ = j.Record(ctx, journal.Entries(runID, "prod", "telemetry", time.Now(), results))
func Entries(runID uuid.UUID, target, database string, at time.Time, results []*model.ExecutionResult) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, Entry{
			RunID:       runID,
			Target:      target,
			Database:    database,
			AppliedAt:   at,
			OperationID: r.OperationID,
			CommandType: r.CommandType,
			State:       string(r.Result),
			Reason:      r.Reason,
			CommandText: r.CommandText,
		})
	}
	return entries
}

// Record implements Journal.
func (Nop) Record(context.Context, []Entry) error { return nil }

// Close implements Journal.
func (Nop) Close() error { return nil }
