// Package schema plans the changes that reconcile a live Kusto database with
// its desired state.
//
// Plan compares an observed and a desired database document and returns an
// ordered list of Changes. Each Change names one entity, the operation
// (Create, Alter or Delete) and the Scripts that perform it. Every Script
// carries an explicit execution Order, a synchronous/asynchronous flag and a
// validity flag; scripts for changes that would destroy data or cannot be
// expressed safely are kept for review but marked invalid so they are never
// applied.
//
// Changes are produced in a fixed kind priority:
//
//  1. principal role assignments
//  2. database default policies
//  3. deletions of entities missing from the desired state
//  4. entity groups, tables, external tables, functions, materialized views
//     and continuous exports
//
// Names are processed in sorted order, so the same inputs always yield the
// same plan.
//
// Example:
//
//	changes := schema.Plan(observed, desired, "telemetry")
//	for _, c := range changes {
//		fmt.Println(c.Diff)
//	}
//	if !schema.IsValid(changes) {
//		os.Exit(1)
//	}
package schema
