// Package executor applies planned changes to a Kusto database.
//
// Valid scripts are applied in order. Consecutive synchronous scripts are
// combined into a single `.execute database script` submission with
// ContinueOnErrors enabled, which reports one row per contained command.
// Asynchronous scripts are never batched: the pending batch is flushed, the
// script is submitted on its own and its operation is polled at a fixed
// interval until it reaches a terminal state.
//
// # Failure Handling
//
// A command rejected by the cluster does not stop the run. Every failed
// result is collected and returned together once all scripts have been
// submitted, so callers see every failure rather than only the first. A
// run that returns an error may have been partially applied; re-running a
// diff shows what remains.
//
// Transport errors and poll timeouts abort the run immediately. The error
// returned then also lists the failures reported before the abort.
//
// # Usage Example
//
//	exec := executor.New(executor.Config{
//		Client: client,
//		Logger: logger,
//	})
//
//	results, err := exec.Execute(ctx, changes, "telemetry")
//	for _, r := range results {
//		fmt.Printf("%s %s\n", r.Result, r.CommandText)
//	}
//	if err != nil {
//		return err
//	}
package executor
