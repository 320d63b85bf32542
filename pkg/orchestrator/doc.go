// Package orchestrator runs a diff or apply across every target of a
// cluster registry.
//
// The desired state of the database is loaded once from the schema
// directory. Targets are then processed one after the other: the observed
// state is loaded, a plan is computed and, in apply mode, executed. A
// failing target does not stop the run and nothing is rolled back; every
// target failure is reported together once all targets were processed.
//
// Follower targets (registry entries with a `follower` key) only get the
// cache overrides described by the matching follower document. Targets
// with a `capacityPolicy` additionally get a cluster-level plan.
//
// # Usage Example
//
//	o := orchestrator.New(orchestrator.Params{
//		Config:   cfg,
//		Registry: reg,
//		Factory:  orchestrator.DefaultFactory,
//		Logger:   logger,
//	})
//
//	res, err := o.Run(ctx, "telemetry", orchestrator.ModeDiff)
//	if err != nil {
//		return err
//	}
//	fmt.Print(res.Report)
//	if !res.Valid {
//		os.Exit(1)
//	}
package orchestrator
