// Package report renders change plans and apply results as Markdown.
//
// A report has one section per target. Each section lists the changes
// planned for that target using the per-change Markdown produced by the
// schema package, or a "No changes detected" line when the target is
// already converged.
//
//	var b report.Builder
//	b.Add(report.Markdown("prod", "telemetry", changes))
//	b.Add(report.Cluster("prod", capacity))
//	fmt.Print(b.String())
package report
