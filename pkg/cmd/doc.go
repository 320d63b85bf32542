// Package cmd provides CLI commands for the kustokeeper tool.
//
// Commands are plain functions returning a *cli.Command. Their
// dependencies (configuration, logger, metrics and the connection factory)
// are injected by fx and every command is registered through the
// "commands" value group.
//
// # Available Commands
//
//   - diff: Plan a database on every registry target and print the report
//   - apply: Plan and apply a database on every registry target
//   - export: Write the live schema of a database out as desired-state documents
//
// # Exit Codes
//
// A command exits with 0 on success. It exits with 1 when the plan contains
// changes that cannot be applied or when applying failed on any target.
//
// # Example Usage
//
//	kustokeeper diff --database telemetry
//	kustokeeper diff --database telemetry --registry clusters.toml --output plan.md
//	kustokeeper apply --database telemetry
//	kustokeeper export --database telemetry --target prod
package cmd
