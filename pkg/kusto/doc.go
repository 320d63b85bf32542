// Package kusto introspects the live schema of a Kusto database.
//
// All remote access goes through the Executor interface. Client is the
// production implementation backed by github.com/Azure/azure-kusto-go;
// package kustotest provides a scriptable in-memory implementation for
// tests.
//
// Observed state is assembled by an explicit, ordered list of Loaders, one
// per entity kind. Each loader issues read-only management commands, folds
// the rows into an overlay document and merges it into the observed
// database with the same semantics used for desired-state overlays. A
// loader that finds an optional policy missing records "not configured";
// only transport errors are returned.
//
// Example:
//
//	client, err := kusto.NewClient("https://mycluster.westeurope.kusto.windows.net")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	observed, err := kusto.LoadDatabase(ctx, "telemetry", client, kusto.DefaultLoaders()...)
package kusto
