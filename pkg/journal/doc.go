// Package journal records apply results for auditing.
//
// Every apply run gets a run id and each applied script becomes one row in
// the `kustokeeper.apply_log` ClickHouse table:
//
//	CREATE TABLE kustokeeper.apply_log (
//		run_id       UUID,
//		target       String,
//		database     String,
//		applied_at   DateTime64(3),
//		operation_id String,
//		command_type String,
//		state        LowCardinality(String),
//		reason       String,
//		command_text String
//	) ENGINE = MergeTree ORDER BY (applied_at, run_id)
//
// The database and table are created on first use. When no journal is
// configured the Nop journal discards entries.
package journal
