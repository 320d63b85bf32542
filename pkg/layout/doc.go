// Package layout reads and writes desired-state documents on disk.
//
// A database is described by a directory:
//
//	<root>/<database>/database.yml                base document
//	<root>/<database>/tables/<name>.yml           table overlays
//	<root>/<database>/functions/<name>.yml        function overlays
//	<root>/<database>/materialized-views/<name>.yml
//	<root>/<database>/external-tables/<name>.yml
//	<root>/<database>/continuous-exports/<name>.yml
//	<root>/<database>/entity-groups/<name>.yml
//	<root>/<database>/followers/<name>.yml
//
// Each overlay file holds a single entity whose name is the file's base name.
// Overlays are merged over the base document in lexical file order and the
// result is normalized.
//
// All (de)serialization goes through an explicit Codec value so callers
// control indentation and the overlay size threshold.
package layout
