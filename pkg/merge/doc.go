// Package merge implements the structural deep merge and normalization of
// schema documents.
//
// Merge rules, applied recursively:
//
//   - scalar fields in the overlay replace the base when non-empty
//   - mapping fields (entity collections, columns, metadata) are merged
//     key by key
//   - sequence fields (principal lists, update policies, partitions) are
//     replaced wholesale when the overlay provides a non-empty sequence
//
// Normalize folds legacy policy fields into the canonical Policies shape,
// canonicalises timespans, strips policy values equal to the database
// defaults and marks materialized views built on other materialized views.
// Both functions are pure: inputs are never modified.
//
// Example:
//
//	desired := merge.Normalize(merge.Database(base, overlay))
package merge
