// Package model defines the schema document shared by the desired state
// (YAML documents under source control) and the observed state (introspected
// from a live Kusto database).
//
// A Database is a set of named entity collections plus cross-cutting
// principal lists, a default retention/cache policy and free-form metadata.
// Documents are built fresh per load and are never shared between runs.
//
// Example database.yml:
//
//	defaultRetentionAndCache:
//	  retention: 365d
//	  hotCache: 31d
//	admins:
//	  - id: aadgroup=00000000-0000-0000-0000-000000000000;contoso.com
//	    name: Data Platform Admins
//	tables:
//	  Events:
//	    folder: raw
//	    columns:
//	      Timestamp: datetime
//	      Name: string
//	    policies:
//	      hotCache: 7d
package model
