package model

import (
	"github.com/pseudomuto/kustokeeper/pkg/compare"
)

type (
	// Policies groups the per-entity policies shared by tables and
	// materialized views. A normalized entity always carries a non-nil
	// Policies value; nil fields mean "inherit the database default" or
	// "no policy configured".
	Policies struct {
		Retention            *string             `yaml:"retention,omitempty"`
		HotCache             *string             `yaml:"hotCache,omitempty"`
		UpdatePolicies       []UpdatePolicy      `yaml:"updatePolicies,omitempty"`
		RowLevelSecurity     *string             `yaml:"rowLevelSecurity,omitempty"`
		RestrictedViewAccess bool                `yaml:"restrictedViewAccess,omitempty"`
		Partitioning         *PartitioningPolicy `yaml:"partitioning,omitempty"`
	}

	// RetentionAndCache is the database-wide default retention and hot cache.
	RetentionAndCache struct {
		Retention string `yaml:"retention,omitempty"`
		HotCache  string `yaml:"hotCache,omitempty"`
	}

	// UpdatePolicy is one entry of a table update policy. JSON names match
	// the payload accepted and returned by the cluster.
	UpdatePolicy struct {
		IsEnabled                    bool   `json:"IsEnabled" yaml:"isEnabled"`
		Source                       string `json:"Source" yaml:"source"`
		Query                        string `json:"Query" yaml:"query"`
		IsTransactional              bool   `json:"IsTransactional" yaml:"isTransactional,omitempty"`
		PropagateIngestionProperties bool   `json:"PropagateIngestionProperties" yaml:"propagateIngestionProperties,omitempty"`
		ManagedIdentity              string `json:"ManagedIdentity,omitempty" yaml:"managedIdentity,omitempty"`
	}

	// PartitioningPolicy is a data partitioning policy.
	PartitioningPolicy struct {
		PartitionKeys     []PartitionKey `json:"PartitionKeys" yaml:"partitionKeys"`
		EffectiveDateTime string         `json:"EffectiveDateTime,omitempty" yaml:"effectiveDateTime,omitempty"`
	}

	// PartitionKey is a single hash or uniform range partition key.
	PartitionKey struct {
		ColumnName string              `json:"ColumnName" yaml:"columnName"`
		Kind       string              `json:"Kind" yaml:"kind"`
		Properties PartitionProperties `json:"Properties" yaml:"properties"`
	}

	// PartitionProperties holds the kind specific partition key settings.
	PartitionProperties struct {
		Function                string `json:"Function,omitempty" yaml:"function,omitempty"`
		MaxPartitionCount       int    `json:"MaxPartitionCount,omitempty" yaml:"maxPartitionCount,omitempty"`
		Seed                    int    `json:"Seed,omitempty" yaml:"seed,omitempty"`
		PartitionAssignmentMode string `json:"PartitionAssignmentMode,omitempty" yaml:"partitionAssignmentMode,omitempty"`
		Reference               string `json:"Reference,omitempty" yaml:"reference,omitempty"`
		RangeSize               string `json:"RangeSize,omitempty" yaml:"rangeSize,omitempty"`
		OverrideCreationTime    bool   `json:"OverrideCreationTime,omitempty" yaml:"overrideCreationTime,omitempty"`
	}
)

// Clone returns a deep copy of p. Cloning nil yields nil.
func (p *Policies) Clone() *Policies {
	if p == nil {
		return nil
	}

	out := *p
	out.Retention = clonePtr(p.Retention)
	out.HotCache = clonePtr(p.HotCache)
	out.RowLevelSecurity = clonePtr(p.RowLevelSecurity)
	out.UpdatePolicies = cloneSlice(p.UpdatePolicies)
	out.Partitioning = p.Partitioning.Clone()
	return &out
}

// Equal reports whether both policy sets are structurally identical.
func (p *Policies) Equal(other *Policies) bool {
	if eq, more := compare.NilCheck(p, other); !more {
		return eq
	}

	return compare.Pointers(p.Retention, other.Retention) &&
		compare.Pointers(p.HotCache, other.HotCache) &&
		compare.Pointers(p.RowLevelSecurity, other.RowLevelSecurity) &&
		p.RestrictedViewAccess == other.RestrictedViewAccess &&
		compare.Slices(p.UpdatePolicies, other.UpdatePolicies, func(a, b UpdatePolicy) bool { return a == b }) &&
		p.Partitioning.Equal(other.Partitioning)
}

// Clone returns a deep copy of r.
func (r *RetentionAndCache) Clone() *RetentionAndCache {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// Clone returns a deep copy of p.
func (p *PartitioningPolicy) Clone() *PartitioningPolicy {
	if p == nil {
		return nil
	}
	out := *p
	out.PartitionKeys = cloneSlice(p.PartitionKeys)
	return &out
}

// Equal compares partition keys in order and the effective date.
func (p *PartitioningPolicy) Equal(other *PartitioningPolicy) bool {
	if eq, more := compare.NilCheck(p, other); !more {
		return eq
	}

	return p.EffectiveDateTime == other.EffectiveDateTime &&
		compare.Slices(p.PartitionKeys, other.PartitionKeys, func(a, b PartitionKey) bool { return a == b })
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
