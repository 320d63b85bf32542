package merge

import (
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

// Database deep merges overlay into a copy of base. Either argument may be
// nil. The result always has every collection allocated.
func Database(base, overlay *model.Database) *model.Database {
	out := base.Clone()
	if overlay == nil {
		return out
	}

	for _, role := range overlay.Roles() {
		if len(role.Principals) > 0 {
			*out.RolePrincipals(role.Role) = append([]model.Principal(nil), role.Principals...)
		}
	}

	out.DefaultRetentionAndCache = RetentionAndCache(out.DefaultRetentionAndCache, overlay.DefaultRetentionAndCache)

	mergeInto(out.Tables, overlay.Tables, Table)
	mergeInto(out.Functions, overlay.Functions, Function)
	mergeInto(out.MaterializedViews, overlay.MaterializedViews, MaterializedView)
	mergeInto(out.ExternalTables, overlay.ExternalTables, ExternalTable)
	mergeInto(out.ContinuousExports, overlay.ContinuousExports, ContinuousExport)
	mergeInto(out.EntityGroups, overlay.EntityGroups, EntityGroup)
	mergeInto(out.Followers, overlay.Followers, Follower)

	for k, v := range overlay.Metadata {
		if v != "" {
			out.Metadata[k] = v
		}
	}

	return out
}

// mergeInto merges every overlay entity into dst using fn. dst entries are
// already private copies so fn's result can be stored directly.
func mergeInto[T any](dst, overlay map[string]*T, fn func(base, overlay *T) *T) {
	for name, ov := range overlay {
		if ov == nil {
			continue
		}
		dst[name] = fn(dst[name], ov)
	}
}

// RetentionAndCache merges database default policies.
func RetentionAndCache(base, overlay *model.RetentionAndCache) *model.RetentionAndCache {
	if overlay == nil {
		return base.Clone()
	}

	out := base.Clone()
	if out == nil {
		out = &model.RetentionAndCache{}
	}
	str(&out.Retention, overlay.Retention)
	str(&out.HotCache, overlay.HotCache)
	return out
}

// Table merges two table definitions.
func Table(base, overlay *model.Table) *model.Table {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.Folder, overlay.Folder)
	str(&out.DocString, overlay.DocString)
	out.Columns = Columns(out.Columns, overlay.Columns)
	out.Policies = Policies(out.Policies, overlay.Policies)

	ptr(&out.Retention, overlay.Retention)
	ptr(&out.HotCache, overlay.HotCache)
	ptr(&out.RowLevelSecurity, overlay.RowLevelSecurity)
	seq(&out.UpdatePolicies, overlay.UpdatePolicies)
	flag(&out.RestrictedViewAccess, overlay.RestrictedViewAccess)
	return out
}

// Columns merges column mappings key by key. Columns only present in the
// overlay are appended in overlay order.
func Columns(base, overlay *model.Columns) *model.Columns {
	if overlay == nil {
		return base.Clone()
	}

	out := base.Clone()
	if out == nil {
		out = model.NewColumns()
	}
	for _, col := range overlay.All() {
		if col.Type != "" {
			out.Set(col.Name, col.Type)
		}
	}
	return out
}

// Policies merges two policy sets.
func Policies(base, overlay *model.Policies) *model.Policies {
	if overlay == nil {
		return base.Clone()
	}

	out := base.Clone()
	if out == nil {
		out = &model.Policies{}
	}

	ptr(&out.Retention, overlay.Retention)
	ptr(&out.HotCache, overlay.HotCache)
	ptr(&out.RowLevelSecurity, overlay.RowLevelSecurity)
	seq(&out.UpdatePolicies, overlay.UpdatePolicies)
	flag(&out.RestrictedViewAccess, overlay.RestrictedViewAccess)

	if overlay.Partitioning != nil {
		if out.Partitioning == nil {
			out.Partitioning = &model.PartitioningPolicy{}
		}
		seq(&out.Partitioning.PartitionKeys, overlay.Partitioning.PartitionKeys)
		str(&out.Partitioning.EffectiveDateTime, overlay.Partitioning.EffectiveDateTime)
	}

	return out
}

// Function merges two function definitions.
func Function(base, overlay *model.Function) *model.Function {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.Folder, overlay.Folder)
	str(&out.DocString, overlay.DocString)
	str(&out.Parameters, overlay.Parameters)
	str(&out.Body, overlay.Body)
	flag(&out.SkipValidation, overlay.SkipValidation)
	flag(&out.View, overlay.View)
	return out
}

// MaterializedView merges two materialized view definitions.
func MaterializedView(base, overlay *model.MaterializedView) *model.MaterializedView {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.Source, overlay.Source)
	str(&out.Kind, overlay.Kind)
	str(&out.Folder, overlay.Folder)
	str(&out.DocString, overlay.DocString)
	str(&out.Query, overlay.Query)
	str(&out.EffectiveDateTime, overlay.EffectiveDateTime)
	str(&out.Lookback, overlay.Lookback)
	flag(&out.Backfill, overlay.Backfill)
	flag(&out.AutoUpdateSchema, overlay.AutoUpdateSchema)
	flag(&out.UpdateExtentsCreationTime, overlay.UpdateExtentsCreationTime)
	seq(&out.DimensionTables, overlay.DimensionTables)
	out.Policies = Policies(out.Policies, overlay.Policies)
	return out
}

// ExternalTable merges two external table definitions.
func ExternalTable(base, overlay *model.ExternalTable) *model.ExternalTable {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.Kind, overlay.Kind)
	str(&out.Folder, overlay.Folder)
	str(&out.DocString, overlay.DocString)
	str(&out.DataFormat, overlay.DataFormat)
	str(&out.PathFormat, overlay.PathFormat)
	str(&out.FileExtension, overlay.FileExtension)
	str(&out.NamePrefix, overlay.NamePrefix)
	str(&out.SQLTable, overlay.SQLTable)
	str(&out.SQLDialect, overlay.SQLDialect)
	out.Schema = Columns(out.Schema, overlay.Schema)
	seq(&out.Partitions, overlay.Partitions)
	seq(&out.ConnectionStrings, overlay.ConnectionStrings)
	flag(&out.Compressed, overlay.Compressed)
	flag(&out.CreateIfNotExists, overlay.CreateIfNotExists)
	flag(&out.FireTriggers, overlay.FireTriggers)
	return out
}

// ContinuousExport merges two continuous export definitions.
func ContinuousExport(base, overlay *model.ContinuousExport) *model.ContinuousExport {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.ExternalTable, overlay.ExternalTable)
	str(&out.Query, overlay.Query)
	str(&out.IntervalBetweenRuns, overlay.IntervalBetweenRuns)
	str(&out.ForcedLatency, overlay.ForcedLatency)
	str(&out.ManagedIdentity, overlay.ManagedIdentity)
	seq(&out.Tables, overlay.Tables)
	flag(&out.Distributed, overlay.Distributed)
	if overlay.SizeLimit != 0 {
		out.SizeLimit = overlay.SizeLimit
	}
	return out
}

// EntityGroup merges two entity groups.
func EntityGroup(base, overlay *model.EntityGroup) *model.EntityGroup {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay != nil {
		seq(&out.Entities, overlay.Entities)
	}
	return out
}

// Follower merges two follower database definitions.
func Follower(base, overlay *model.FollowerDatabase) *model.FollowerDatabase {
	if base == nil {
		return overlay.Clone()
	}

	out := base.Clone()
	if overlay == nil {
		return out
	}

	str(&out.DatabaseName, overlay.DatabaseName)
	str(&out.HotCache, overlay.HotCache)
	out.Tables = mergeMap(out.Tables, overlay.Tables)
	out.MaterializedViews = mergeMap(out.MaterializedViews, overlay.MaterializedViews)
	return out
}

func mergeMap(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overlay))
	}
	for k, v := range overlay {
		if v != "" {
			base[k] = v
		}
	}
	return base
}

func str(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func ptr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

func seq[T any](dst *[]T, v []T) {
	if len(v) > 0 {
		*dst = append([]T(nil), v...)
	}
}

func flag(dst *bool, v bool) {
	if v {
		*dst = true
	}
}
