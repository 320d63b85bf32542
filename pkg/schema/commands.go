package schema

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = utils.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func jsonLiteral(v any) string {
	// Policy payloads are plain structs and slices; Marshal cannot fail.
	data, _ := json.Marshal(v)
	return utils.VerbatimString(string(data))
}

// Tables

func createMergeTable(name string, t *model.Table) string {
	return utils.NewCommand(".create-merge", "table").
		Call(name, t.Columns.Schema()).
		With(utils.NewProperties().String("folder", t.Folder).String("docstring", t.DocString)).
		String()
}

func alterTable(name string, t *model.Table) string {
	return utils.NewCommand(".alter", "table").
		Call(name, t.Columns.Schema()).
		With(utils.NewProperties().String("folder", t.Folder).String("docstring", t.DocString)).
		String()
}

func dropTable(name string) string {
	return utils.NewCommand(".drop", "table").Name(name).IfExists().String()
}

// Policies shared by databases, tables and materialized views. target is
// the entity keyword (`table`, `materialized-view`, `database`).

func alterRetention(target, name, value string) string {
	return utils.NewCommand(".alter-merge", target).Name(name).Policy("retention").Raw("softdelete = " + value).String()
}

func alterCaching(target, name, value string) string {
	return utils.NewCommand(".alter", target).Name(name).Policy("caching").Raw("hot = " + value).String()
}

func deletePolicy(target, name, kind string) string {
	return utils.NewCommand(".delete", target).Name(name).Policy(kind).String()
}

func alterPartitioning(name string, p *model.PartitioningPolicy) string {
	return utils.NewCommand(".alter", "table").Name(name).Policy("partitioning").Raw(jsonLiteral(p)).String()
}

func alterRowLevelSecurity(name, query string) string {
	return utils.NewCommand(".alter", "table").Name(name).Policy("row_level_security").
		Raw("enable").Raw(utils.QuoteString(query)).String()
}

func alterRestrictedViewAccess(name string, enabled bool) string {
	return utils.NewCommand(".alter", "table").Name(name).Policy("restricted_view_access").
		Raw(strconv.FormatBool(enabled)).String()
}

func alterUpdatePolicy(name string, policies []model.UpdatePolicy) string {
	return utils.NewCommand(".alter", "table").Name(name).Policy("update").Raw(jsonLiteral(policies)).String()
}

// Functions

func createOrAlterFunction(name string, f *model.Function) string {
	props := utils.NewProperties().
		String("folder", f.Folder).
		String("docstring", f.DocString)
	if f.SkipValidation {
		props.String("skipvalidation", "true")
	}
	props.Bool("view", f.View)

	return utils.NewCommand(".create-or-alter", "function").
		With(props).
		Call(name, f.Parameters).
		Body(f.Body).
		String()
}

func dropFunction(name string) string {
	return utils.NewCommand(".drop", "function").Name(name).IfExists().String()
}

// Materialized views

func createMaterializedView(name string, mv *model.MaterializedView) string {
	props := utils.NewProperties().
		Bool("backfill", mv.Backfill).
		Bool("updateExtentsCreationTime", mv.UpdateExtentsCreationTime).
		Bool("autoUpdateSchema", mv.AutoUpdateSchema).
		Raw("lookback", mv.Lookback).
		String("folder", mv.Folder).
		String("docString", mv.DocString)
	if mv.EffectiveDateTime != "" {
		props.Raw("effectiveDateTime", "datetime("+mv.EffectiveDateTime+")")
	}
	if len(mv.DimensionTables) > 0 {
		props.Raw("dimensionTables", "("+quoteAll(mv.DimensionTables)+")")
	}

	b := utils.NewCommand(".create", "")
	if mv.Backfill {
		b.Async()
	}

	return b.IfNotExists().
		Raw("materialized-view").
		With(props).
		Name(name).
		Raw("on " + mv.SourceKind()).
		Name(mv.Source).
		Body(mv.Query).
		String()
}

func alterMaterializedView(name string, mv *model.MaterializedView) string {
	props := utils.NewProperties().Raw("lookback", mv.Lookback)
	if len(mv.DimensionTables) > 0 {
		props.Raw("dimensionTables", "("+quoteAll(mv.DimensionTables)+")")
	}

	return utils.NewCommand(".alter", "materialized-view").
		With(props).
		Name(name).
		Raw("on " + mv.SourceKind()).
		Name(mv.Source).
		Body(mv.Query).
		String()
}

func alterMaterializedViewProperty(name, property, value string) string {
	return utils.NewCommand(".alter", "materialized-view").Name(name).Raw(property).Raw(value).String()
}

func dropMaterializedView(name string) string {
	return utils.NewCommand(".drop", "materialized-view").Name(name).IfExists().String()
}

// External tables

func createOrAlterExternalTable(name string, et *model.ExternalTable) string {
	b := utils.NewCommand(".create-or-alter", "external table").Name(name)
	if et.Schema.Len() > 0 {
		b.Raw("(" + et.Schema.Schema() + ")")
	}

	kind := et.ExternalKind()
	b.Raw("kind=" + kind)

	props := utils.NewProperties().
		String("folder", et.Folder).
		String("docstring", et.DocString)

	switch kind {
	case model.ExternalKindSQL:
		if et.SQLTable != "" {
			b.Raw("table=" + et.SQLTable)
		}
		props.String("sqlDialect", et.SQLDialect).
			Bool("createifnotexists", et.CreateIfNotExists).
			Bool("firetriggers", et.FireTriggers)
	case model.ExternalKindDelta:
		props.Bool("compressed", et.Compressed)
	default:
		if len(et.Partitions) > 0 {
			b.Raw("partition by (" + strings.Join(et.Partitions, ", ") + ")")
			if et.PathFormat != "" {
				b.Raw("pathformat = (" + et.PathFormat + ")")
			}
		}
		if et.DataFormat != "" {
			b.Raw("dataformat=" + et.DataFormat)
		}
		props.Bool("compressed", et.Compressed).
			String("fileExtension", et.FileExtension).
			String("namePrefix", et.NamePrefix)
	}

	conns := make([]string, len(et.ConnectionStrings))
	for i, c := range et.ConnectionStrings {
		conns[i] = utils.HiddenString(c)
	}
	b.Raw("(" + strings.Join(conns, ", ") + ")")

	return b.With(props).String()
}

func dropExternalTable(name string) string {
	return utils.NewCommand(".drop", "external table").Name(name).IfExists().String()
}

// Continuous exports

func createOrAlterContinuousExport(name string, ce *model.ContinuousExport) string {
	b := utils.NewCommand(".create-or-alter", "continuous-export").Name(name)
	if len(ce.Tables) > 0 {
		b.Raw("over (" + quoteAll(ce.Tables) + ")")
	}

	props := utils.NewProperties().
		Raw("intervalBetweenRuns", ce.IntervalBetweenRuns).
		Raw("forcedLatency", ce.ForcedLatency).
		Bool("distributed", ce.Distributed).
		String("managedIdentity", ce.ManagedIdentity)
	if ce.SizeLimit > 0 {
		props.Raw("sizeLimit", strconv.FormatInt(ce.SizeLimit, 10))
	}

	return b.Raw("to table").
		Name(ce.ExternalTable).
		With(props).
		Pipe(ce.Query).
		String()
}

func dropContinuousExport(name string) string {
	return utils.NewCommand(".drop", "continuous-export").Name(name).String()
}

// Entity groups

func createOrAlterEntityGroup(name string, eg *model.EntityGroup) string {
	return utils.NewCommand(".create-or-alter", "entity_group").
		Call(name, strings.Join(eg.Entities, ", ")).
		String()
}

func dropEntityGroup(name string) string {
	return utils.NewCommand(".drop", "entity_group").Name(name).String()
}

// Principals

func setPrincipals(database, role string, principals []model.Principal) string {
	b := utils.NewCommand(".set", "database").Name(database).Raw(role)
	if len(principals) == 0 {
		return b.Raw("none").String()
	}

	ids := make([]string, len(principals))
	for i, p := range principals {
		ids[i] = utils.QuoteString(p.ID)
	}
	return b.Raw("(" + strings.Join(ids, ", ") + ")").String()
}

// Followers

func alterFollowerCaching(database, scope, value string) string {
	return utils.NewCommand(".alter", "follower database").Name(database).
		Raw(scope).Policy("caching").Raw("hot = " + value).String()
}

func deleteFollowerCaching(database, scope string) string {
	return utils.NewCommand(".delete", "follower database").Name(database).
		Raw(scope).Policy("caching").String()
}

// Cluster

func alterCapacityPolicy(p *model.CapacityPolicy) string {
	return utils.NewCommand(".alter-merge", "cluster").Policy("capacity").Raw(jsonLiteral(p)).String()
}
