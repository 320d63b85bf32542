package schema_test

import (
	"regexp"
	"testing"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/schema"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const telemetry = `
admins:
  - id: aaduser=ops@example.com
viewers:
  - id: aadgroup=readers
defaultRetentionAndCache:
  retention: 365d
  hotCache: 31d
tables:
  Events:
    folder: raw
    columns:
      Timestamp: datetime
      Payload: dynamic
    policies:
      hotCache: 7d
      updatePolicies:
        - isEnabled: true
          source: RawEvents
          query: RawEvents | project Timestamp, Payload
  RawEvents:
    columns:
      Data: dynamic
functions:
  Recent:
    parameters: (window:timespan)
    body: Events | where Timestamp > ago(window)
materializedViews:
  Hourly:
    source: Events
    query: Events | summarize count() by bin(Timestamp, 1h)
externalTables:
  Archive:
    dataFormat: parquet
    connectionStrings:
      - https://example.blob.core.windows.net/archive;secret
continuousExports:
  ToArchive:
    externalTable: Archive
    query: Events
    intervalBetweenRuns: 1h
entityGroups:
  Regions:
    entities:
      - cluster('east').database('telemetry')
`

func decode(t *testing.T, doc string) *model.Database {
	t.Helper()

	db := model.New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), db))
	return db
}

func TestPlanCreatesTableWithoutDefaultRetention(t *testing.T) {
	observed := decode(t, "defaultRetentionAndCache:\n  retention: 30d\n")
	desired := decode(t, `
defaultRetentionAndCache:
  retention: 30d
tables:
  Events:
    columns:
      Timestamp: datetime
      Name: string
    policies:
      retention: 30.00:00:00
`)

	changes := schema.Plan(observed, desired, "telemetry")
	require.Len(t, changes, 1)

	c := changes[0]
	require.Equal(t, schema.EntityTable, c.Entity)
	require.Equal(t, "Events", c.Name)
	require.Equal(t, schema.OperationCreate, c.Operation)
	require.Len(t, c.Scripts, 1)
	require.Equal(t, ".create-merge table Events(Timestamp:datetime, Name:string)", c.Scripts[0].Text)
	require.NotContains(t, c.Scripts[0].Text, "retention")
}

func TestPlanDeletesRemovedTable(t *testing.T) {
	observed := decode(t, "tables:\n  Old:\n    columns:\n      a: string\n")

	changes := schema.Plan(observed, model.New(), "telemetry")
	require.Len(t, changes, 1)

	c := changes[0]
	require.Equal(t, schema.OperationDelete, c.Operation)
	require.Equal(t, "Old", c.Name)
	require.Equal(t, []schema.Script{{
		Category: schema.CategoryDrop,
		Order:    schema.OrderDropTable,
		Text:     ".drop table Old ifexists",
		IsAsync:  false,
		IsValid:  true,
	}}, c.Scripts)
}

func TestPlanFunctionBodyOnly(t *testing.T) {
	observed := decode(t, "functions:\n  F:\n    body: T | take 1\n")
	desired := decode(t, "functions:\n  F:\n    body: T | take 2\n")

	changes := schema.Plan(observed, desired, "telemetry")
	require.Len(t, changes, 1)
	require.Equal(t, schema.OperationAlter, changes[0].Operation)
	require.Len(t, changes[0].Scripts, 1)
	require.Equal(t, ".create-or-alter function F() {\nT | take 2\n}", changes[0].Scripts[0].Text)
}

func TestPlanConverges(t *testing.T) {
	changes := schema.Plan(decode(t, telemetry), decode(t, telemetry), "telemetry")
	require.Empty(t, changes)
	require.True(t, schema.IsValid(changes))
}

func TestPlanIgnoresRepresentationalDifferences(t *testing.T) {
	observed := decode(t, `
defaultRetentionAndCache:
  retention: 365.00:00:00
tables:
  T:
    columns:
      a: String
    policies:
      hotCache: 7.00:00:00
`)
	desired := decode(t, `
defaultRetentionAndCache:
  retention: 365d
tables:
  T:
    columns:
      a: string
    hotCache: 168h
`)

	require.Empty(t, schema.Plan(observed, desired, "db"))
}

func TestPlanIsDeterministic(t *testing.T) {
	observed := decode(t, "tables:\n  Old:\n    columns:\n      a: string\n  Older:\n    columns:\n      a: string\n")
	desired := decode(t, telemetry)

	first := schema.Plan(observed, desired, "telemetry")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, schema.Plan(observed, desired, "telemetry"))
	}
}

func TestPlanKindOrder(t *testing.T) {
	observed := decode(t, "tables:\n  Old:\n    columns:\n      a: string\n")
	changes := schema.Plan(observed, decode(t, telemetry), "telemetry")

	var kinds []schema.EntityKind
	for _, c := range changes {
		if len(kinds) == 0 || kinds[len(kinds)-1] != c.Entity {
			kinds = append(kinds, c.Entity)
		}
	}

	require.Equal(t, []schema.EntityKind{
		schema.EntityPrincipals,
		schema.EntityDatabase,
		schema.EntityTable, // drop
		schema.EntityEntityGroup,
		schema.EntityTable,
		schema.EntityExternalTable,
		schema.EntityFunction,
		schema.EntityMaterializedView,
		schema.EntityContinuousExport,
	}, kinds)

	scripts := schema.Scripts(changes)
	require.Equal(t, ".drop table Old ifexists", scripts[4].Text)
	for i := 1; i < len(scripts); i++ {
		require.LessOrEqual(t, scripts[i-1].Order, scripts[i].Order)
	}

	var updateOrder, tableOrder int
	for _, s := range scripts {
		switch s.Category {
		case schema.CategoryUpdatePolicy:
			updateOrder = s.Order
		case schema.CategoryTable:
			tableOrder = s.Order
		}
	}
	require.Greater(t, updateOrder, tableOrder)
}

func TestPlanTableColumns(t *testing.T) {
	tests := []struct {
		name     string
		observed string
		desired  string
		script   string
		valid    bool
	}{
		{
			name:     "added column",
			observed: "a: string",
			desired:  "a: string\n      b: long",
			script:   ".create-merge table T(a:string, b:long)",
			valid:    true,
		},
		{
			name:     "reordered columns",
			observed: "a: string\n      b: long",
			desired:  "b: long\n      a: string",
			script:   ".alter table T(b:long, a:string)",
			valid:    true,
		},
		{
			name:     "removed column",
			observed: "a: string\n      b: long",
			desired:  "a: string",
			script:   ".alter table T(a:string)",
			valid:    false,
		},
		{
			name:     "changed type",
			observed: "a: string",
			desired:  "a: long",
			script:   ".alter table T(a:long)",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed := decode(t, "tables:\n  T:\n    columns:\n      "+tt.observed+"\n")
			desired := decode(t, "tables:\n  T:\n    columns:\n      "+tt.desired+"\n")

			changes := schema.Plan(observed, desired, "db")
			require.Len(t, changes, 1)
			require.Equal(t, schema.OperationAlter, changes[0].Operation)
			require.Equal(t, tt.script, changes[0].Scripts[0].Text)
			require.Equal(t, tt.valid, changes[0].Valid())
			require.Equal(t, tt.valid, schema.IsValid(changes))

			if !tt.valid {
				require.Empty(t, schema.Scripts(changes))
			}
		})
	}
}

func TestPlanTablePolicies(t *testing.T) {
	observed := decode(t, `
tables:
  T:
    columns:
      a: string
    policies:
      retention: 10d
      rowLevelSecurity: T | where false
`)
	desired := decode(t, `
tables:
  T:
    columns:
      a: string
    policies:
      hotCache: 3d
      restrictedViewAccess: true
      partitioning:
        partitionKeys:
          - columnName: a
            kind: Hash
            properties:
              function: XxHash64
              maxPartitionCount: 128
`)

	changes := schema.Plan(observed, desired, "db")
	require.Len(t, changes, 1)

	var texts []string
	for _, s := range changes[0].Scripts {
		texts = append(texts, s.Text)
	}

	require.Equal(t, []string{
		".delete table T policy retention",
		".alter table T policy caching hot = 3d",
		`.alter table T policy partitioning @'{"PartitionKeys":[{"ColumnName":"a","Kind":"Hash","Properties":{"Function":"XxHash64","MaxPartitionCount":128}}]}'`,
		".delete table T policy row_level_security",
		".alter table T policy restricted_view_access true",
	}, texts)
}

func TestPlanMaterializedViews(t *testing.T) {
	base := "tables:\n  Events:\n    columns:\n      a: string\n  Other:\n    columns:\n      a: string\n"

	tests := []struct {
		name     string
		observed string
		desired  string
		script   string
		async    bool
		valid    bool
	}{
		{
			name:     "create with backfill",
			observed: "",
			desired:  "    source: Events\n    backfill: true\n    query: Events | count\n",
			script:   ".create async ifnotexists materialized-view with (backfill=true) V on table Events {\nEvents | count\n}",
			async:    true,
			valid:    true,
		},
		{
			name:     "create",
			observed: "",
			desired:  "    source: Events\n    lookback: 1.00:00:00\n    query: Events | count\n",
			script:   ".create ifnotexists materialized-view with (lookback=1d) V on table Events {\nEvents | count\n}",
			valid:    true,
		},
		{
			name:     "query change",
			observed: "    source: Events\n    query: Events | count\n",
			desired:  "    source: Events\n    backfill: true\n    query: Events | summarize count() by a\n",
			script:   ".alter materialized-view V on table Events {\nEvents | summarize count() by a\n}",
			valid:    true,
		},
		{
			name:     "folder change",
			observed: "    source: Events\n    query: Events | count\n",
			desired:  "    source: Events\n    folder: views\n    query: Events | count\n",
			script:   `.alter materialized-view V folder "views"`,
			valid:    true,
		},
		{
			name:     "source change",
			observed: "    source: Events\n    query: Events | count\n",
			desired:  "    source: Other\n    query: Other | count\n",
			script:   ".alter materialized-view V on table Other {\nOther | count\n}",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observedDoc, desiredDoc := base, base+"materializedViews:\n  V:\n"+tt.desired
			if tt.observed != "" {
				observedDoc += "materializedViews:\n  V:\n" + tt.observed
			}

			changes := schema.Plan(decode(t, observedDoc), decode(t, desiredDoc), "db")
			require.Len(t, changes, 1)
			require.Equal(t, schema.EntityMaterializedView, changes[0].Entity)

			script := changes[0].Scripts[0]
			require.Equal(t, tt.script, script.Text)
			require.Equal(t, tt.async, script.IsAsync)
			require.Equal(t, tt.valid, changes[0].Valid())
		})
	}
}

func TestPlanPrincipals(t *testing.T) {
	observed := decode(t, "admins:\n  - id: aaduser=ops@example.com\n")

	t.Run("viewers added", func(t *testing.T) {
		desired := decode(t, "admins:\n  - id: AADUSER=ops@example.com\nviewers:\n  - id: aadgroup=readers\n    name: Readers\n")

		changes := schema.Plan(observed, desired, "db")
		require.Len(t, changes, 1)
		require.Equal(t, schema.EntityPrincipals, changes[0].Entity)
		require.Equal(t, model.RoleViewers, changes[0].Name)
		require.Equal(t, `.set database db viewers ("aadgroup=readers")`, changes[0].Scripts[0].Text)
		require.True(t, changes[0].Valid())
	})

	t.Run("every admin removed", func(t *testing.T) {
		changes := schema.Plan(observed, model.New(), "db")
		require.Len(t, changes, 1)
		require.Equal(t, ".set database db admins none", changes[0].Scripts[0].Text)
		require.False(t, schema.IsValid(changes))
	})
}

func TestPlanDatabasePolicies(t *testing.T) {
	observed := decode(t, "defaultRetentionAndCache:\n  retention: 30d\n  hotCache: 7d\n")
	desired := decode(t, "defaultRetentionAndCache:\n  retention: 90d\n")

	changes := schema.Plan(observed, desired, "db")
	require.Len(t, changes, 1)
	require.Equal(t, schema.EntityDatabase, changes[0].Entity)
	require.Len(t, changes[0].Scripts, 1)
	require.Equal(t, ".alter-merge database db policy retention softdelete = 90d", changes[0].Scripts[0].Text)
}

func TestPlanInheritsLiveDefaults(t *testing.T) {
	observed := decode(t, `
defaultRetentionAndCache:
  retention: 365.00:00:00
  hotCache: 31.00:00:00
tables:
  Events:
    columns:
      Name: string
    policies:
      retention: 365.00:00:00
`)

	tests := []struct {
		name    string
		desired string
	}{
		{
			name:    "no default declared",
			desired: "tables:\n  Events:\n    columns:\n      Name: string\n    policies:\n      retention: 365d\n",
		},
		{
			name: "only hot cache declared",
			desired: `
defaultRetentionAndCache:
  hotCache: 31d
tables:
  Events:
    columns:
      Name: string
    retention: 365d
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, schema.Plan(observed, decode(t, tt.desired), "db"))
		})
	}

	t.Run("other values still planned", func(t *testing.T) {
		desired := decode(t, "tables:\n  Events:\n    columns:\n      Name: string\n    policies:\n      retention: 30d\n")

		changes := schema.Plan(observed, desired, "db")
		require.Len(t, changes, 1)
		require.Equal(t, ".alter-merge table Events policy retention softdelete = 30d", changes[0].Scripts[0].Text)
	})
}

var viewName = regexp.MustCompile(`materialized-view (?:with \(.*?\) )?(\w+)`)

func TestPlanViewDependencyOrder(t *testing.T) {
	events := "tables:\n  Events:\n    columns:\n      Timestamp: datetime\n"
	views := events + `
materializedViews:
  ADailyRollup:
    source: BHourly
    query: BHourly | summarize sum(Count) by bin(Timestamp, 1d)
  BHourly:
    source: ZMinutely
    query: ZMinutely | summarize Count = sum(Count) by bin(Timestamp, 1h)
  ZMinutely:
    source: Events
    query: Events | summarize Count = count() by bin(Timestamp, 1m)
  CStandalone:
    source: Events
    query: Events | count
`

	names := func(scripts []schema.Script, category string) []string {
		var out []string
		for _, s := range scripts {
			if s.Category == category {
				out = append(out, viewName.FindStringSubmatch(s.Text)[1])
			}
		}
		return out
	}

	t.Run("create", func(t *testing.T) {
		scripts := schema.Scripts(schema.Plan(decode(t, events), decode(t, views), "db"))
		require.Equal(t,
			[]string{"ZMinutely", "BHourly", "ADailyRollup", "CStandalone"},
			names(scripts, schema.CategoryMaterializedView),
		)
	})

	t.Run("drop", func(t *testing.T) {
		scripts := schema.Scripts(schema.Plan(decode(t, views), decode(t, events), "db"))
		require.Equal(t,
			[]string{"CStandalone", "ADailyRollup", "BHourly", "ZMinutely"},
			names(scripts, schema.CategoryDrop),
		)
	})
}

func TestPlanExternalTables(t *testing.T) {
	observed := decode(t, `
externalTables:
  Archive:
    kind: storage
    dataFormat: parquet
    connectionStrings:
      - https://example.blob.core.windows.net/archive;*******
`)

	t.Run("masked secrets are equal", func(t *testing.T) {
		desired := decode(t, `
externalTables:
  Archive:
    dataFormat: Parquet
    partitions:
      - Day:datetime = startofday(Timestamp)
    connectionStrings:
      - https://example.blob.core.windows.net/archive;secretkey
`)
		require.Empty(t, schema.Plan(observed, desired, "db"))
	})

	t.Run("format change", func(t *testing.T) {
		desired := decode(t, `
externalTables:
  Archive:
    dataFormat: csv
    folder: exports
    connectionStrings:
      - https://example.blob.core.windows.net/archive;secretkey
`)

		changes := schema.Plan(observed, desired, "db")
		require.Len(t, changes, 1)
		require.Equal(t,
			`.create-or-alter external table Archive kind=storage dataformat=csv (h@'https://example.blob.core.windows.net/archive;secretkey') with (folder="exports")`,
			changes[0].Scripts[0].Text,
		)
	})
}

func TestPlanContinuousExportsAndEntityGroups(t *testing.T) {
	desired := decode(t, `
continuousExports:
  ToArchive:
    externalTable: Archive
    tables: [Events]
    query: Events
    intervalBetweenRuns: 01:00:00
entityGroups:
  Regions:
    entities:
      - cluster('east').database('db')
      - cluster('west').database('db')
`)

	changes := schema.Plan(model.New(), desired, "db")
	require.Len(t, changes, 2)

	require.Equal(t, schema.EntityEntityGroup, changes[0].Entity)
	require.Equal(t,
		".create-or-alter entity_group Regions(cluster('east').database('db'), cluster('west').database('db'))",
		changes[0].Scripts[0].Text,
	)

	require.Equal(t, schema.EntityContinuousExport, changes[1].Entity)
	require.Equal(t,
		".create-or-alter continuous-export ToArchive over (Events) to table Archive with (intervalBetweenRuns=1h) <|\nEvents",
		changes[1].Scripts[0].Text,
	)

	require.Empty(t, schema.Plan(desired, desired, "db"))

	altered := desired.Clone()
	altered.EntityGroups["Regions"].Entities = altered.EntityGroups["Regions"].Entities[:1]
	altered.ContinuousExports["ToArchive"].ForcedLatency = "10m"

	changes = schema.Plan(desired, altered, "db")
	require.Len(t, changes, 2)
	for _, c := range changes {
		require.Equal(t, schema.OperationAlter, c.Operation)
	}
}

func TestPlanFollower(t *testing.T) {
	observed := &model.FollowerDatabase{
		HotCache: "1.00:00:00",
		Tables:   map[string]string{"Events": "2d", "Old": "1d"},
	}
	desired := &model.FollowerDatabase{
		HotCache:          "24h",
		Tables:            map[string]string{"Events": "3d"},
		MaterializedViews: map[string]string{"Hourly": "7d"},
	}

	changes := schema.PlanFollower(observed, desired, "db")
	require.Len(t, changes, 1)
	require.Equal(t, schema.EntityFollower, changes[0].Entity)

	var texts []string
	for _, s := range changes[0].Scripts {
		texts = append(texts, s.Text)
	}
	require.Equal(t, []string{
		".delete follower database db tables (Old) policy caching",
		".alter follower database db tables (Events) policy caching hot = 3d",
		".alter follower database db materialized-views (Hourly) policy caching hot = 7d",
	}, texts)

	require.Empty(t, schema.PlanFollower(desired, desired, "db"))
	require.Empty(t, schema.PlanFollower(observed, nil, "db"))
}

func TestPlanCluster(t *testing.T) {
	observed := &model.CapacityPolicy{
		IngestionCapacity: &model.IngestionCapacity{
			ClusterMaximumConcurrentOperations: utils.Ptr[int64](512),
			CoreUtilizationCoefficient:         utils.Ptr(0.75),
		},
	}

	tests := []struct {
		name    string
		desired *model.CapacityPolicy
		script  string
	}{
		{name: "unmanaged", desired: nil},
		{
			name: "unchanged subset",
			desired: &model.CapacityPolicy{
				IngestionCapacity: &model.IngestionCapacity{CoreUtilizationCoefficient: utils.Ptr(0.75)},
			},
		},
		{
			name: "changed",
			desired: &model.CapacityPolicy{
				IngestionCapacity: &model.IngestionCapacity{ClusterMaximumConcurrentOperations: utils.Ptr[int64](256)},
			},
			script: `.alter-merge cluster policy capacity @'{"IngestionCapacity":{"ClusterMaximumConcurrentOperations":256}}'`,
		},
		{
			name: "new section",
			desired: &model.CapacityPolicy{
				MaterializedViewsCapacity: &model.MaterializedViewsCapacity{
					ExtentsRebuildCapacity: &model.ExtentsRebuildCapacity{MaximumConcurrentOperationsPerNode: utils.Ptr[int64](5)},
				},
			},
			script: `.alter-merge cluster policy capacity @'{"MaterializedViewsCapacity":{"ExtentsRebuildCapacity":{"MaximumConcurrentOperationsPerNode":5}}}'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := schema.PlanCluster(observed, tt.desired)
			if tt.script == "" {
				require.Empty(t, changes)
				return
			}

			require.Len(t, changes, 1)
			require.Equal(t, schema.EntityCluster, changes[0].Entity)
			require.Equal(t, tt.script, changes[0].Scripts[0].Text)
		})
	}
}
