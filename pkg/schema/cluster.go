package schema

import (
	"slices"
	"strconv"

	"github.com/pseudomuto/kustokeeper/pkg/compare"
	"github.com/pseudomuto/kustokeeper/pkg/model"
)

type capacityField = compare.Field[model.CapacityPolicy]

// capacityFields is the explicit comparison table for the cluster capacity
// policy. Every leaf of the policy is listed once.
var capacityFields = []capacityField{
	intField("ingestionCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.IngestionCapacity, func(s *model.IngestionCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	floatField("ingestionCapacity.coreUtilizationCoefficient",
		func(c *model.CapacityPolicy) *float64 {
			return get(c.IngestionCapacity, func(s *model.IngestionCapacity) *float64 { return s.CoreUtilizationCoefficient })
		}),
	intField("extentsMergeCapacity.minimumConcurrentOperationsPerNode",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExtentsMergeCapacity, func(s *model.ExtentsMergeCapacity) *int64 { return s.MinimumConcurrentOperationsPerNode })
		}),
	intField("extentsMergeCapacity.maximumConcurrentOperationsPerNode",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExtentsMergeCapacity, func(s *model.ExtentsMergeCapacity) *int64 { return s.MaximumConcurrentOperationsPerNode })
		}),
	intField("extentsPurgeRebuildCapacity.maximumConcurrentOperationsPerNode",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExtentsPurgeRebuildCapacity, func(s *model.ExtentsPurgeRebuildCapacity) *int64 { return s.MaximumConcurrentOperationsPerNode })
		}),
	intField("exportCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExportCapacity, func(s *model.ExportCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	floatField("exportCapacity.coreUtilizationCoefficient",
		func(c *model.CapacityPolicy) *float64 {
			return get(c.ExportCapacity, func(s *model.ExportCapacity) *float64 { return s.CoreUtilizationCoefficient })
		}),
	intField("extentsPartitionCapacity.clusterMinimumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExtentsPartitionCapacity, func(s *model.ExtentsPartitionCapacity) *int64 { return s.ClusterMinimumConcurrentOperations })
		}),
	intField("extentsPartitionCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.ExtentsPartitionCapacity, func(s *model.ExtentsPartitionCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	intField("materializedViewsCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.MaterializedViewsCapacity, func(s *model.MaterializedViewsCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	intField("materializedViewsCapacity.extentsRebuildCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(rebuild(c), func(s *model.ExtentsRebuildCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	intField("materializedViewsCapacity.extentsRebuildCapacity.maximumConcurrentOperationsPerNode",
		func(c *model.CapacityPolicy) *int64 {
			return get(rebuild(c), func(s *model.ExtentsRebuildCapacity) *int64 { return s.MaximumConcurrentOperationsPerNode })
		}),
	intField("storedQueryResultsCapacity.maximumConcurrentOperationsPerDbAdmin",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.StoredQueryResultsCapacity, func(s *model.StoredQueryResultsCapacity) *int64 { return s.MaximumConcurrentOperationsPerDbAdmin })
		}),
	floatField("storedQueryResultsCapacity.coreUtilizationCoefficient",
		func(c *model.CapacityPolicy) *float64 {
			return get(c.StoredQueryResultsCapacity, func(s *model.StoredQueryResultsCapacity) *float64 { return s.CoreUtilizationCoefficient })
		}),
	intField("streamingIngestionPostProcessingCapacity.maximumConcurrentOperationsPerNode",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.StreamingIngestionPostProcessingCapacity, func(s *model.StreamingIngestionPostProcessingCapacity) *int64 {
				return s.MaximumConcurrentOperationsPerNode
			})
		}),
	intField("queryAccelerationCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.QueryAccelerationCapacity, func(s *model.QueryAccelerationCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
	floatField("queryAccelerationCapacity.coreUtilizationCoefficient",
		func(c *model.CapacityPolicy) *float64 {
			return get(c.QueryAccelerationCapacity, func(s *model.QueryAccelerationCapacity) *float64 { return s.CoreUtilizationCoefficient })
		}),
	intField("graphSnapshotsCapacity.clusterMaximumConcurrentOperations",
		func(c *model.CapacityPolicy) *int64 {
			return get(c.GraphSnapshotsCapacity, func(s *model.GraphSnapshotsCapacity) *int64 { return s.ClusterMaximumConcurrentOperations })
		}),
}

func get[S, V any](section *S, leaf func(*S) *V) *V {
	if section == nil {
		return nil
	}
	return leaf(section)
}

func rebuild(c *model.CapacityPolicy) *model.ExtentsRebuildCapacity {
	if c.MaterializedViewsCapacity == nil {
		return nil
	}
	return c.MaterializedViewsCapacity.ExtentsRebuildCapacity
}

func intField(name string, value func(*model.CapacityPolicy) *int64) capacityField {
	return capacityField{Name: name, Value: func(c *model.CapacityPolicy) string {
		if v := value(c); v != nil {
			return strconv.FormatInt(*v, 10)
		}
		return ""
	}}
}

func floatField(name string, value func(*model.CapacityPolicy) *float64) capacityField {
	return capacityField{Name: name, Value: func(c *model.CapacityPolicy) string {
		if v := value(c); v != nil {
			return strconv.FormatFloat(*v, 'f', -1, 64)
		}
		return ""
	}}
}

// PlanCluster plans the cluster capacity policy. Only the fields desired
// declares are managed; the policy is merged so everything else keeps its
// current value. A nil desired policy plans nothing.
//
// Example:
//
//	observed, _ := kusto.LoadCapacityPolicy(ctx, "telemetry", client)
//	changes := schema.PlanCluster(observed, target.CapacityPolicy)
func PlanCluster(observed, desired *model.CapacityPolicy) []*Change {
	if desired == nil {
		return nil
	}

	var fields []compare.Difference
	for _, f := range compare.Pairs(observed, desired, capacityFields) {
		if f.New != "" {
			fields = append(fields, f)
		}
	}
	if !slices.ContainsFunc(fields, compare.Difference.Changed) {
		return nil
	}

	scripts := []Script{newScript(CategoryCapacityPolicy, OrderCluster, alterCapacityPolicy(desired))}
	return appendChange(nil, build(EntityCluster, "capacity", OperationAlter, fields, scripts, false))
}
