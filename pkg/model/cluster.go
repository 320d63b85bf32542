package model

type (
	// CapacityPolicy is the cluster level capacity policy. Every field is
	// optional; only fields present in the desired policy are managed.
	CapacityPolicy struct {
		IngestionCapacity                        *IngestionCapacity                        `json:"IngestionCapacity,omitempty" yaml:"ingestionCapacity,omitempty"`
		ExtentsMergeCapacity                     *ExtentsMergeCapacity                     `json:"ExtentsMergeCapacity,omitempty" yaml:"extentsMergeCapacity,omitempty"`
		ExtentsPurgeRebuildCapacity              *ExtentsPurgeRebuildCapacity              `json:"ExtentsPurgeRebuildCapacity,omitempty" yaml:"extentsPurgeRebuildCapacity,omitempty"`
		ExportCapacity                           *ExportCapacity                           `json:"ExportCapacity,omitempty" yaml:"exportCapacity,omitempty"`
		ExtentsPartitionCapacity                 *ExtentsPartitionCapacity                 `json:"ExtentsPartitionCapacity,omitempty" yaml:"extentsPartitionCapacity,omitempty"`
		MaterializedViewsCapacity                *MaterializedViewsCapacity                `json:"MaterializedViewsCapacity,omitempty" yaml:"materializedViewsCapacity,omitempty"`
		StoredQueryResultsCapacity               *StoredQueryResultsCapacity               `json:"StoredQueryResultsCapacity,omitempty" yaml:"storedQueryResultsCapacity,omitempty"`
		StreamingIngestionPostProcessingCapacity *StreamingIngestionPostProcessingCapacity `json:"StreamingIngestionPostProcessingCapacity,omitempty" yaml:"streamingIngestionPostProcessingCapacity,omitempty"`
		QueryAccelerationCapacity                *QueryAccelerationCapacity                `json:"QueryAccelerationCapacity,omitempty" yaml:"queryAccelerationCapacity,omitempty"`
		GraphSnapshotsCapacity                   *GraphSnapshotsCapacity                   `json:"GraphSnapshotsCapacity,omitempty" yaml:"graphSnapshotsCapacity,omitempty"`
	}

	IngestionCapacity struct {
		ClusterMaximumConcurrentOperations *int64   `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
		CoreUtilizationCoefficient         *float64 `json:"CoreUtilizationCoefficient,omitempty" yaml:"coreUtilizationCoefficient,omitempty"`
	}

	ExtentsMergeCapacity struct {
		MinimumConcurrentOperationsPerNode *int64 `json:"MinimumConcurrentOperationsPerNode,omitempty" yaml:"minimumConcurrentOperationsPerNode,omitempty"`
		MaximumConcurrentOperationsPerNode *int64 `json:"MaximumConcurrentOperationsPerNode,omitempty" yaml:"maximumConcurrentOperationsPerNode,omitempty"`
	}

	ExtentsPurgeRebuildCapacity struct {
		MaximumConcurrentOperationsPerNode *int64 `json:"MaximumConcurrentOperationsPerNode,omitempty" yaml:"maximumConcurrentOperationsPerNode,omitempty"`
	}

	ExportCapacity struct {
		ClusterMaximumConcurrentOperations *int64   `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
		CoreUtilizationCoefficient         *float64 `json:"CoreUtilizationCoefficient,omitempty" yaml:"coreUtilizationCoefficient,omitempty"`
	}

	ExtentsPartitionCapacity struct {
		ClusterMinimumConcurrentOperations *int64 `json:"ClusterMinimumConcurrentOperations,omitempty" yaml:"clusterMinimumConcurrentOperations,omitempty"`
		ClusterMaximumConcurrentOperations *int64 `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
	}

	MaterializedViewsCapacity struct {
		ClusterMaximumConcurrentOperations *int64                  `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
		ExtentsRebuildCapacity             *ExtentsRebuildCapacity `json:"ExtentsRebuildCapacity,omitempty" yaml:"extentsRebuildCapacity,omitempty"`
	}

	ExtentsRebuildCapacity struct {
		ClusterMaximumConcurrentOperations *int64 `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
		MaximumConcurrentOperationsPerNode *int64 `json:"MaximumConcurrentOperationsPerNode,omitempty" yaml:"maximumConcurrentOperationsPerNode,omitempty"`
	}

	StoredQueryResultsCapacity struct {
		MaximumConcurrentOperationsPerDbAdmin *int64   `json:"MaximumConcurrentOperationsPerDbAdmin,omitempty" yaml:"maximumConcurrentOperationsPerDbAdmin,omitempty"`
		CoreUtilizationCoefficient            *float64 `json:"CoreUtilizationCoefficient,omitempty" yaml:"coreUtilizationCoefficient,omitempty"`
	}

	StreamingIngestionPostProcessingCapacity struct {
		MaximumConcurrentOperationsPerNode *int64 `json:"MaximumConcurrentOperationsPerNode,omitempty" yaml:"maximumConcurrentOperationsPerNode,omitempty"`
	}

	QueryAccelerationCapacity struct {
		ClusterMaximumConcurrentOperations *int64   `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
		CoreUtilizationCoefficient         *float64 `json:"CoreUtilizationCoefficient,omitempty" yaml:"coreUtilizationCoefficient,omitempty"`
	}

	GraphSnapshotsCapacity struct {
		ClusterMaximumConcurrentOperations *int64 `json:"ClusterMaximumConcurrentOperations,omitempty" yaml:"clusterMaximumConcurrentOperations,omitempty"`
	}
)
