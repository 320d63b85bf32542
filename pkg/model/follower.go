package model

// FollowerDatabase describes the cache overrides applied to a database that
// is followed from another (follower) cluster. Followers are keyed by the
// follower cluster name.
type FollowerDatabase struct {
	DatabaseName      string            `yaml:"databaseName,omitempty"`
	HotCache          string            `yaml:"hotCache,omitempty"`
	Tables            map[string]string `yaml:"tables,omitempty"`
	MaterializedViews map[string]string `yaml:"materializedViews,omitempty"`
}

// Clone returns a deep copy of f.
func (f *FollowerDatabase) Clone() *FollowerDatabase {
	if f == nil {
		return nil
	}
	out := *f
	out.Tables = cloneMap(f.Tables)
	out.MaterializedViews = cloneMap(f.MaterializedViews)
	return &out
}
