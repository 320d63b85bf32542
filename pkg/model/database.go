package model

type (
	// Database is the desired or observed schema of a single Kusto database.
	//
	// Entity collections map a unique entity name to its body. Maps are
	// always safe to read when nil; use New to get a document with every
	// collection allocated.
	Database struct {
		Admins              []Principal `yaml:"admins,omitempty"`
		Users               []Principal `yaml:"users,omitempty"`
		Viewers             []Principal `yaml:"viewers,omitempty"`
		UnrestrictedViewers []Principal `yaml:"unrestrictedViewers,omitempty"`
		Ingestors           []Principal `yaml:"ingestors,omitempty"`
		Monitors            []Principal `yaml:"monitors,omitempty"`

		DefaultRetentionAndCache *RetentionAndCache `yaml:"defaultRetentionAndCache,omitempty"`

		Tables            map[string]*Table            `yaml:"tables,omitempty"`
		Functions         map[string]*Function         `yaml:"functions,omitempty"`
		MaterializedViews map[string]*MaterializedView `yaml:"materializedViews,omitempty"`
		ExternalTables    map[string]*ExternalTable    `yaml:"externalTables,omitempty"`
		ContinuousExports map[string]*ContinuousExport `yaml:"continuousExports,omitempty"`
		EntityGroups      map[string]*EntityGroup      `yaml:"entityGroups,omitempty"`
		Followers         map[string]*FollowerDatabase `yaml:"followers,omitempty"`

		Metadata map[string]string `yaml:"metadata,omitempty"`
	}
)

// New returns an empty Database with every collection allocated.
func New() *Database {
	db := &Database{}
	db.ensureCollections()
	return db
}

func (d *Database) ensureCollections() {
	if d.Tables == nil {
		d.Tables = make(map[string]*Table)
	}
	if d.Functions == nil {
		d.Functions = make(map[string]*Function)
	}
	if d.MaterializedViews == nil {
		d.MaterializedViews = make(map[string]*MaterializedView)
	}
	if d.ExternalTables == nil {
		d.ExternalTables = make(map[string]*ExternalTable)
	}
	if d.ContinuousExports == nil {
		d.ContinuousExports = make(map[string]*ContinuousExport)
	}
	if d.EntityGroups == nil {
		d.EntityGroups = make(map[string]*EntityGroup)
	}
	if d.Followers == nil {
		d.Followers = make(map[string]*FollowerDatabase)
	}
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
}

// Clone returns a deep copy of d with every collection allocated.
func (d *Database) Clone() *Database {
	if d == nil {
		return New()
	}

	out := &Database{
		Admins:                   cloneSlice(d.Admins),
		Users:                    cloneSlice(d.Users),
		Viewers:                  cloneSlice(d.Viewers),
		UnrestrictedViewers:      cloneSlice(d.UnrestrictedViewers),
		Ingestors:                cloneSlice(d.Ingestors),
		Monitors:                 cloneSlice(d.Monitors),
		DefaultRetentionAndCache: d.DefaultRetentionAndCache.Clone(),
		Metadata:                 cloneMap(d.Metadata),
	}
	out.ensureCollections()

	for name, t := range d.Tables {
		out.Tables[name] = t.Clone()
	}
	for name, f := range d.Functions {
		out.Functions[name] = f.Clone()
	}
	for name, mv := range d.MaterializedViews {
		out.MaterializedViews[name] = mv.Clone()
	}
	for name, et := range d.ExternalTables {
		out.ExternalTables[name] = et.Clone()
	}
	for name, ce := range d.ContinuousExports {
		out.ContinuousExports[name] = ce.Clone()
	}
	for name, eg := range d.EntityGroups {
		out.EntityGroups[name] = eg.Clone()
	}
	for name, f := range d.Followers {
		out.Followers[name] = f.Clone()
	}

	return out
}

// DefaultRetention returns the database default retention or "".
func (d *Database) DefaultRetention() string {
	if d == nil || d.DefaultRetentionAndCache == nil {
		return ""
	}
	return d.DefaultRetentionAndCache.Retention
}

// DefaultHotCache returns the database default hot cache or "".
func (d *Database) DefaultHotCache() string {
	if d == nil || d.DefaultRetentionAndCache == nil {
		return ""
	}
	return d.DefaultRetentionAndCache.HotCache
}
