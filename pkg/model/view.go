package model

// Materialized view source kinds.
const (
	SourceKindTable            = "table"
	SourceKindMaterializedView = "materialized-view"
)

// MaterializedView is a materialized view over a table or another
// materialized view.
type MaterializedView struct {
	Source                    string    `yaml:"source"`
	Kind                      string    `yaml:"kind,omitempty"`
	Folder                    string    `yaml:"folder,omitempty"`
	DocString                 string    `yaml:"docString,omitempty"`
	Query                     string    `yaml:"query"`
	Backfill                  bool      `yaml:"backfill,omitempty"`
	AutoUpdateSchema          bool      `yaml:"autoUpdateSchema,omitempty"`
	EffectiveDateTime         string    `yaml:"effectiveDateTime,omitempty"`
	Lookback                  string    `yaml:"lookback,omitempty"`
	UpdateExtentsCreationTime bool      `yaml:"updateExtentsCreationTime,omitempty"`
	DimensionTables           []string  `yaml:"dimensionTables,omitempty"`
	Policies                  *Policies `yaml:"policies,omitempty"`
}

// Clone returns a deep copy of mv.
func (mv *MaterializedView) Clone() *MaterializedView {
	if mv == nil {
		return nil
	}

	out := *mv
	out.DimensionTables = cloneSlice(mv.DimensionTables)
	out.Policies = mv.Policies.Clone()
	return &out
}

// SourceKind returns the declared kind, defaulting to a table source.
func (mv *MaterializedView) SourceKind() string {
	if mv.Kind == "" {
		return SourceKindTable
	}
	return mv.Kind
}
