package model

type (
	// Table is a Kusto table definition.
	//
	// The top-level Retention, HotCache, UpdatePolicies, RowLevelSecurity and
	// RestrictedViewAccess fields are the legacy document shape. They are
	// folded into Policies by normalization and are always empty afterwards.
	Table struct {
		Folder    string    `yaml:"folder,omitempty"`
		DocString string    `yaml:"docString,omitempty"`
		Columns   *Columns  `yaml:"columns,omitempty"`
		Policies  *Policies `yaml:"policies,omitempty"`

		Retention            *string        `yaml:"retention,omitempty"`
		HotCache             *string        `yaml:"hotCache,omitempty"`
		UpdatePolicies       []UpdatePolicy `yaml:"updatePolicies,omitempty"`
		RowLevelSecurity     *string        `yaml:"rowLevelSecurity,omitempty"`
		RestrictedViewAccess bool           `yaml:"restrictedViewAccess,omitempty"`
	}
)

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	out := *t
	out.Columns = t.Columns.Clone()
	out.Policies = t.Policies.Clone()
	out.Retention = clonePtr(t.Retention)
	out.HotCache = clonePtr(t.HotCache)
	out.UpdatePolicies = cloneSlice(t.UpdatePolicies)
	out.RowLevelSecurity = clonePtr(t.RowLevelSecurity)
	return &out
}

// HasLegacyPolicies reports whether any legacy top-level policy field is set.
func (t *Table) HasLegacyPolicies() bool {
	return t.Retention != nil || t.HotCache != nil || len(t.UpdatePolicies) > 0 ||
		t.RowLevelSecurity != nil || t.RestrictedViewAccess
}
