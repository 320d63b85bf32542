package model

// ContinuousExport continuously exports query results to an external table.
type ContinuousExport struct {
	ExternalTable       string   `yaml:"externalTable"`
	Query               string   `yaml:"query"`
	Tables              []string `yaml:"tables,omitempty"`
	IntervalBetweenRuns string   `yaml:"intervalBetweenRuns,omitempty"`
	ForcedLatency       string   `yaml:"forcedLatency,omitempty"`
	SizeLimit           int64    `yaml:"sizeLimit,omitempty"`
	Distributed         bool     `yaml:"distributed,omitempty"`
	ManagedIdentity     string   `yaml:"managedIdentity,omitempty"`
}

// Clone returns a deep copy of ce.
func (ce *ContinuousExport) Clone() *ContinuousExport {
	if ce == nil {
		return nil
	}
	out := *ce
	out.Tables = cloneSlice(ce.Tables)
	return &out
}
