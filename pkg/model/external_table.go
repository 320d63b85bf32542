package model

// External table kinds.
const (
	ExternalKindStorage = "storage"
	ExternalKindSQL     = "sql"
	ExternalKindDelta   = "delta"
)

// ExternalTable is a storage, SQL or delta external table.
type ExternalTable struct {
	Kind              string   `yaml:"kind"`
	Folder            string   `yaml:"folder,omitempty"`
	DocString         string   `yaml:"docString,omitempty"`
	Schema            *Columns `yaml:"schema,omitempty"`
	DataFormat        string   `yaml:"dataFormat,omitempty"`
	PathFormat        string   `yaml:"pathFormat,omitempty"`
	Partitions        []string `yaml:"partitions,omitempty"`
	ConnectionStrings []string `yaml:"connectionStrings,omitempty"`
	Compressed        bool     `yaml:"compressed,omitempty"`
	FileExtension     string   `yaml:"fileExtension,omitempty"`
	NamePrefix        string   `yaml:"namePrefix,omitempty"`
	SQLTable          string   `yaml:"sqlTable,omitempty"`
	SQLDialect        string   `yaml:"sqlDialect,omitempty"`
	CreateIfNotExists bool     `yaml:"createIfNotExists,omitempty"`
	FireTriggers      bool     `yaml:"fireTriggers,omitempty"`
}

// Clone returns a deep copy of et.
func (et *ExternalTable) Clone() *ExternalTable {
	if et == nil {
		return nil
	}

	out := *et
	out.Schema = et.Schema.Clone()
	out.Partitions = cloneSlice(et.Partitions)
	out.ConnectionStrings = cloneSlice(et.ConnectionStrings)
	return &out
}

// ExternalKind returns the declared kind, defaulting to storage.
func (et *ExternalTable) ExternalKind() string {
	if et.Kind == "" {
		return ExternalKindStorage
	}
	return et.Kind
}
