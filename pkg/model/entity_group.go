package model

// EntityGroup is a named list of entity references such as
// `cluster('c').database('db')`.
type EntityGroup struct {
	Entities []string `yaml:"entities"`
}

// Clone returns a deep copy of eg.
func (eg *EntityGroup) Clone() *EntityGroup {
	if eg == nil {
		return nil
	}
	return &EntityGroup{Entities: cloneSlice(eg.Entities)}
}
