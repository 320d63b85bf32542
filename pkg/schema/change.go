package schema

import (
	"sort"
)

// Entity kinds.
const (
	EntityCluster          EntityKind = "Cluster"
	EntityPrincipals       EntityKind = "Principals"
	EntityDatabase         EntityKind = "Database"
	EntityTable            EntityKind = "Table"
	EntityFunction         EntityKind = "Function"
	EntityMaterializedView EntityKind = "MaterializedView"
	EntityExternalTable    EntityKind = "ExternalTable"
	EntityContinuousExport EntityKind = "ContinuousExport"
	EntityEntityGroup      EntityKind = "EntityGroup"
	EntityFollower         EntityKind = "FollowerDatabase"
)

// Operations.
const (
	OperationCreate Operation = "Create"
	OperationAlter  Operation = "Alter"
	OperationDelete Operation = "Delete"
)

// Script categories.
const (
	CategoryCapacityPolicy   = "capacity policy"
	CategoryPrincipals       = "principals"
	CategoryDatabasePolicy   = "database policy"
	CategoryDrop             = "drop"
	CategoryEntityGroup      = "entity group"
	CategoryTable            = "table"
	CategoryTablePolicy      = "table policy"
	CategoryExternalTable    = "external table"
	CategoryFunction         = "function"
	CategoryUpdatePolicy     = "update policy"
	CategoryMaterializedView = "materialized view"
	CategoryViewPolicy       = "materialized view policy"
	CategoryContinuousExport = "continuous export"
	CategoryFollower         = "follower"
)

// Execution order. Scripts are applied in ascending order; ties keep plan
// order.
const (
	OrderCluster                   = 5
	OrderPrincipals                = 10
	OrderDatabasePolicies          = 20
	OrderDropContinuousExport      = 30
	OrderDropMaterializedView      = 31
	OrderDropFunction              = 32
	OrderDropExternalTable         = 33
	OrderDropTable                 = 34
	OrderDropEntityGroup           = 35
	OrderEntityGroup               = 38
	OrderTable                     = 40
	OrderExternalTable             = 45
	OrderTableRetention            = 50
	OrderTableCaching              = 52
	OrderTablePartitioning         = 54
	OrderTableRowLevelSecurity     = 56
	OrderTableRestrictedViewAccess = 58
	OrderFunction                  = 70
	OrderUpdatePolicy              = 75
	OrderMaterializedView          = 80
	OrderViewPolicy                = 85
	OrderContinuousExport          = 90
)

type (
	// EntityKind names the kind of entity a Change applies to.
	EntityKind string

	// Operation is the kind of change planned for an entity.
	Operation string

	// Script is a single idempotent command.
	Script struct {
		Category string
		Order    int
		Text     string
		IsAsync  bool
		IsValid  bool
	}

	// Change is the planned mutation of one entity. Diff is the Markdown
	// section describing it.
	Change struct {
		Entity    EntityKind
		Name      string
		Operation Operation
		Scripts   []Script
		Diff      string
	}
)

func newScript(category string, order int, text string) Script {
	return Script{Category: category, Order: order, Text: text, IsValid: true}
}

func asyncScript(category string, order int, text string) Script {
	s := newScript(category, order, text)
	s.IsAsync = true
	return s
}

// invalidate marks every script of the change invalid.
func (c *Change) invalidate() {
	for i := range c.Scripts {
		c.Scripts[i].IsValid = false
	}
}

// Valid reports whether every script of the change may be applied.
func (c *Change) Valid() bool {
	for _, s := range c.Scripts {
		if !s.IsValid {
			return false
		}
	}
	return true
}

// IsValid reports whether every script of every change may be applied. An
// empty plan is valid.
func IsValid(changes []*Change) bool {
	for _, c := range changes {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// Scripts returns the valid scripts of every change ordered for execution.
// The sort is stable so scripts with the same order keep plan order.
func Scripts(changes []*Change) []Script {
	var out []Script
	for _, c := range changes {
		for _, s := range c.Scripts {
			if s.IsValid {
				out = append(out, s)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
