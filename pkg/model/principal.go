package model

import (
	"sort"
	"strings"
)

// Database roles a principal can be assigned to.
const (
	RoleAdmins              = "admins"
	RoleUsers               = "users"
	RoleViewers             = "viewers"
	RoleUnrestrictedViewers = "unrestrictedviewers"
	RoleIngestors           = "ingestors"
	RoleMonitors            = "monitors"
)

type (
	// Principal is an AAD identity, e.g.
	// `aadgroup=<object id>;<tenant>` with a human readable name.
	Principal struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name,omitempty"`
	}

	// RoleAssignment pairs a role with the principals assigned to it.
	RoleAssignment struct {
		Role       string
		Principals []Principal
	}
)

// Roles returns every role with its principal list in a fixed order.
func (d *Database) Roles() []RoleAssignment {
	return []RoleAssignment{
		{Role: RoleAdmins, Principals: d.Admins},
		{Role: RoleUsers, Principals: d.Users},
		{Role: RoleViewers, Principals: d.Viewers},
		{Role: RoleUnrestrictedViewers, Principals: d.UnrestrictedViewers},
		{Role: RoleIngestors, Principals: d.Ingestors},
		{Role: RoleMonitors, Principals: d.Monitors},
	}
}

// RolePrincipals returns a pointer to the principal list backing role, or nil
// for an unknown role.
func (d *Database) RolePrincipals(role string) *[]Principal {
	switch strings.ToLower(role) {
	case RoleAdmins:
		return &d.Admins
	case RoleUsers:
		return &d.Users
	case RoleViewers:
		return &d.Viewers
	case RoleUnrestrictedViewers:
		return &d.UnrestrictedViewers
	case RoleIngestors:
		return &d.Ingestors
	case RoleMonitors:
		return &d.Monitors
	}
	return nil
}

// SamePrincipals compares two principal lists as sets of ids. Display names
// are informational and ignored; ids are compared case-insensitively.
func SamePrincipals(a, b []Principal) bool {
	ids := func(ps []Principal) []string {
		out := make([]string, 0, len(ps))
		seen := make(map[string]bool, len(ps))
		for _, p := range ps {
			id := strings.ToLower(p.ID)
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		sort.Strings(out)
		return out
	}

	x, y := ids(a), ids(b)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// SortPrincipals sorts principals by id so documents are stable.
func SortPrincipals(ps []Principal) {
	sort.SliceStable(ps, func(i, j int) bool {
		return strings.ToLower(ps[i].ID) < strings.ToLower(ps[j].ID)
	})
}
