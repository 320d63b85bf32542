package merge

import (
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/timespan"
)

// Normalize returns the canonical form of db. It never modifies its input and
// Normalize(Normalize(x)) equals Normalize(x).
//
// Example:
//
//	db := merge.Normalize(&model.Database{
//		DefaultRetentionAndCache: &model.RetentionAndCache{Retention: "365.00:00:00"},
//		Tables: map[string]*model.Table{
//			"Events": {Retention: utils.Ptr("365d")},
//		},
//	})
//	// db.Tables["Events"].Policies.Retention == nil (equals the default)
func Normalize(db *model.Database) *model.Database {
	out := db.Clone()

	if d := out.DefaultRetentionAndCache; d != nil {
		d.Retention = timespan.Canonical(d.Retention)
		d.HotCache = timespan.Canonical(d.HotCache)
		if d.Retention == "" && d.HotCache == "" {
			out.DefaultRetentionAndCache = nil
		}
	}

	defaults := model.RetentionAndCache{
		Retention: out.DefaultRetention(),
		HotCache:  out.DefaultHotCache(),
	}

	for _, role := range out.Roles() {
		*out.RolePrincipals(role.Role) = normalizePrincipals(role.Principals)
	}

	for _, t := range out.Tables {
		normalizeTable(t, defaults)
	}

	for _, mv := range out.MaterializedViews {
		mv.Query = strings.TrimSpace(mv.Query)
		mv.Lookback = timespan.Canonical(mv.Lookback)
		mv.Kind = strings.ToLower(mv.SourceKind())
		if _, ok := out.MaterializedViews[mv.Source]; ok {
			mv.Kind = model.SourceKindMaterializedView
		}
		mv.Policies = normalizePolicies(mv.Policies, defaults)
	}

	for _, f := range out.Functions {
		f.Body = strings.TrimSpace(f.Body)
		f.Parameters = NormalizeParameters(f.Parameters)
	}

	for _, et := range out.ExternalTables {
		et.Kind = strings.ToLower(et.ExternalKind())
		et.DataFormat = strings.ToLower(et.DataFormat)
	}

	for _, ce := range out.ContinuousExports {
		ce.Query = strings.TrimSpace(ce.Query)
		ce.IntervalBetweenRuns = timespan.Canonical(ce.IntervalBetweenRuns)
		ce.ForcedLatency = timespan.Canonical(ce.ForcedLatency)
	}

	for _, f := range out.Followers {
		f.HotCache = timespan.Canonical(f.HotCache)
		for k, v := range f.Tables {
			f.Tables[k] = timespan.Canonical(v)
		}
		for k, v := range f.MaterializedViews {
			f.MaterializedViews[k] = timespan.Canonical(v)
		}
	}

	return out
}

// normalizeTable folds the legacy top-level policy fields into Policies. A
// legacy value is only used when the canonical field is absent.
func normalizeTable(t *model.Table, defaults model.RetentionAndCache) {
	p := t.Policies
	if p == nil {
		p = &model.Policies{}
	}

	if p.Retention == nil {
		p.Retention = t.Retention
	}
	if p.HotCache == nil {
		p.HotCache = t.HotCache
	}
	if len(p.UpdatePolicies) == 0 {
		p.UpdatePolicies = t.UpdatePolicies
	}
	if p.RowLevelSecurity == nil {
		p.RowLevelSecurity = t.RowLevelSecurity
	}
	if !p.RestrictedViewAccess {
		p.RestrictedViewAccess = t.RestrictedViewAccess
	}

	t.Retention = nil
	t.HotCache = nil
	t.UpdatePolicies = nil
	t.RowLevelSecurity = nil
	t.RestrictedViewAccess = false

	t.Policies = normalizePolicies(p, defaults)
}

func normalizePolicies(p *model.Policies, defaults model.RetentionAndCache) *model.Policies {
	if p == nil {
		return &model.Policies{}
	}

	p.Retention = normalizeTimespan(p.Retention, defaults.Retention)
	p.HotCache = normalizeTimespan(p.HotCache, defaults.HotCache)

	if p.RowLevelSecurity != nil {
		q := strings.TrimSpace(*p.RowLevelSecurity)
		p.RowLevelSecurity = nil
		if q != "" {
			p.RowLevelSecurity = &q
		}
	}

	if len(p.UpdatePolicies) == 0 {
		p.UpdatePolicies = nil
	}
	for i := range p.UpdatePolicies {
		p.UpdatePolicies[i].Query = strings.TrimSpace(p.UpdatePolicies[i].Query)
	}

	if p.Partitioning != nil && len(p.Partitioning.PartitionKeys) == 0 {
		p.Partitioning = nil
	}

	return p
}

// normalizeTimespan canonicalises v and drops it when it matches def.
func normalizeTimespan(v *string, def string) *string {
	if v == nil {
		return nil
	}

	c := timespan.Canonical(*v)
	if c == "" || (def != "" && c == def) {
		return nil
	}
	return &c
}

func normalizePrincipals(ps []model.Principal) []model.Principal {
	if len(ps) == 0 {
		return nil
	}

	out := make([]model.Principal, 0, len(ps))
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		p.ID = strings.TrimSpace(p.ID)
		key := strings.ToLower(p.ID)
		if p.ID == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}

	model.SortPrincipals(out)
	return out
}

// NormalizeParameters renders a function parameter list in a single form so
// `(x:long, y: string)` and `x: long,y:string` compare equal.
func NormalizeParameters(params string) string {
	params = strings.TrimSpace(params)
	if strings.HasPrefix(params, "(") && strings.HasSuffix(params, ")") {
		params = strings.TrimSpace(params[1 : len(params)-1])
	}
	if params == "" {
		return ""
	}

	var parts []string
	depth := 0
	start := 0
	for i, r := range params {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, params[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, params[start:])

	for i, p := range parts {
		name, typ, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			parts[i] = strings.TrimSpace(p)
			continue
		}
		parts[i] = strings.TrimSpace(name) + ":" + strings.TrimSpace(typ)
	}

	return strings.Join(parts, ", ")
}
