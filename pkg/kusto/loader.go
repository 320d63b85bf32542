package kusto

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/kustokeeper/pkg/merge"
	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/utils"
)

type (
	// Loader populates part of an observed database document.
	Loader interface {
		Name() string
		Load(ctx context.Context, db *model.Database, database string, exec Executor) error
	}

	// LoadFunc is the signature of a loader body.
	LoadFunc func(ctx context.Context, db *model.Database, database string, exec Executor) error

	loader struct {
		name string
		fn   LoadFunc
	}
)

// NewLoader wraps fn as a named Loader.
func NewLoader(name string, fn LoadFunc) Loader {
	return &loader{name: name, fn: fn}
}

func (l *loader) Name() string { return l.name }

func (l *loader) Load(ctx context.Context, db *model.Database, database string, exec Executor) error {
	return l.fn(ctx, db, database, exec)
}

// DefaultLoaders returns the loaders for every database entity kind in the
// order they must run. Policy and partitioning loaders annotate tables and
// views loaded before them and ignore unknown names.
func DefaultLoaders() []Loader {
	return []Loader{
		NewLoader("database policies", loadDatabasePolicies),
		NewLoader("tables", loadTables),
		NewLoader("table policies", loadTablePolicies),
		NewLoader("functions", loadFunctions),
		NewLoader("materialized views", loadMaterializedViews),
		NewLoader("external tables", loadExternalTables),
		NewLoader("continuous exports", loadContinuousExports),
		NewLoader("entity groups", loadEntityGroups),
		NewLoader("partitioning", loadPartitioning),
		NewLoader("principals", loadPrincipals),
	}
}

// LoadDatabase runs loaders in order against database and returns the
// normalized observed document.
//
// Example:
//
//	observed, err := kusto.LoadDatabase(ctx, "telemetry", client, kusto.DefaultLoaders()...)
//	if err != nil {
//		return err
//	}
//	changes := schema.Plan(observed, desired, "telemetry")
func LoadDatabase(ctx context.Context, database string, exec Executor, loaders ...Loader) (*model.Database, error) {
	db := model.New()
	for _, l := range loaders {
		if err := l.Load(ctx, db, database, exec); err != nil {
			return nil, errors.Wrapf(err, "failed to load %s for database %s", l.Name(), database)
		}
	}

	return merge.Normalize(db), nil
}

// fold merges overlay into db in place.
func fold(db, overlay *model.Database) {
	*db = *merge.Database(db, overlay)
}

// entityName extracts the last component of a qualified entity name such as
// `[telemetry].[Events]` or `['telemetry'].['My Table']`.
func entityName(qualified string) string {
	s := strings.TrimSpace(qualified)
	if strings.HasSuffix(s, "]") {
		if i := strings.LastIndex(s, "["); i >= 0 {
			s = s[i+1 : len(s)-1]
			if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
				s = s[1 : len(s)-1]
			}
			return s
		}
	}

	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

// parseSchema parses a CSL schema (`a:string, ['b c']:long`) into columns.
func parseSchema(schema string) *model.Columns {
	cols := model.NewColumns()
	for _, part := range splitTopLevel(schema) {
		sep := strings.Index(part, ":")
		if strings.HasPrefix(part, "['") {
			if end := strings.Index(part, "']:"); end >= 0 {
				sep = end + 2
			}
		}
		if sep < 0 {
			continue
		}
		cols.Set(utils.StripBrackets(strings.TrimSpace(part[:sep])), strings.TrimSpace(part[sep+1:]))
	}
	return cols
}

// splitTopLevel splits s on commas that are not nested in brackets or
// parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// stripBody removes the braces Kusto wraps around stored bodies.
func stripBody(body string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
		body = body[1 : len(body)-1]
	}
	return strings.TrimSpace(body)
}
