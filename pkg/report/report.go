package report

import (
	"fmt"
	"strings"

	"github.com/pseudomuto/kustokeeper/pkg/model"
	"github.com/pseudomuto/kustokeeper/pkg/schema"
)

// NoChanges is rendered for a target whose plan is empty.
const NoChanges = "No changes detected"

// Builder accumulates target sections into one document.
type Builder struct {
	sections []string
}

// Add appends a rendered section. Empty sections are ignored.
func (b *Builder) Add(section string) {
	if section = strings.TrimSpace(section); section != "" {
		b.sections = append(b.sections, section)
	}
}

// Len returns the number of sections added.
func (b *Builder) Len() int {
	return len(b.sections)
}

// String joins every section, separated by a horizontal rule.
func (b *Builder) String() string {
	if len(b.sections) == 0 {
		return ""
	}
	return strings.Join(b.sections, "\n\n---\n\n") + "\n"
}

// Markdown renders the plan of database on target.
//
// Example:
//
//	fmt.Print(report.Markdown("prod", "telemetry", schema.Plan(observed, desired, "telemetry")))
//
//	// ## prod: telemetry
//	//
//	// ### Create Table `Events`
//	// ...
func Markdown(target, database string, changes []*schema.Change) string {
	return section(fmt.Sprintf("## %s: %s", target, database), changes)
}

// Cluster renders the cluster-level plan of target.
func Cluster(target string, changes []*schema.Change) string {
	return section(fmt.Sprintf("## %s: cluster", target), changes)
}

// Valid reports whether every planned script may be applied. An empty plan
// is valid.
func Valid(changes []*schema.Change) bool {
	return schema.IsValid(changes)
}

// ClusterValid is the verdict for a cluster-level plan. Cluster plans are
// always reported valid regardless of their content.
func ClusterValid([]*schema.Change) bool {
	return true
}

// Results renders the outcome of an apply run on target as a table.
func Results(target, database string, results []*model.ExecutionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s: %s (applied)\n\n", target, database)

	if len(results) == 0 {
		b.WriteString(NoChanges + "\n")
		return b.String()
	}

	b.WriteString("| state | operation | command | reason |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n",
			r.Result,
			r.OperationID,
			cell(firstLine(r.CommandText)),
			cell(r.Reason),
		)
	}

	return b.String()
}

func section(heading string, changes []*schema.Change) string {
	var b strings.Builder
	b.WriteString(heading + "\n\n")

	if len(changes) == 0 {
		b.WriteString(NoChanges + "\n")
		return b.String()
	}

	for _, c := range changes {
		b.WriteString(c.Diff)
	}

	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if first, _, found := strings.Cut(s, "\n"); found {
		return first + " ..."
	}
	return s
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
