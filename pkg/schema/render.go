package schema

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pseudomuto/kustokeeper/pkg/compare"
)

// renderChange builds the Markdown section for c from the field pairs of the
// entity. Unchanged single-line fields are shown plain, changed ones as
// removed/added lines and multi-line values as a unified diff.
func renderChange(c *Change, fields []compare.Difference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s %s `%s`\n\n", c.Operation, c.Entity, c.Name)

	if c.Operation == OperationDelete {
		b.WriteString("~~deleted~~\n\n")
		writeScripts(&b, c.Scripts)
		return b.String()
	}

	var lines []string
	var blocks []compare.Difference
	for _, f := range fields {
		switch {
		case f.Old == "" && f.New == "":
			continue
		case isMultiline(f):
			if f.Changed() {
				blocks = append(blocks, f)
			}
		case !f.Changed():
			lines = append(lines, "  "+f.Name+": "+f.New)
		default:
			if f.Old != "" {
				lines = append(lines, "- "+f.Name+": "+f.Old)
			}
			if f.New != "" {
				lines = append(lines, "+ "+f.Name+": "+f.New)
			} else {
				lines = append(lines, "+ "+f.Name+": (removed)")
			}
		}
	}

	if len(lines) > 0 {
		b.WriteString("```diff\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n```\n\n")
	}

	for _, f := range blocks {
		fmt.Fprintf(&b, "**%s**\n\n```diff\n%s```\n\n", f.Name, unifiedDiff(f.Old, f.New))
	}

	if !c.Valid() {
		b.WriteString("> **Warning:** this change cannot be applied without data loss and will be skipped.\n\n")
	}

	writeScripts(&b, c.Scripts)
	return b.String()
}

func isMultiline(d compare.Difference) bool {
	return strings.Contains(d.Old, "\n") || strings.Contains(d.New, "\n")
}

func unifiedDiff(old, new string) string {
	diff := difflib.UnifiedDiff{
		A:        splitLines(old),
		B:        splitLines(new),
		FromFile: "observed",
		ToFile:   "desired",
		Context:  3,
	}

	// Writing to a strings.Builder cannot fail.
	text, _ := difflib.GetUnifiedDiffString(diff)
	return text
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}

func writeScripts(b *strings.Builder, scripts []Script) {
	if len(scripts) == 0 {
		return
	}

	b.WriteString("```kql\n")
	for i, s := range scripts {
		if i > 0 {
			b.WriteString("\n")
		}
		if s.IsAsync {
			b.WriteString("// async\n")
		}
		if !s.IsValid {
			b.WriteString("// invalid: not applied\n")
		}
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}
