// Package output renders suggestions, diffs, and cost summaries as plain
// text for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/indexpilot/indexpilot/internal/advisor"
	"github.com/indexpilot/indexpilot/internal/ai"
	"github.com/indexpilot/indexpilot/internal/algolia"
)

// Printer writes human-readable reports to w.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Suggestion prints the full suggestion with per-section explanations.
func (p *Printer) Suggestion(s *advisor.Suggestion) {
	fmt.Fprintln(p.w, "=== Suggested Index Configuration ===")
	fmt.Fprintf(p.w, "Model:        %s\n", s.Model)
	fmt.Fprintf(p.w, "Sample size:  %d records\n", s.SampleSize)
	fmt.Fprintln(p.w)

	p.section("Searchable attributes", advisor.SectionSearchable, s.SearchableAttributes, s.Explanations)
	p.section("Custom ranking", advisor.SectionRanking, s.CustomRanking, s.Explanations)
	p.section("Attributes for faceting", advisor.SectionFacets, s.AttributesForFaceting, s.Explanations)
	p.section("Sort replicas", advisor.SectionReplicas, s.SortReplicas, s.Explanations)
}

func (p *Printer) section(title string, key advisor.Section, values []string, explanations map[advisor.Section]string) {
	explanation, ran := explanations[key]
	if !ran {
		return
	}
	fmt.Fprintf(p.w, "%s:\n", title)
	if len(values) == 0 {
		fmt.Fprintln(p.w, "  (none)")
	}
	for _, v := range values {
		fmt.Fprintf(p.w, "  - %s\n", v)
	}
	if explanation != "" {
		fmt.Fprintf(p.w, "  %s\n", explanation)
	}
	fmt.Fprintln(p.w)
}

// Diff prints the live-vs-suggested settings comparison with +/- markers.
func (p *Printer) Diff(indexName string, diffs []algolia.FieldDiff) {
	fmt.Fprintf(p.w, "=== Settings Diff for %q ===\n", indexName)
	changed := false
	for _, d := range diffs {
		if d.Unchanged() {
			continue
		}
		changed = true
		fmt.Fprintf(p.w, "%s:\n", d.Field)
		for _, v := range d.Kept {
			fmt.Fprintf(p.w, "    %s\n", v)
		}
		for _, v := range d.Removed {
			fmt.Fprintf(p.w, "  - %s\n", v)
		}
		for _, v := range d.Added {
			fmt.Fprintf(p.w, "  + %s\n", v)
		}
	}
	if !changed {
		fmt.Fprintln(p.w, "No changes — live settings already match the suggestion.")
	}
}

// Cost prints the token usage and, when the model is priced, the estimated
// cost of the run.
func (p *Printer) Cost(model string, u ai.Usage) {
	line := fmt.Sprintf("Tokens: %d prompt + %d completion", u.PromptTokens, u.CompletionTokens)
	if cost, ok := ai.EstimateCost(model, u); ok {
		line += fmt.Sprintf(" (est. $%.4f)", cost)
	}
	fmt.Fprintln(p.w, line)
}

// ApplySummary prints what was written to the live index.
func (p *Printer) ApplySummary(indexName string, s *advisor.Suggestion) {
	fmt.Fprintf(p.w, "Applied settings to %q", indexName)
	if names := advisor.ReplicaIndexNames(indexName, s.SortReplicas); len(names) > 0 {
		fmt.Fprintf(p.w, " with replicas: %s", strings.Join(names, ", "))
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, "Settings apply asynchronously — they'll be active within seconds.")
}
