package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(rep *model.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the full human-readable report.
func (r *Renderer) RenderMarkdown(rep *model.Report, path string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Consensus Report: %s\n\n", rep.Subject)
	if rep.SourceURL != "" {
		fmt.Fprintf(&sb, "Source: %s\n\n", rep.SourceURL)
	}
	fmt.Fprintf(&sb, "Analyzed: %s\n\n", rep.FetchedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&sb, "## Summary\n\n")
	fmt.Fprintf(&sb, "- Claims examined: %d\n", rep.Aggregates.Total)
	fmt.Fprintf(&sb, "- Values questions: %d\n", rep.Aggregates.ValuesQuestions)
	fmt.Fprintf(&sb, "- Active debate present: %v\n", rep.Aggregates.HasActiveDebate)
	for _, level := range sortedKeys(rep.Aggregates.ByLevel) {
		fmt.Fprintf(&sb, "- %s: %d\n", strings.ReplaceAll(level, "_", " "), rep.Aggregates.ByLevel[level])
	}
	sb.WriteString("\n")

	for i, result := range rep.Results {
		fmt.Fprintf(&sb, "## Claim %d: %s\n\n", i+1, result.Claim.Text)
		fmt.Fprintf(&sb, "**Verdict:** %s (confidence: %s)\n\n",
			strings.ReplaceAll(string(result.Assessment.Level), "_", " "), result.Assessment.Confidence)
		fmt.Fprintf(&sb, "%s\n\n", result.Rendered.Framing)
		fmt.Fprintf(&sb, "%s\n\n", result.Rendered.Explanation)

		if result.Rendered.DebateSection != "" {
			sb.WriteString(result.Rendered.DebateSection)
			sb.WriteString("\n")
		}
		if result.Rendered.ValuesSection != "" {
			fmt.Fprintf(&sb, "> %s\n\n", result.Rendered.ValuesSection)
		}
		for _, w := range result.Rendered.Warnings {
			fmt.Fprintf(&sb, "⚠️ %s\n\n", w)
		}
		if result.SourceCheck != nil && result.SourceCheck.Disqualified() {
			fmt.Fprintf(&sb, "Note: the claim's source (%s) is not an independent expert: %s.\n\n",
				result.SourceCheck.Person.Name, result.SourceCheck.Reason)
		}

		if len(result.Evidence) > 0 {
			fmt.Fprintf(&sb, "### Evidence (%d quality of %d examined)\n\n",
				result.Assessment.Basis.TotalQualityStudies, result.Assessment.Basis.TotalStudiesExamined)
			for _, e := range result.Evidence {
				if !e.Tier.IsQuality() {
					continue
				}
				fmt.Fprintf(&sb, "- [%s] %s (%s)\n", e.Tier, e.Citation.Title, e.Direction)
			}
			sb.WriteString("\n")
		}

		if !result.Honesty.IsHonest {
			fmt.Fprintf(&sb, "**Output check failed:** %s\n\n", strings.Join(result.Honesty.Violations, "; "))
		}
	}

	if len(rep.Errors) > 0 {
		sb.WriteString("## Failed claims\n\n")
		ids := make([]string, 0, len(rep.Errors))
		for id := range rep.Errors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&sb, "- %s: %s\n", id, rep.Errors[id])
		}
		sb.WriteString("\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString("Concord reports scientific consensus as it stands; it does not decide what is true.\n")
		sb.WriteString("Debate is never hidden, certainty is never overstated.\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a terse stdout summary.
func (r *Renderer) RenderSummary(rep *model.Report) {
	fmt.Printf("\n%s\n", rep.Subject)
	fmt.Printf("Claims: %d  Values questions: %d  Mean support ratio: %.2f\n",
		rep.Aggregates.Total, rep.Aggregates.ValuesQuestions, rep.Aggregates.MeanSupportRatio)

	for _, level := range sortedKeys(rep.Aggregates.ByLevel) {
		fmt.Printf("  %-26s %d\n", level, rep.Aggregates.ByLevel[level])
	}
	if len(rep.Errors) > 0 {
		fmt.Printf("Failed claims: %d\n", len(rep.Errors))
	}
	if rep.Budget != nil && rep.Budget.Calls > 0 {
		fmt.Printf("External calls: %d (est. $%.4f)\n", rep.Budget.Calls, rep.Budget.CostUSD)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
