// Package report renders adjudication reports. The per-claim Rendered
// artifact is structural on purpose: the honesty checker asserts on section
// presence and text content, not on formatting.
package report

import (
	"fmt"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// Renderer renders assessments and article reports.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderAssessment produces the structural output for one assessment.
// Uncertainty levels always get a non-empty warnings list; debated claims
// always get a debate section; values questions always get a values
// section. The honesty checker verifies these properties independently.
func (r *Renderer) RenderAssessment(a model.ConsensusAssessment) model.Rendered {
	rendered := model.Rendered{
		Framing:     a.Framing,
		Explanation: a.Explanation,
		Caveats:     a.Caveats,
	}

	if a.Positions != nil {
		rendered.DebateSection = renderDebate(a.Positions)
	}

	if a.Level == model.LevelValuesQuestion {
		rendered.ValuesSection = "What the evidence can say: studies can describe outcomes and trade-offs. " +
			"What it cannot say: which outcome people ought to prefer. This claim falls on the second side."
	}

	if a.Level.RequiresUncertaintyLanguage() {
		rendered.Warnings = append(rendered.Warnings,
			fmt.Sprintf("The state of evidence here is %s; treat any single-study headline with caution.",
				strings.ReplaceAll(string(a.Level), "_", " ")))
		rendered.Warnings = append(rendered.Warnings, a.Caveats...)
	}

	return rendered
}

func renderDebate(p *model.DebatePositions) string {
	var sb strings.Builder
	sb.WriteString("### Where experts disagree\n\n")
	writePosition(&sb, p.Supporting)
	writePosition(&sb, p.Opposing)
	sb.WriteString("Why qualified researchers reach different conclusions:\n")
	for _, basis := range p.DisagreementBases {
		fmt.Fprintf(&sb, "- %s\n", basis)
	}
	return sb.String()
}

func writePosition(sb *strings.Builder, pos model.DebatePosition) {
	fmt.Fprintf(sb, "**%s** (strength: %s)\n", pos.Summary, pos.Strength)
	for _, c := range pos.Citations {
		if c.Year > 0 {
			fmt.Fprintf(sb, "- %s (%s, %d)\n", c.Title, c.Venue, c.Year)
		} else {
			fmt.Fprintf(sb, "- %s\n", c.Title)
		}
	}
	sb.WriteString("\n")
}
