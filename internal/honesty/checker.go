// Package honesty enforces the output invariants: never hide debate, never
// overstate certainty. It is a pure validator — it reports violations but
// never mutates the assessment or suppresses output, so callers and tests
// can assert the system cannot silently misrepresent uncertainty.
package honesty

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// overclaimTerms is the fixed denylist of certainty vocabulary. Rendered
// output may only use these under strong consensus. Matching is on whole
// words so "disproves" or "approves" never trips the "proves" entry.
var overclaimTerms = []string{
	"proves",
	"definitely",
	"certainly",
	"absolutely",
	"undoubtedly",
	"conclusively",
	"irrefutably",
	"without doubt",
}

var overclaimPatterns = compileTerms(overclaimTerms)

func compileTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return patterns
}

// Checker runs the four structural output checks.
type Checker struct{}

// NewChecker creates a checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check validates the rendered output against the assessment. All four
// checks must pass for IsHonest to be true; each failure is reported
// independently.
func (c *Checker) Check(assessment model.ConsensusAssessment, rendered model.Rendered) model.HonestyReport {
	report := model.HonestyReport{IsHonest: true}

	// (a) Debate must be shown when the claim is debated.
	if assessment.Level == model.LevelActiveDebate && strings.TrimSpace(rendered.DebateSection) == "" {
		violate(&report, "active_debate verdict rendered without a debate section")
	}

	// (b) No certainty vocabulary outside strong consensus.
	if !assessment.Level.AllowsCertaintyLanguage() {
		for i, term := range overclaimTerms {
			if overclaimPatterns[i].MatchString(rendered.Framing) || overclaimPatterns[i].MatchString(rendered.Explanation) {
				violate(&report, fmt.Sprintf("overclaiming language %q used at level %s", term, assessment.Level))
			}
		}
	}

	// (c) Uncertain verdicts must carry explicit warnings.
	if assessment.Level.RequiresUncertaintyLanguage() && len(rendered.Warnings) == 0 {
		violate(&report, fmt.Sprintf("level %s rendered without uncertainty warnings", assessment.Level))
	}

	// (d) Values questions must show the values framing.
	if assessment.Level == model.LevelValuesQuestion && strings.TrimSpace(rendered.ValuesSection) == "" {
		violate(&report, "values_question verdict rendered without a values section")
	}

	// Inconsistent level-gated fields are a construction bug upstream;
	// surfaced as a warning since the renderer may still be honest.
	if !assessment.Consistent() {
		report.Warnings = append(report.Warnings, "assessment carries level-gated fields inconsistent with its level")
	}

	return report
}

func violate(r *model.HonestyReport, msg string) {
	r.IsHonest = false
	r.Violations = append(r.Violations, msg)
}
