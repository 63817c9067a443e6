package honesty

import (
	"testing"

	"github.com/rmedved/concord/internal/model"
)

func TestChecker_HiddenDebateIsViolation(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{
		Level:     model.LevelActiveDebate,
		Positions: &model.DebatePositions{},
	}
	rendered := model.Rendered{
		Framing:  "Experts disagree on this claim.",
		Warnings: []string{"contested"},
	}

	report := c.Check(a, rendered)
	if report.IsHonest {
		t.Error("Expected violation when debate section is missing")
	}
	if len(report.Violations) != 1 {
		t.Errorf("Expected 1 violation, got %v", report.Violations)
	}
}

func TestChecker_DebateShownPasses(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{
		Level:     model.LevelActiveDebate,
		Positions: &model.DebatePositions{},
	}
	rendered := model.Rendered{
		Framing:       "Experts disagree on this claim.",
		DebateSection: "### Where experts disagree\n...",
		Warnings:      []string{"contested"},
	}

	if report := c.Check(a, rendered); !report.IsHonest {
		t.Errorf("Expected honest output, got %v", report.Violations)
	}
}

func TestChecker_OverclaimDenylist(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{Level: model.LevelModerateConsensus}

	for _, term := range []string{"proves", "definitely", "certainly", "absolutely", "undoubtedly", "conclusively", "irrefutably", "without doubt"} {
		rendered := model.Rendered{Framing: "This study " + term + " settles the question."}
		if report := c.Check(a, rendered); report.IsHonest {
			t.Errorf("Term %q at moderate consensus should violate", term)
		}
	}
}

func TestChecker_DenylistMatchesWholeWordsOnly(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{Level: model.LevelModerateConsensus}

	for _, framing := range []string{
		"A later trial disproves the earlier finding.",
		"The review board approves the protocol.",
	} {
		if report := c.Check(a, model.Rendered{Framing: framing}); !report.IsHonest {
			t.Errorf("Framing %q must not trip the denylist, got %v", framing, report.Violations)
		}
	}

	if report := c.Check(a, model.Rendered{Framing: "This proves the claim."}); report.IsHonest {
		t.Error("Whole-word \"proves\" must still violate")
	}
}

func TestChecker_CertaintyAllowedUnderStrongConsensus(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{Level: model.LevelStrongConsensus}
	rendered := model.Rendered{Framing: "The evidence conclusively shows the claim holds."}

	if report := c.Check(a, rendered); !report.IsHonest {
		t.Errorf("Certainty language under strong consensus should pass, got %v", report.Violations)
	}
}

func TestChecker_DenylistIsCaseInsensitiveAndChecksExplanation(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{Level: model.LevelEmergingResearch, Trends: &model.EmergingTrends{}}
	rendered := model.Rendered{
		Explanation: "Early results DEFINITELY point one way.",
		Warnings:    []string{"early research"},
	}

	if report := c.Check(a, rendered); report.IsHonest {
		t.Error("Expected violation for overclaim in explanation")
	}
}

func TestChecker_UncertaintyLevelsRequireWarnings(t *testing.T) {
	c := NewChecker()

	levels := []model.ConsensusLevel{
		model.LevelActiveDebate,
		model.LevelEmergingResearch,
		model.LevelInsufficientResearch,
		model.LevelMethodologicallyBlocked,
	}
	for _, level := range levels {
		a := model.ConsensusAssessment{Level: level}
		switch level {
		case model.LevelActiveDebate:
			a.Positions = &model.DebatePositions{}
		case model.LevelEmergingResearch:
			a.Trends = &model.EmergingTrends{}
		}

		rendered := model.Rendered{Framing: "something", DebateSection: "shown"}
		if report := c.Check(a, rendered); report.IsHonest {
			t.Errorf("Level %s without warnings should violate", level)
		}
	}
}

func TestChecker_ValuesQuestionRequiresValuesSection(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{Level: model.LevelValuesQuestion}

	report := c.Check(a, model.Rendered{Framing: "This is a values question."})
	if report.IsHonest {
		t.Error("Expected violation for missing values section")
	}

	report = c.Check(a, model.Rendered{
		Framing:       "This is a values question.",
		ValuesSection: "What evidence can and cannot say...",
	})
	if !report.IsHonest {
		t.Errorf("Expected honest output with values section, got %v", report.Violations)
	}
}

func TestChecker_MultipleViolationsReportedIndependently(t *testing.T) {
	c := NewChecker()

	a := model.ConsensusAssessment{
		Level:     model.LevelActiveDebate,
		Positions: &model.DebatePositions{},
	}
	// Missing debate section, missing warnings, and an overclaim.
	rendered := model.Rendered{Framing: "This proves the claim."}

	report := c.Check(a, rendered)
	if len(report.Violations) != 3 {
		t.Errorf("Expected 3 independent violations, got %v", report.Violations)
	}
}

func TestChecker_InconsistentGatingIsWarningNotViolation(t *testing.T) {
	c := NewChecker()

	// Positions present at strong consensus: a construction bug upstream.
	a := model.ConsensusAssessment{
		Level:     model.LevelStrongConsensus,
		Positions: &model.DebatePositions{},
	}

	report := c.Check(a, model.Rendered{Framing: "Strong agreement."})
	if !report.IsHonest {
		t.Errorf("Gating inconsistency must not fail honesty, got %v", report.Violations)
	}
	if len(report.Warnings) == 0 {
		t.Error("Expected a warning about inconsistent gating")
	}
}
