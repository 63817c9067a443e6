package model

import "testing"

func TestNormalizeClaim_Defaults(t *testing.T) {
	c := NormalizeClaim(Claim{Text: "  Coffee is healthy  "})

	if c.ID == "" {
		t.Error("Expected generated id")
	}
	if c.Text != "Coffee is healthy" {
		t.Errorf("Expected trimmed text, got %q", c.Text)
	}
	if c.Type != ClaimTypeEmpirical {
		t.Errorf("Expected default type empirical, got %s", c.Type)
	}
	if c.Domain != "general" {
		t.Errorf("Expected default domain general, got %s", c.Domain)
	}
}

func TestNormalizeClaim_PreservesProvidedFields(t *testing.T) {
	c := NormalizeClaim(Claim{
		ID:     "fixed-id",
		Text:   "x",
		Type:   ClaimTypeValues,
		Domain: "  Medicine ",
	})

	if c.ID != "fixed-id" {
		t.Errorf("Expected id preserved, got %s", c.ID)
	}
	if c.Type != ClaimTypeValues {
		t.Errorf("Expected type preserved, got %s", c.Type)
	}
	if c.Domain != "medicine" {
		t.Errorf("Expected lowercased trimmed domain, got %q", c.Domain)
	}
}

func TestNormalizeClaim_UnknownTypeBecomesEmpirical(t *testing.T) {
	c := NormalizeClaim(Claim{Text: "x", Type: "opinion"})
	if c.Type != ClaimTypeEmpirical {
		t.Errorf("Expected unknown type coerced to empirical, got %s", c.Type)
	}
}

func TestNormalizeClaims_UniqueIDs(t *testing.T) {
	claims := NormalizeClaims([]Claim{{Text: "a"}, {Text: "b"}})
	if claims[0].ID == claims[1].ID {
		t.Error("Expected distinct generated ids")
	}
}

func TestClaimType_IsValuesQuestion(t *testing.T) {
	cases := map[ClaimType]bool{
		ClaimTypeEmpirical:     false,
		ClaimTypeValues:        true,
		ClaimTypeAesthetic:     true,
		ClaimTypeUnfalsifiable: true,
	}
	for typ, want := range cases {
		if got := typ.IsValuesQuestion(); got != want {
			t.Errorf("%s: expected %v, got %v", typ, want, got)
		}
	}
}

func TestConsensusAssessment_Consistent(t *testing.T) {
	ok := ConsensusAssessment{Level: LevelActiveDebate, Positions: &DebatePositions{}}
	if !ok.Consistent() {
		t.Error("Debate with positions should be consistent")
	}

	bad := ConsensusAssessment{Level: LevelStrongConsensus, Positions: &DebatePositions{}}
	if bad.Consistent() {
		t.Error("Positions outside active_debate should be inconsistent")
	}

	bad = ConsensusAssessment{Level: LevelEmergingResearch}
	if bad.Consistent() {
		t.Error("Emerging research without trends should be inconsistent")
	}
}

func TestConsensusLevel_LanguageGates(t *testing.T) {
	if !LevelStrongConsensus.AllowsCertaintyLanguage() {
		t.Error("Strong consensus should allow certainty language")
	}
	for _, l := range []ConsensusLevel{LevelModerateConsensus, LevelActiveDebate, LevelValuesQuestion} {
		if l.AllowsCertaintyLanguage() {
			t.Errorf("%s should not allow certainty language", l)
		}
	}
	for _, l := range []ConsensusLevel{LevelActiveDebate, LevelEmergingResearch, LevelInsufficientResearch, LevelMethodologicallyBlocked} {
		if !l.RequiresUncertaintyLanguage() {
			t.Errorf("%s should require uncertainty language", l)
		}
	}
	if LevelStrongConsensus.RequiresUncertaintyLanguage() || LevelValuesQuestion.RequiresUncertaintyLanguage() {
		t.Error("Strong consensus and values questions do not require uncertainty warnings")
	}
}
