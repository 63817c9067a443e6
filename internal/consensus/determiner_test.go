package consensus

import (
	"testing"
	"time"

	"github.com/rmedved/concord/internal/model"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	}
}

func newTestDeterminer() *Determiner {
	d := NewDeterminer(model.DefaultThresholds(), nil)
	d.SetClock(fixedClock())
	return d
}

func items(tier model.Tier, dir model.Direction, year, n int) []model.EvidenceItem {
	out := make([]model.EvidenceItem, n)
	for i := 0; i < n; i++ {
		out[i] = model.EvidenceItem{
			Citation:  model.Citation{Title: "Study", Year: year, URL: "https://example.org"},
			Tier:      tier,
			Category:  model.CategoryPeerReviewed,
			Direction: dir,
		}
	}
	return out
}

func empiricalClaim() model.Claim {
	return model.Claim{
		ID:           "c1",
		Text:         "Coffee reduces mortality",
		Type:         model.ClaimTypeEmpirical,
		Domain:       "medicine",
		IsVerifiable: true,
	}
}

func TestDeterminer_ValuesQuestionOverridesEvidence(t *testing.T) {
	d := newTestDeterminer()
	claim := empiricalClaim()
	claim.Type = model.ClaimTypeValues

	// Even overwhelming one-sided evidence cannot make a values claim empirical.
	evidence := items(model.TierSynthesis, model.DirectionSupports, 2020, 10)

	level := d.Determine(claim, evidence)
	if level != model.LevelValuesQuestion {
		t.Errorf("Expected values_question, got %s", level)
	}

	a := d.Assess(claim, evidence)
	if a.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence for values question, got %s", a.Confidence)
	}
	if a.Positions != nil || a.Trends != nil {
		t.Error("Values question must not carry positions or trends")
	}
	if !a.Consistent() {
		t.Error("Assessment should be consistent")
	}
}

func TestDeterminer_AestheticAndUnfalsifiableAreValuesQuestions(t *testing.T) {
	d := newTestDeterminer()
	for _, typ := range []model.ClaimType{model.ClaimTypeAesthetic, model.ClaimTypeUnfalsifiable} {
		claim := empiricalClaim()
		claim.Type = typ
		if level := d.Determine(claim, nil); level != model.LevelValuesQuestion {
			t.Errorf("Type %s: expected values_question, got %s", typ, level)
		}
	}
}

func TestDeterminer_MethodologicallyBlocked(t *testing.T) {
	d := newTestDeterminer()
	claim := empiricalClaim()
	claim.IsVerifiable = false

	level := d.Determine(claim, items(model.TierPeerReviewed, model.DirectionSupports, 2024, 5))
	if level != model.LevelMethodologicallyBlocked {
		t.Errorf("Expected methodologically_blocked, got %s", level)
	}

	a := d.Assess(claim, nil)
	if a.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", a.Confidence)
	}
}

func TestDeterminer_InsufficientResearch(t *testing.T) {
	d := newTestDeterminer()

	// Two quality studies, both old: understudied, not emerging.
	evidence := items(model.TierPeerReviewed, model.DirectionSupports, 2015, 2)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelInsufficientResearch {
		t.Errorf("Expected insufficient_research, got %s", level)
	}
}

func TestDeterminer_NoEvidenceIsInsufficient(t *testing.T) {
	d := newTestDeterminer()
	if level := d.Determine(empiricalClaim(), nil); level != model.LevelInsufficientResearch {
		t.Errorf("Expected insufficient_research for empty evidence, got %s", level)
	}
}

func TestDeterminer_LowTierVolumeNeverCountsAsResearch(t *testing.T) {
	d := newTestDeterminer()

	// Plenty of tier 3-5 chatter but zero quality studies.
	evidence := append(
		items(model.TierModerate, model.DirectionSupports, 2015, 8),
		items(model.TierNotEvidence, model.DirectionSupports, 2015, 8)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelInsufficientResearch {
		t.Errorf("Expected insufficient_research, got %s", level)
	}
}

func TestDeterminer_EmergingResearch(t *testing.T) {
	d := newTestDeterminer()

	// Few studies, all within the recency window.
	evidence := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2025, 2),
		items(model.TierModerate, model.DirectionSupports, 2024, 2)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelEmergingResearch {
		t.Errorf("Expected emerging_research, got %s", level)
	}

	a := d.Assess(empiricalClaim(), evidence)
	if a.Trends == nil {
		t.Fatal("Emerging research must carry trends")
	}
	if a.Trends.RecentStudies != 4 {
		t.Errorf("Expected 4 recent studies, got %d", a.Trends.RecentStudies)
	}
	if a.Trends.Direction != "supports" {
		t.Errorf("Expected direction supports, got %s", a.Trends.Direction)
	}
	if a.Trends.MedianYear == 0 {
		t.Error("Expected median year to be set")
	}
	if !a.Consistent() {
		t.Error("Assessment should be consistent")
	}
}

func TestDeterminer_TenItemsIsNotEmerging(t *testing.T) {
	d := newTestDeterminer()

	// 10 items, all recent, even split: an entrenched debate, not a nascent field.
	evidence := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2025, 5),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2025, 5)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelActiveDebate {
		t.Errorf("Expected active_debate, got %s", level)
	}
}

func TestDeterminer_StrongConsensusAtBoundary(t *testing.T) {
	d := newTestDeterminer()

	// 9 tier-1 supporting vs 1 tier-1 opposing: ratio exactly 0.90.
	evidence := append(
		items(model.TierSynthesis, model.DirectionSupports, 2015, 9),
		items(model.TierSynthesis, model.DirectionOpposes, 2015, 1)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelStrongConsensus {
		t.Errorf("Expected strong_consensus at ratio 0.90, got %s", level)
	}
}

func TestDeterminer_StrongConsensusAgainstClaim(t *testing.T) {
	d := newTestDeterminer()

	// Ratio 0.10: strong agreement the claim is wrong.
	evidence := append(
		items(model.TierSynthesis, model.DirectionSupports, 2015, 1),
		items(model.TierSynthesis, model.DirectionOpposes, 2015, 9)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelStrongConsensus {
		t.Errorf("Expected strong_consensus at ratio 0.10, got %s", level)
	}

	a := d.Assess(empiricalClaim(), evidence)
	if a.Evidence.SupportRatio > 0.11 {
		t.Errorf("Expected support ratio near 0.10, got %.2f", a.Evidence.SupportRatio)
	}
}

func TestDeterminer_ModerateConsensusJustBelowStrong(t *testing.T) {
	d := newTestDeterminer()

	// 8 supporting vs 1 opposing, tier 1: ratio 8/9 = 0.889.
	evidence := append(
		items(model.TierSynthesis, model.DirectionSupports, 2015, 8),
		items(model.TierSynthesis, model.DirectionOpposes, 2015, 1)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelModerateConsensus {
		t.Errorf("Expected moderate_consensus at ratio 0.89, got %s", level)
	}
}

func TestDeterminer_ActiveDebate(t *testing.T) {
	d := newTestDeterminer()

	// 6 vs 4, old studies: ratio 0.60, inside the debate band.
	evidence := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2015, 6),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2016, 4)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelActiveDebate {
		t.Errorf("Expected active_debate, got %s", level)
	}

	a := d.Assess(empiricalClaim(), evidence)
	if a.Positions == nil {
		t.Fatal("Active debate must carry both positions")
	}
	if a.Positions.Supporting.Strength != "moderate" {
		t.Errorf("Expected supporting strength moderate (6 studies), got %s", a.Positions.Supporting.Strength)
	}
	if a.Positions.Opposing.Strength != "weak" {
		t.Errorf("Expected opposing strength weak (4 studies), got %s", a.Positions.Opposing.Strength)
	}
	if len(a.Positions.Supporting.Citations) > 3 {
		t.Errorf("Expected at most 3 citations per position, got %d", len(a.Positions.Supporting.Citations))
	}
	if len(a.Positions.DisagreementBases) == 0 {
		t.Error("Expected disagreement bases")
	}
	if !a.Consistent() {
		t.Error("Assessment should be consistent")
	}
}

func TestDeterminer_MixedRecentFieldIsEmergingNotDebate(t *testing.T) {
	d := newTestDeterminer()

	// Near-even split but tiny and brand new: emerging, not entrenched debate.
	evidence := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2025, 2),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2025, 2)...)

	level := d.Determine(empiricalClaim(), evidence)
	if level != model.LevelEmergingResearch {
		t.Errorf("Expected emerging_research, got %s", level)
	}
}

func TestDeterminer_NeutralOnlyEvidenceDefaultsToMiddle(t *testing.T) {
	d := newTestDeterminer()

	// No directional weight at all: ratio defaults to 0.5.
	evidence := items(model.TierPeerReviewed, model.DirectionNeutral, 2015, 5)

	a := d.Assess(empiricalClaim(), evidence)
	if a.Evidence.SupportRatio != 0.5 {
		t.Errorf("Expected default ratio 0.5, got %.2f", a.Evidence.SupportRatio)
	}
	if a.Level != model.LevelActiveDebate {
		t.Errorf("Expected active_debate, got %s", a.Level)
	}
}

func TestDeterminer_ConfidenceRules(t *testing.T) {
	d := newTestDeterminer()
	claim := empiricalClaim()

	// Strong consensus with a meta-analysis: high confidence.
	withMeta := items(model.TierPeerReviewed, model.DirectionSupports, 2015, 4)
	withMeta = append(withMeta, model.EvidenceItem{
		Citation:  model.Citation{Title: "Meta-analysis of coffee studies", Year: 2018},
		Tier:      model.TierSynthesis,
		Category:  model.CategoryMetaAnalysis,
		Direction: model.DirectionSupports,
	})
	a := d.Assess(claim, withMeta)
	if a.Level != model.LevelStrongConsensus || a.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected strong/high with meta-analysis, got %s/%s", a.Level, a.Confidence)
	}

	// Strong consensus from a handful of plain studies: medium confidence.
	plain := items(model.TierPeerReviewed, model.DirectionSupports, 2015, 4)
	a = d.Assess(claim, plain)
	if a.Level != model.LevelStrongConsensus || a.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected strong/medium, got %s/%s", a.Level, a.Confidence)
	}

	// Moderate consensus with few studies: low confidence.
	few := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2015, 3),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2015, 1)...)
	a = d.Assess(claim, few)
	if a.Level != model.LevelModerateConsensus || a.Confidence != model.ConfidenceLow {
		t.Errorf("Expected moderate/low, got %s/%s", a.Level, a.Confidence)
	}

	// Moderate consensus with 10+ quality studies: medium confidence.
	many := append(
		items(model.TierPeerReviewed, model.DirectionSupports, 2015, 8),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2015, 2)...)
	a = d.Assess(claim, many)
	if a.Level != model.LevelModerateConsensus || a.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected moderate/medium, got %s/%s", a.Level, a.Confidence)
	}
}

func TestDeterminer_WeightedRatioDiscountsLowTiers(t *testing.T) {
	d := newTestDeterminer()

	// 3 tier-1 supporting (3.0) vs 1 tier-2 opposing (0.8): 3.0/3.8 = 0.789.
	evidence := append(
		items(model.TierSynthesis, model.DirectionSupports, 2015, 3),
		items(model.TierPeerReviewed, model.DirectionOpposes, 2015, 1)...)

	a := d.Assess(empiricalClaim(), evidence)
	if a.Level != model.LevelModerateConsensus {
		t.Errorf("Expected moderate_consensus, got %s", a.Level)
	}
	if a.Evidence.SupportRatio < 0.78 || a.Evidence.SupportRatio > 0.80 {
		t.Errorf("Expected ratio near 0.789, got %.3f", a.Evidence.SupportRatio)
	}
}

func TestDeterminer_DomainCaveatsAppended(t *testing.T) {
	d := newTestDeterminer()
	claim := empiricalClaim()
	claim.Domain = "nutrition"

	a := d.Assess(claim, items(model.TierPeerReviewed, model.DirectionSupports, 2015, 1))

	found := false
	for _, c := range a.Caveats {
		if c == "Industry funding is common in nutrition studies; check funding disclosures." {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected nutrition domain caveat, got %v", a.Caveats)
	}
}

func TestDeterminer_BasisCountsAndCategories(t *testing.T) {
	d := newTestDeterminer()

	evidence := []model.EvidenceItem{
		{Tier: model.TierSynthesis, Category: model.CategoryMetaAnalysis, Direction: model.DirectionSupports},
		{Tier: model.TierSynthesis, Category: model.CategorySystematicReview, Direction: model.DirectionSupports},
		{Tier: model.TierPeerReviewed, Category: model.CategoryRCT, Direction: model.DirectionSupports},
		{Tier: model.TierModerate, Category: model.CategoryPreprint, Direction: model.DirectionSupports},
		{Tier: model.TierNotEvidence, Category: model.CategoryNotEvidence, Direction: model.DirectionSupports},
	}

	a := d.Assess(empiricalClaim(), evidence)
	if a.Basis.TotalStudiesExamined != 5 {
		t.Errorf("Expected 5 examined, got %d", a.Basis.TotalStudiesExamined)
	}
	if a.Basis.TotalQualityStudies != 3 {
		t.Errorf("Expected 3 quality, got %d", a.Basis.TotalQualityStudies)
	}
	if len(a.Basis.MetaAnalyses) != 1 || len(a.Basis.SystematicReviews) != 1 || len(a.Basis.PeerReviewed) != 1 {
		t.Errorf("Unexpected basis split: %+v", a.Basis)
	}
}
