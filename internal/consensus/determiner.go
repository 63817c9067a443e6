// Package consensus classifies a claim's tiered, direction-labeled evidence
// into one of seven consensus levels, with confidence, debate positions,
// emerging-trend summaries and caveats.
package consensus

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/rmedved/concord/internal/model"
)

// Determiner runs the consensus decision tree under an injectable policy.
type Determiner struct {
	thresholds model.Thresholds
	domains    map[string]model.DomainProfile
	now        func() time.Time
}

// NewDeterminer creates a determiner with the given policy and domain table.
func NewDeterminer(thresholds model.Thresholds, domains map[string]model.DomainProfile) *Determiner {
	if thresholds == (model.Thresholds{}) {
		thresholds = model.DefaultThresholds()
	}
	if domains == nil {
		domains = model.DefaultConfig().Domains
	}
	return &Determiner{
		thresholds: thresholds,
		domains:    domains,
		now:        time.Now,
	}
}

// SetClock overrides the clock used for recency checks (tests).
func (d *Determiner) SetClock(now func() time.Time) {
	d.now = now
}

// Determine classifies the claim into a consensus level. The decision tree
// short-circuits in order:
//
//  1. Values/aesthetic/unfalsifiable claims are values questions,
//     unconditionally. Evidence volume cannot make them empirical.
//  2. Empirical claims flagged unverifiable upstream are methodologically
//     blocked: the question is empirical but cannot be studied directly.
//  3. Too few tier-1/2 studies means the field is either emerging (small N,
//     all recent) or simply understudied. Low-tier chatter never counts
//     toward "enough research exists".
//  4. The weighted support ratio over quality evidence picks strong or
//     moderate consensus, symmetrically: strong agreement against a claim
//     is still strong consensus, with inverted framing.
//  5. A near-even split in a brand-new field is emerging research, not an
//     entrenched debate; otherwise the claim is actively debated.
func (d *Determiner) Determine(claim model.Claim, evidence []model.EvidenceItem) model.ConsensusLevel {
	if claim.Type.IsValuesQuestion() {
		return model.LevelValuesQuestion
	}
	if !claim.IsVerifiable {
		return model.LevelMethodologicallyBlocked
	}

	quality := qualityEvidence(evidence)
	if len(quality) < d.thresholds.MinimumQualityStudies {
		if len(quality) >= 1 && d.isEmerging(evidence) {
			return model.LevelEmergingResearch
		}
		return model.LevelInsufficientResearch
	}

	ratio := weightedSupportRatio(quality)
	strong := d.thresholds.StrongConsensusRatio
	moderate := d.thresholds.ModerateConsensusRatio
	if ratio >= strong || ratio <= 1-strong {
		return model.LevelStrongConsensus
	}
	if ratio >= moderate || ratio <= 1-moderate {
		return model.LevelModerateConsensus
	}

	if d.isEmerging(evidence) {
		return model.LevelEmergingResearch
	}
	return model.LevelActiveDebate
}

// Assess produces the full immutable assessment for one claim.
func (d *Determiner) Assess(claim model.Claim, evidence []model.EvidenceItem) model.ConsensusAssessment {
	level := d.Determine(claim, evidence)
	quality := qualityEvidence(evidence)
	basis := buildBasis(evidence)
	summary := summarize(evidence, quality)

	a := model.ConsensusAssessment{
		ClaimID:    claim.ID,
		Level:      level,
		Confidence: d.confidence(level, basis, summary),
		Basis:      basis,
		Evidence:   summary,
	}

	switch level {
	case model.LevelActiveDebate:
		a.Positions = d.buildPositions(quality)
	case model.LevelEmergingResearch:
		a.Trends = d.buildTrends(evidence)
	}

	a.Framing = framing(level, summary.SupportRatio)
	a.Explanation = d.explain(claim, level, basis, summary)
	a.Caveats = d.caveats(claim.Domain, level)

	return a
}

// confidence assigns the confidence level for a verdict.
func (d *Determiner) confidence(level model.ConsensusLevel, basis model.ConsensusBasis, summary model.EvidenceSummary) model.ConfidenceLevel {
	switch level {
	case model.LevelValuesQuestion:
		// Certainty about *being* a values question, not about any answer.
		return model.ConfidenceHigh
	case model.LevelStrongConsensus:
		if len(basis.MetaAnalyses) > 0 || len(basis.SystematicReviews) > 0 || basis.TotalQualityStudies >= 10 {
			return model.ConfidenceHigh
		}
		return model.ConfidenceMedium
	case model.LevelModerateConsensus:
		if basis.TotalQualityStudies >= 10 {
			return model.ConfidenceMedium
		}
		return model.ConfidenceLow
	case model.LevelActiveDebate:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// isEmerging distinguishes "small N, all very recent" (nascent field) from
// "small N, old and stagnant" (understudied). These demand different
// caveats.
func (d *Determiner) isEmerging(evidence []model.EvidenceItem) bool {
	if len(evidence) == 0 || len(evidence) >= 10 {
		return false
	}
	cutoff := d.now().Year() - d.thresholds.EmergingResearchYears
	recent := 0
	for _, e := range evidence {
		if e.Citation.Year >= cutoff && e.Citation.Year > 0 {
			recent++
		}
	}
	return float64(recent)/float64(len(evidence)) >= 0.7
}

// buildPositions summarizes the two sides of a contested claim. The
// disagreement bases are structural, not claim-specific: claim-specific
// reasoning is not derivable from tier and direction labels alone.
func (d *Determiner) buildPositions(quality []model.EvidenceItem) *model.DebatePositions {
	supporting := filterDirection(quality, model.DirectionSupports)
	opposing := filterDirection(quality, model.DirectionOpposes)

	return &model.DebatePositions{
		Supporting: buildPosition("Evidence supporting the claim", supporting),
		Opposing:   buildPosition("Evidence contradicting the claim", opposing),
		DisagreementBases: []string{
			"Studies use differing methodologies",
			"Studies define and measure outcomes differently",
			"Researchers interpret the same data differently",
		},
	}
}

func buildPosition(summary string, items []model.EvidenceItem) model.DebatePosition {
	pos := model.DebatePosition{
		Summary:  fmt.Sprintf("%s (%d studies)", summary, len(items)),
		Strength: "weak",
	}
	if len(items) >= 5 {
		pos.Strength = "moderate"
	}
	for i, item := range items {
		if i >= 3 {
			break
		}
		pos.Citations = append(pos.Citations, item.Citation)
		if item.KeyFinding != "" {
			pos.KeyFindings = append(pos.KeyFindings, item.KeyFinding)
		}
	}
	return pos
}

// buildTrends summarizes recent evidence for a nascent field, with a
// direction derived from the unweighted support ratio of recent items.
func (d *Determiner) buildTrends(evidence []model.EvidenceItem) *model.EmergingTrends {
	cutoff := d.now().Year() - d.thresholds.EmergingResearchYears
	var recent []model.EvidenceItem
	var years []float64
	for _, e := range evidence {
		if e.Citation.Year >= cutoff && e.Citation.Year > 0 {
			recent = append(recent, e)
			years = append(years, float64(e.Citation.Year))
		}
	}

	supports, opposes := 0, 0
	for _, e := range recent {
		switch e.Direction {
		case model.DirectionSupports:
			supports++
		case model.DirectionOpposes:
			opposes++
		}
	}

	direction := "mixed"
	if supports+opposes > 0 {
		r := float64(supports) / float64(supports+opposes)
		if r >= 0.6 {
			direction = "supports"
		} else if r <= 0.4 {
			direction = "opposes"
		}
	}

	trends := &model.EmergingTrends{
		RecentStudies: len(recent),
		Direction:     direction,
		Summary: fmt.Sprintf("%d studies in the last %d years; early results lean %s",
			len(recent), d.thresholds.EmergingResearchYears, direction),
	}
	if median, err := stats.Median(years); err == nil {
		trends.MedianYear = int(median)
	}
	return trends
}

func (d *Determiner) explain(claim model.Claim, level model.ConsensusLevel, basis model.ConsensusBasis, summary model.EvidenceSummary) string {
	switch level {
	case model.LevelValuesQuestion:
		return fmt.Sprintf("The claim %q is a %s question. Evidence describes the world; it cannot settle what people should value.",
			claim.Text, claim.Type)
	case model.LevelMethodologicallyBlocked:
		return fmt.Sprintf("The claim %q is empirical but cannot currently be studied directly, so only indirect evidence exists.", claim.Text)
	default:
		return fmt.Sprintf("Examined %d sources, of which %d were quality studies (tier 1-2). %d support, %d oppose, %d neutral; weighted support ratio %.2f.",
			basis.TotalStudiesExamined, basis.TotalQualityStudies,
			summary.Supporting, summary.Opposing, summary.Neutral, summary.SupportRatio)
	}
}

// caveats layers domain-keyed caveats on top of the level-specific ones.
// Data-driven text assembly, not branching logic.
func (d *Determiner) caveats(domain string, level model.ConsensusLevel) []string {
	var out []string
	out = append(out, levelCaveats[level]...)
	if profile, ok := d.domains[domain]; ok {
		out = append(out, profile.Caveats...)
	}
	return out
}

// qualityEvidence keeps tier 1 and 2 items, in input order.
func qualityEvidence(evidence []model.EvidenceItem) []model.EvidenceItem {
	var out []model.EvidenceItem
	for _, e := range evidence {
		if e.Tier.IsQuality() {
			out = append(out, e)
		}
	}
	return out
}

// weightedSupportRatio computes the tier-weighted fraction of directional
// evidence favoring the claim. Neutral and mixed items carry no directional
// weight. Returns 0.5 when no directional weight exists.
func weightedSupportRatio(evidence []model.EvidenceItem) float64 {
	var supports, directional float64
	for _, e := range evidence {
		w := e.Tier.Weight()
		switch e.Direction {
		case model.DirectionSupports:
			supports += w
			directional += w
		case model.DirectionOpposes:
			directional += w
		}
	}
	if directional == 0 {
		return 0.5
	}
	return supports / directional
}

func buildBasis(evidence []model.EvidenceItem) model.ConsensusBasis {
	basis := model.ConsensusBasis{
		TotalStudiesExamined: len(evidence),
	}
	for _, e := range evidence {
		if e.Tier.IsQuality() {
			basis.TotalQualityStudies++
		}
		switch e.Category {
		case model.CategoryMetaAnalysis:
			basis.MetaAnalyses = append(basis.MetaAnalyses, e.Citation)
		case model.CategorySystematicReview:
			basis.SystematicReviews = append(basis.SystematicReviews, e.Citation)
		case model.CategoryMajorReport:
			basis.MajorReports = append(basis.MajorReports, e.Citation)
		case model.CategoryPeerReviewed, model.CategoryRCT:
			basis.PeerReviewed = append(basis.PeerReviewed, e.Citation)
		}
	}
	return basis
}

func summarize(all, quality []model.EvidenceItem) model.EvidenceSummary {
	summary := model.EvidenceSummary{
		SupportRatio: weightedSupportRatio(quality),
	}
	for _, e := range all {
		switch e.Direction {
		case model.DirectionSupports:
			summary.Supporting++
		case model.DirectionOpposes:
			summary.Opposing++
		default:
			summary.Neutral++
		}
	}
	return summary
}

func filterDirection(evidence []model.EvidenceItem, dir model.Direction) []model.EvidenceItem {
	var out []model.EvidenceItem
	for _, e := range evidence {
		if e.Direction == dir {
			out = append(out, e)
		}
	}
	// Strongest evidence first in the position listing.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}
