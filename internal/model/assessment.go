package model

// ConsensusLevel is one of the 7 terminal classifications of the state of
// expert agreement on a claim.
type ConsensusLevel string

const (
	LevelStrongConsensus         ConsensusLevel = "strong_consensus"
	LevelModerateConsensus       ConsensusLevel = "moderate_consensus"
	LevelActiveDebate            ConsensusLevel = "active_debate"
	LevelEmergingResearch        ConsensusLevel = "emerging_research"
	LevelInsufficientResearch    ConsensusLevel = "insufficient_research"
	LevelValuesQuestion          ConsensusLevel = "values_question"
	LevelMethodologicallyBlocked ConsensusLevel = "methodologically_blocked"
)

// AllowsCertaintyLanguage reports whether rendered output for this level may
// use definitive vocabulary. Only strong consensus earns that.
func (l ConsensusLevel) AllowsCertaintyLanguage() bool {
	return l == LevelStrongConsensus
}

// RequiresUncertaintyLanguage reports whether rendered output must carry
// explicit uncertainty warnings.
func (l ConsensusLevel) RequiresUncertaintyLanguage() bool {
	switch l {
	case LevelActiveDebate, LevelEmergingResearch, LevelInsufficientResearch, LevelMethodologicallyBlocked:
		return true
	}
	return false
}

// ConfidenceLevel expresses how sure the determiner is about the level.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConsensusBasis itemizes the evidence the verdict rests on, split by
// category so the basis is auditable.
type ConsensusBasis struct {
	MetaAnalyses      []Citation `json:"meta_analyses,omitempty"`
	SystematicReviews []Citation `json:"systematic_reviews,omitempty"`
	MajorReports      []Citation `json:"major_reports,omitempty"`
	PeerReviewed      []Citation `json:"peer_reviewed,omitempty"`

	TotalQualityStudies  int `json:"total_quality_studies"`  // Tier 1 + 2 items
	TotalStudiesExamined int `json:"total_studies_examined"` // All items
}

// EvidenceSummary aggregates directional counts and the weighted ratio.
type EvidenceSummary struct {
	Supporting   int     `json:"supporting"`
	Opposing     int     `json:"opposing"`
	Neutral      int     `json:"neutral"`
	SupportRatio float64 `json:"support_ratio"` // Weighted, in [0,1]; 0.5 when no directional weight
}

// DebatePosition summarizes one side of a contested claim.
type DebatePosition struct {
	Summary     string     `json:"summary"`
	Citations   []Citation `json:"citations,omitempty"` // Top 3
	KeyFindings []string   `json:"key_findings,omitempty"`
	Strength    string     `json:"strength"` // "moderate" or "weak"
}

// DebatePositions holds the two opposing sides. Present iff the level is
// active_debate.
type DebatePositions struct {
	Supporting        DebatePosition `json:"supporting"`
	Opposing          DebatePosition `json:"opposing"`
	DisagreementBases []string       `json:"disagreement_bases"` // Structural, not claim-specific
}

// EmergingTrends summarizes recent evidence for a nascent field. Present iff
// the level is emerging_research.
type EmergingTrends struct {
	RecentStudies int    `json:"recent_studies"`
	Direction     string `json:"direction"` // "supports", "opposes", "mixed"
	MedianYear    int    `json:"median_year,omitempty"`
	Summary       string `json:"summary"`
}

// ConsensusAssessment is the terminal artifact for one claim. Constructed
// once by the determiner and never mutated. Positions and Trends are
// level-gated: use the constructors below rather than building one by hand.
type ConsensusAssessment struct {
	ClaimID    string          `json:"claim_id"`
	Level      ConsensusLevel  `json:"level"`
	Confidence ConfidenceLevel `json:"confidence"`
	Basis      ConsensusBasis  `json:"basis"`
	Evidence   EvidenceSummary `json:"evidence_summary"`

	Positions *DebatePositions `json:"positions,omitempty"`       // Only when Level == active_debate
	Trends    *EmergingTrends  `json:"emerging_trends,omitempty"` // Only when Level == emerging_research

	Framing     string   `json:"framing"`
	Explanation string   `json:"explanation"`
	Caveats     []string `json:"caveats,omitempty"`
}

// Consistent verifies the level-gated field invariants.
func (a ConsensusAssessment) Consistent() bool {
	if (a.Positions != nil) != (a.Level == LevelActiveDebate) {
		return false
	}
	if (a.Trends != nil) != (a.Level == LevelEmergingResearch) {
		return false
	}
	return true
}
