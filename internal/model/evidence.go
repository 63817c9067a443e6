package model

import "time"

// EvidenceDescriptor is the raw descriptor supplied by the retrieval layer.
// Direction is inferred upstream; the engine only classifies tier and
// aggregates.
type EvidenceDescriptor struct {
	URL              string     `json:"url"`
	Title            string     `json:"title"`
	Snippet          string     `json:"snippet,omitempty"`
	Authors          []string   `json:"authors,omitempty"`
	Venue            string     `json:"venue,omitempty"`
	PublishedDate    *time.Time `json:"published_date,omitempty"`
	SourceType       string     `json:"source_type,omitempty"` // Declared type tag, if any
	Direction        Direction  `json:"direction,omitempty"`
	IsArticleSubject bool       `json:"is_article_subject"` // Statement by the article's own subject
	VerifiedExpert   bool       `json:"verified_expert"`    // Set by the expert validator for opinion sources
}

// EvidenceItem is a tier-classified piece of evidence. Created once by the
// tier classifier, consumed read-only by the consensus determiner.
type EvidenceItem struct {
	Citation   Citation         `json:"citation"`
	Tier       Tier             `json:"tier"`
	Category   EvidenceCategory `json:"category"`
	Direction  Direction        `json:"direction"`
	KeyFinding string           `json:"key_finding,omitempty"`
}

// Citation describes the cited source.
type Citation struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Year    int      `json:"year,omitempty"`
	URL     string   `json:"url"`
	Finding string   `json:"finding,omitempty"`
}

// Tier is the ordinal quality classification of a single source (1 best).
type Tier int

const (
	TierSynthesis    Tier = 1 // Systematic reviews, meta-analyses, major reports
	TierPeerReviewed Tier = 2 // Peer-reviewed studies, RCTs
	TierModerate     Tier = 3 // Working papers, preprints, government statistics
	TierOpinion      Tier = 4 // Verified expert opinion
	TierNotEvidence  Tier = 5 // Everything else, including claimant statements
)

func (t Tier) String() string {
	switch t {
	case TierSynthesis:
		return "synthesis"
	case TierPeerReviewed:
		return "peer_reviewed"
	case TierModerate:
		return "moderate"
	case TierOpinion:
		return "opinion"
	default:
		return "not_evidence"
	}
}

// Weight returns the consensus weight for the tier. Moderate sources dilute
// rather than dominate the signal; unverified opinion barely moves it.
func (t Tier) Weight() float64 {
	switch t {
	case TierSynthesis:
		return 1.0
	case TierPeerReviewed:
		return 0.8
	case TierModerate:
		return 0.4
	case TierOpinion:
		return 0.2
	default:
		return 0.0
	}
}

// IsQuality reports whether the tier counts toward "enough research exists".
func (t Tier) IsQuality() bool {
	return t <= TierPeerReviewed
}

// EvidenceCategory classifies the study design or source kind.
type EvidenceCategory string

const (
	CategorySystematicReview EvidenceCategory = "systematic_review"
	CategoryMetaAnalysis     EvidenceCategory = "meta_analysis"
	CategoryMajorReport      EvidenceCategory = "major_report"
	CategoryPeerReviewed     EvidenceCategory = "peer_reviewed"
	CategoryRCT              EvidenceCategory = "rct"
	CategoryWorkingPaper     EvidenceCategory = "working_paper"
	CategoryPreprint         EvidenceCategory = "preprint"
	CategoryGovernmentStats  EvidenceCategory = "government_stats"
	CategoryExpertOpinion    EvidenceCategory = "expert_opinion"
	CategoryNotEvidence      EvidenceCategory = "not_evidence"
)

// Direction is the upstream-labeled stance of the evidence toward the claim.
type Direction string

const (
	DirectionSupports Direction = "supports"
	DirectionOpposes  Direction = "opposes"
	DirectionNeutral  Direction = "neutral"
	DirectionMixed    Direction = "mixed"
)

// Year returns the publication year of the descriptor, or 0 if unknown.
func (d EvidenceDescriptor) Year() int {
	if d.PublishedDate == nil {
		return 0
	}
	return d.PublishedDate.Year()
}
