package model

import "time"

// Report represents the complete Concord adjudication report for one article.
type Report struct {
	Subject   string    `json:"subject"`
	SourceURL string    `json:"source_url,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	FetchMeta FetchMeta `json:"fetch_meta,omitempty"`

	Subjects []string      `json:"article_subjects,omitempty"` // People the article is about
	Results  []ClaimResult `json:"results"`

	// Errors records per-claim failures keyed by claim id. A failed claim
	// never aborts its siblings.
	Errors map[string]string `json:"errors,omitempty"`

	Aggregates Aggregates      `json:"aggregates"`
	Principles Principles      `json:"principles"`
	Budget     *BudgetSnapshot `json:"budget,omitempty"`
}

// ClaimResult bundles everything produced for a single claim.
type ClaimResult struct {
	Claim       Claim                   `json:"claim"`
	Evidence    []EvidenceItem          `json:"evidence"`
	SourceCheck *ExpertValidationResult `json:"source_check,omitempty"` // Validation of the claim's own source
	Assessment  ConsensusAssessment     `json:"assessment"`
	Rendered    Rendered                `json:"rendered"`
	Honesty     HonestyReport           `json:"honesty"`
}

// FetchMeta contains HTTP metadata from fetching the article
type FetchMeta struct {
	StatusCode   int    `json:"status_code,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// Aggregates summarizes the batch across claims.
type Aggregates struct {
	Total            int            `json:"total"`
	ByType           map[string]int `json:"by_type"`
	ByDomain         map[string]int `json:"by_domain"`
	ByLevel          map[string]int `json:"by_level"`
	ValuesQuestions  int            `json:"values_questions"`
	HasActiveDebate  bool           `json:"has_active_debate"`
	MeanSupportRatio float64        `json:"mean_support_ratio"`
}

// Rendered is the structural output the renderer produced for one
// assessment. The honesty enforcer inspects presence/absence of sections
// and text content; it does not render anything itself.
type Rendered struct {
	Framing       string   `json:"framing"`
	Explanation   string   `json:"explanation"`
	DebateSection string   `json:"debate_section,omitempty"`
	ValuesSection string   `json:"values_section,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Caveats       []string `json:"caveats,omitempty"`
}

// HonestyReport is the structured result of the output invariant checks.
// Violations are returned, never thrown: callers decide whether to log,
// regenerate, or surface them.
type HonestyReport struct {
	IsHonest   bool     `json:"is_honest"`
	Violations []string `json:"violations,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// BudgetSnapshot is a point-in-time view of external-call spend.
type BudgetSnapshot struct {
	Calls     int     `json:"calls"`
	CostUSD   float64 `json:"cost_usd"`
	LimitUSD  float64 `json:"limit_usd,omitempty"`
	Exhausted bool    `json:"exhausted"`
}

// Principles documents the honesty guarantees the report was built under
type Principles struct {
	NeverHideDebate bool `json:"never_hide_debate"`
	NeverOverstate  bool `json:"never_overstate_certainty"`
	Transparent     bool `json:"transparent"`
}

// DefaultPrinciples returns the standard Concord principles
func DefaultPrinciples() Principles {
	return Principles{
		NeverHideDebate: true,
		NeverOverstate:  true,
		Transparent:     true,
	}
}
