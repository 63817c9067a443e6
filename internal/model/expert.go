package model

// PersonMention is a bag of free-text attributes describing a cited person.
// All fields come straight from noisy extraction; any may be empty.
type PersonMention struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Credentials string `json:"credentials,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Role        string `json:"role,omitempty"`
}

// DisqualifierReason identifies the first matched absolute disqualifier.
type DisqualifierReason string

const (
	ReasonArticleSubject        DisqualifierReason = "article_subject"
	ReasonPolitician            DisqualifierReason = "politician"
	ReasonLobbyist              DisqualifierReason = "lobbyist"
	ReasonAdvocate              DisqualifierReason = "advocate"
	ReasonCorporateSpokesperson DisqualifierReason = "corporate_spokesperson"
)

// ExpertValidationResult is the outcome of validating one person mention.
// Invariant: if any disqualifier is true, IsValidExpert is false regardless
// of positive qualification.
type ExpertValidationResult struct {
	Person PersonMention `json:"person"`

	// Absolute disqualifiers, evaluated before any scoring.
	IsArticleSubject        bool `json:"is_article_subject"`
	IsPolitician            bool `json:"is_politician"`
	IsLobbyist              bool `json:"is_lobbyist"`
	IsAdvocate              bool `json:"is_advocate"`
	IsCorporateSpokesperson bool `json:"is_corporate_spokesperson"`

	// Positive qualification signals.
	HasRelevantDegree       bool `json:"has_relevant_degree"`
	IsAtResearchInstitution bool `json:"is_at_research_institution"`
	HasRelevantPublications bool `json:"has_relevant_publications"` // Heuristic proxy unless a real lookup is injected
	HasAcademicTitle        bool `json:"has_academic_title"`

	IsValidExpert bool    `json:"is_valid_expert"`
	Confidence    float64 `json:"confidence"` // [0,1], secondary quality signal only
	Reason        string  `json:"reason"`     // Human-readable explanation
}

// Disqualified reports whether any absolute disqualifier matched.
func (r ExpertValidationResult) Disqualified() bool {
	return r.IsArticleSubject || r.IsPolitician || r.IsLobbyist ||
		r.IsAdvocate || r.IsCorporateSpokesperson
}

// ExpertBatchResult partitions a batch of mentions into valid experts and
// excluded persons, preserving per-person input order within each slice.
type ExpertBatchResult struct {
	Experts  []ExpertValidationResult `json:"experts"`
	Excluded []ExpertValidationResult `json:"excluded"`
}
