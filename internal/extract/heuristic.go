package extract

import (
	"context"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// HeuristicExtractor extracts claims by keyword matching. It is the
// no-API-key fallback: claim sources are unknown and every evidence
// direction is neutral, which honestly degrades toward
// insufficient_research rather than inventing stances.
type HeuristicExtractor struct {
	keywords []string
}

// NewHeuristicExtractor creates a heuristic extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{
		keywords: []string{
			"causes", "caused by", "leads to", "increases", "decreases",
			"prevents", "reduces the risk", "is linked to", "is associated with",
			"according to", "studies show", "research shows", "evidence suggests",
			"scientists say", "experts say", "proven to", "found that",
		},
	}
}

// Name returns the extractor name
func (e *HeuristicExtractor) Name() string { return "heuristic" }

// ExtractClaims extracts keyword-matched sentences as empirical claims.
func (e *HeuristicExtractor) ExtractClaims(_ context.Context, articleText string) ([]model.Claim, error) {
	sentences := splitSentences(articleText)

	var claims []model.Claim
	seen := make(map[string]bool)
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, keyword := range e.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			key := strings.TrimSpace(lower)
			if !seen[key] {
				seen[key] = true
				claims = append(claims, model.NormalizeClaim(model.Claim{
					Text:         strings.TrimSpace(sentence),
					Type:         model.ClaimTypeEmpirical,
					IsVerifiable: true,
					Sentence:     i,
				}))
			}
			break // Only match once per sentence
		}
	}

	return claims, nil
}

// LabelDirections labels every descriptor neutral: stance inference needs
// language understanding the heuristic does not have.
func (e *HeuristicExtractor) LabelDirections(_ context.Context, _ model.Claim, descriptors []model.EvidenceDescriptor) ([]model.EvidenceDescriptor, error) {
	out := make([]model.EvidenceDescriptor, len(descriptors))
	for i, d := range descriptors {
		d.Direction = model.DirectionNeutral
		out[i] = d
	}
	return out, nil
}
