// Package extract turns article text into structured claims and labels
// evidence direction. It is an external collaborator: the adjudication
// engine treats claim type, domain and direction as already decided.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmedved/concord/internal/budget"
	"github.com/rmedved/concord/internal/model"
)

// Extractor is the claim-extraction and direction-labeling collaborator.
type Extractor interface {
	// Name returns the extractor name.
	Name() string

	// ExtractClaims extracts structured claims from article text.
	ExtractClaims(ctx context.Context, articleText string) ([]model.Claim, error)

	// LabelDirections labels each descriptor's stance toward the claim.
	// Implementations must return the same descriptors, with Direction set.
	LabelDirections(ctx context.Context, claim model.Claim, descriptors []model.EvidenceDescriptor) ([]model.EvidenceDescriptor, error)
}

// NewExtractor creates an extractor for the configured provider. An empty
// provider selects the keyword heuristic, which needs no API key and labels
// every direction neutral.
func NewExtractor(cfg model.LLMConfig, counter *budget.Counter) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIExtractor(cfg, counter)
	case "":
		return NewHeuristicExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider: %s (supported: openai)", cfg.Provider)
	}
}

// claimWire is the JSON shape the LLM returns for one claim. IsVerifiable
// is a pointer so an omitted field defaults to true instead of false.
type claimWire struct {
	Text   string `json:"text"`
	Type   string `json:"type"`
	Domain string `json:"domain"`
	Source struct {
		Name        string `json:"name"`
		Role        string `json:"role"`
		Credentials string `json:"credentials"`
		Affiliation string `json:"affiliation"`
	} `json:"source"`
	IsVerifiable *bool `json:"is_verifiable"`
}

func (w claimWire) toClaim() model.Claim {
	verifiable := true
	if w.IsVerifiable != nil {
		verifiable = *w.IsVerifiable
	}
	return model.NormalizeClaim(model.Claim{
		Text:   w.Text,
		Type:   model.ClaimType(strings.ToLower(w.Type)),
		Domain: w.Domain,
		Source: model.ClaimSource{
			Name:        w.Source.Name,
			Role:        w.Source.Role,
			Credentials: w.Source.Credentials,
			Affiliation: w.Source.Affiliation,
		},
		IsVerifiable: verifiable,
	})
}
