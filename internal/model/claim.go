package model

import (
	"strings"

	"github.com/google/uuid"
)

// Claim represents a factual assertion extracted from a news article.
// Type and Domain are decided by the upstream extractor; the adjudication
// engine never re-derives them.
type Claim struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	Type         ClaimType   `json:"type"`
	Domain       string      `json:"domain"`             // e.g. "medicine", "climate", "economics"
	Source       ClaimSource `json:"source"`             // Who is advancing the claim
	IsVerifiable bool        `json:"is_verifiable"`      // Whether the claim can be studied directly
	Sentence     int         `json:"sentence,omitempty"` // Sentence index in source (0-based)
}

// ClaimSource identifies the person or organization advancing the claim.
type ClaimSource struct {
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Credentials string `json:"credentials,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeEmpirical     ClaimType = "empirical"     // Testable against evidence
	ClaimTypeValues        ClaimType = "values"        // Moral/policy preference
	ClaimTypeAesthetic     ClaimType = "aesthetic"     // Matters of taste
	ClaimTypeUnfalsifiable ClaimType = "unfalsifiable" // Cannot be tested even in principle
)

// IsValuesQuestion reports whether the claim type is outside empirical
// adjudication entirely. No volume of evidence changes that.
func (t ClaimType) IsValuesQuestion() bool {
	switch t {
	case ClaimTypeValues, ClaimTypeAesthetic, ClaimTypeUnfalsifiable:
		return true
	}
	return false
}

// NormalizeClaim applies the input-boundary defaults in one place so the
// adjudication logic never branches on "was this field provided". Missing
// type becomes empirical, missing domain becomes "general", missing id gets
// a fresh UUID.
func NormalizeClaim(c Claim) Claim {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Text = strings.TrimSpace(c.Text)
	switch c.Type {
	case ClaimTypeEmpirical, ClaimTypeValues, ClaimTypeAesthetic, ClaimTypeUnfalsifiable:
	default:
		c.Type = ClaimTypeEmpirical
	}
	if strings.TrimSpace(c.Domain) == "" {
		c.Domain = "general"
	} else {
		c.Domain = strings.ToLower(strings.TrimSpace(c.Domain))
	}
	return c
}

// NormalizeClaims normalizes a batch, preserving order.
func NormalizeClaims(claims []Claim) []Claim {
	out := make([]Claim, len(claims))
	for i, c := range claims {
		out[i] = NormalizeClaim(c)
	}
	return out
}
