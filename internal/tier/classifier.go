// Package tier classifies raw evidence descriptors into quality tiers.
//
// Classification is a total, deterministic function: every descriptor maps
// to exactly one tier, and anything unresolvable lands in tier 5 with zero
// consensus weight.
package tier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// Classification is the outcome of classifying one descriptor.
type Classification struct {
	Tier     model.Tier
	Category model.EvidenceCategory
	Weight   float64
}

// Classifier maps evidence descriptors to quality tiers using declared
// source-type tags, title signals, and curated domain allow-lists.
type Classifier struct {
	tier1Map  map[string]bool
	tier2Map  map[string]bool
	tier3Map  map[string]bool
	domainMap map[string]string
}

// Source-type tags the classifier trusts when supplied upstream.
var tagCategories = map[string]Classification{
	"systematic_review": {model.TierSynthesis, model.CategorySystematicReview, 0},
	"meta_analysis":     {model.TierSynthesis, model.CategoryMetaAnalysis, 0},
	"major_report":      {model.TierSynthesis, model.CategoryMajorReport, 0},
	"peer_reviewed":     {model.TierPeerReviewed, model.CategoryPeerReviewed, 0},
	"rct":               {model.TierPeerReviewed, model.CategoryRCT, 0},
	"working_paper":     {model.TierModerate, model.CategoryWorkingPaper, 0},
	"preprint":          {model.TierModerate, model.CategoryPreprint, 0},
	"government_stats":  {model.TierModerate, model.CategoryGovernmentStats, 0},
}

// Source types that are claimant statements rather than evidence.
var claimantTags = map[string]bool{
	"politician_statement": true,
	"advocacy":             true,
	"article_subject":      true,
}

var (
	tier1TitleRe = regexp.MustCompile(`(?i)\b(meta-?analys[ei]s|systematic review|umbrella review)\b`)
	rctTitleRe   = regexp.MustCompile(`(?i)\b(randomi[sz]ed controlled trial|RCT|double-?blind|placebo-?controlled)\b`)

	preprintHosts = map[string]model.EvidenceCategory{
		"arxiv.org":   model.CategoryPreprint,
		"biorxiv.org": model.CategoryPreprint,
		"medrxiv.org": model.CategoryPreprint,
		"ssrn.com":    model.CategoryWorkingPaper,
		"nber.org":    model.CategoryWorkingPaper,
	}
)

// NewClassifier creates a classifier from the curated source lists.
func NewClassifier(cfg *model.SourcesConfig) *Classifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Sources
	}

	c := &Classifier{
		tier1Map:  make(map[string]bool),
		tier2Map:  make(map[string]bool),
		tier3Map:  make(map[string]bool),
		domainMap: cfg.DomainMap,
	}
	for _, d := range cfg.Tier1Domains {
		c.tier1Map[d] = true
	}
	for _, d := range cfg.Tier2Domains {
		c.tier2Map[d] = true
	}
	for _, d := range cfg.Tier3Domains {
		c.tier3Map[d] = true
	}
	return c
}

// Classify classifies one descriptor. First match wins:
//
//  1. Claimant statements (article subject, politician, advocacy) are not
//     evidence at all.
//  2. Expert opinion counts only when the person is a verified expert.
//  3. An explicit trusted source-type tag is honored directly.
//  4. Title text naming a study design beats URL signals: a title is a
//     stronger, less ambiguous signal than a publishing domain.
//  5. Curated domain allow-lists, checked in tier order.
//  6. Everything else is tier 5.
func (c *Classifier) Classify(d model.EvidenceDescriptor) Classification {
	tag := strings.ToLower(strings.TrimSpace(d.SourceType))

	if d.IsArticleSubject || claimantTags[tag] {
		return fill(Classification{model.TierNotEvidence, model.CategoryNotEvidence, 0})
	}

	if tag == "expert_opinion" || tag == "expert_testimony" {
		if d.VerifiedExpert {
			return fill(Classification{model.TierOpinion, model.CategoryExpertOpinion, 0})
		}
		return fill(Classification{model.TierNotEvidence, model.CategoryNotEvidence, 0})
	}

	if cl, ok := tagCategories[tag]; ok {
		return fill(cl)
	}

	if tier1TitleRe.MatchString(d.Title) {
		return fill(Classification{model.TierSynthesis, titleCategory(d.Title), 0})
	}
	if rctTitleRe.MatchString(d.Title) {
		return fill(Classification{model.TierPeerReviewed, model.CategoryRCT, 0})
	}

	if cl, ok := c.classifyHost(d.URL); ok {
		return fill(cl)
	}

	return fill(Classification{model.TierNotEvidence, model.CategoryNotEvidence, 0})
}

// Item builds the immutable EvidenceItem for a descriptor.
func (c *Classifier) Item(d model.EvidenceDescriptor) model.EvidenceItem {
	cl := c.Classify(d)
	return model.EvidenceItem{
		Citation: model.Citation{
			Title:   d.Title,
			Authors: d.Authors,
			Venue:   d.Venue,
			Year:    d.Year(),
			URL:     d.URL,
			Finding: d.Snippet,
		},
		Tier:       cl.Tier,
		Category:   cl.Category,
		Direction:  normalizeDirection(d.Direction),
		KeyFinding: d.Snippet,
	}
}

// classifyHost matches the URL host against the allow-lists in tier order.
func (c *Classifier) classifyHost(rawURL string) (Classification, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return Classification{}, false
	}

	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	// Explicit per-host overrides from config win over the lists.
	if c.domainMap != nil {
		if tierStr, ok := c.domainMap[host]; ok {
			return tierFromString(tierStr, host), true
		}
	}

	if matchDomain(c.tier1Map, host) {
		return Classification{model.TierSynthesis, model.CategoryMajorReport, 0}, true
	}
	if matchDomain(c.tier2Map, host) {
		return Classification{model.TierPeerReviewed, model.CategoryPeerReviewed, 0}, true
	}
	if matchDomain(c.tier3Map, host) {
		return Classification{model.TierModerate, tier3Category(host), 0}, true
	}
	return Classification{}, false
}

// matchDomain checks exact and subdomain matches (stats.bls.gov matches
// bls.gov).
func matchDomain(set map[string]bool, host string) bool {
	if set[host] {
		return true
	}
	for d := range set {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func tier3Category(host string) model.EvidenceCategory {
	for h, cat := range preprintHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return cat
		}
	}
	return model.CategoryGovernmentStats
}

func titleCategory(title string) model.EvidenceCategory {
	if regexp.MustCompile(`(?i)systematic review`).MatchString(title) {
		return model.CategorySystematicReview
	}
	return model.CategoryMetaAnalysis
}

func tierFromString(tier, host string) Classification {
	switch strings.ToLower(tier) {
	case "1", "tier1", "synthesis":
		return Classification{model.TierSynthesis, model.CategoryMajorReport, model.TierSynthesis.Weight()}
	case "2", "tier2", "peer_reviewed":
		return Classification{model.TierPeerReviewed, model.CategoryPeerReviewed, model.TierPeerReviewed.Weight()}
	case "3", "tier3", "moderate":
		return Classification{model.TierModerate, tier3Category(host), model.TierModerate.Weight()}
	default:
		return Classification{model.TierNotEvidence, model.CategoryNotEvidence, 0}
	}
}

// normalizeDirection defaults unknown labels to neutral so noisy upstream
// labels never inflate either side.
func normalizeDirection(d model.Direction) model.Direction {
	switch d {
	case model.DirectionSupports, model.DirectionOpposes, model.DirectionNeutral, model.DirectionMixed:
		return d
	default:
		return model.DirectionNeutral
	}
}

func fill(cl Classification) Classification {
	cl.Weight = cl.Tier.Weight()
	return cl
}
