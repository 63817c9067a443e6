// Package expert decides whether a cited person qualifies as an independent
// expert for a claim's domain.
//
// Disqualification is absolute: the ordered rules run before any positive
// scoring, and the first match is the reported reason. A sitting senator who
// is also a professor is excluded — the current political role overrides past
// academic standing, because the claim under evaluation is most likely one
// they are personally advancing.
package expert

import (
	"regexp"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// PublicationLookup optionally replaces the publications heuristic with a
// real citation-metrics check. The second return reports whether the lookup
// had an answer; when false the validator falls back to the proxy.
type PublicationLookup func(p model.PersonMention, domain string) (hasRelevant bool, known bool)

// disqualifierRule pairs a predicate with the reason it reports. Rules are
// evaluated in priority order; the slice is built from data-driven pattern
// config so coverage can grow without touching control flow.
type disqualifierRule struct {
	reason model.DisqualifierReason
	match  func(p model.PersonMention, subjects []string) bool
}

// Validator applies disqualification and qualification rules.
type Validator struct {
	rules        []disqualifierRule
	institutions []*regexp.Regexp
	academic     []*regexp.Regexp
	domains      map[string]model.DomainProfile
	publications PublicationLookup
}

// NewValidator creates a validator from the pattern config and domain table.
func NewValidator(rules *model.ExpertRulesConfig, domains map[string]model.DomainProfile) *Validator {
	def := model.DefaultConfig()
	if rules == nil {
		rules = &def.Experts
	}
	if domains == nil {
		domains = def.Domains
	}

	politician := compileAll(rules.PoliticianPatterns)
	lobbyist := compileAll(rules.LobbyistPatterns)
	advocate := compileAll(rules.AdvocatePatterns)
	spokesperson := compileAll(rules.SpokespersonPatterns)

	v := &Validator{
		institutions: compileAll(rules.InstitutionPatterns),
		academic:     compileAll(rules.AcademicTitlePatterns),
		domains:      domains,
	}

	v.rules = []disqualifierRule{
		{model.ReasonArticleSubject, func(p model.PersonMention, subjects []string) bool {
			return matchesSubject(p.Name, subjects)
		}},
		{model.ReasonPolitician, func(p model.PersonMention, _ []string) bool {
			return anyMatch(politician, p.Title, p.Role, p.Affiliation)
		}},
		{model.ReasonLobbyist, func(p model.PersonMention, _ []string) bool {
			return anyMatch(lobbyist, p.Title, p.Role, p.Affiliation)
		}},
		{model.ReasonAdvocate, func(p model.PersonMention, _ []string) bool {
			return anyMatch(advocate, p.Affiliation, p.Role)
		}},
		{model.ReasonCorporateSpokesperson, func(p model.PersonMention, _ []string) bool {
			return anyMatch(spokesperson, p.Title, p.Role)
		}},
	}

	return v
}

// SetPublicationLookup injects a real publications check. Nil restores the
// heuristic proxy.
func (v *Validator) SetPublicationLookup(lookup PublicationLookup) {
	v.publications = lookup
}

// Validate validates one person mention against the article's subjects and
// the claim domain. Malformed mentions (empty name) fail gracefully.
func (v *Validator) Validate(p model.PersonMention, articleSubjects []string, domain string) model.ExpertValidationResult {
	result := model.ExpertValidationResult{Person: p}

	if strings.TrimSpace(p.Name) == "" {
		result.Reason = "missing name; cannot validate"
		return result
	}

	// Step 1: absolute disqualification, first match wins.
	for _, rule := range v.rules {
		if rule.match(p, articleSubjects) {
			markDisqualifier(&result, rule.reason)
			result.Reason = string(rule.reason)
			return result
		}
	}

	// Step 2: positive qualification signals.
	tokens := extractCredentials(p.Credentials + " " + p.Title)
	relevant := v.relevantCredential(tokens, domain)
	result.HasRelevantDegree = relevant != ""
	result.IsAtResearchInstitution = anyMatch(v.institutions, p.Affiliation)
	result.HasAcademicTitle = anyMatch(v.academic, p.Title, p.Role)
	result.HasRelevantPublications = v.lookupPublications(p, domain, result)

	// Step 3: a strong institutional signal can substitute for a credential
	// token the regex missed, and vice versa.
	result.IsValidExpert = (result.HasRelevantDegree && result.IsAtResearchInstitution) ||
		(result.HasRelevantDegree && result.HasRelevantPublications) ||
		(result.IsAtResearchInstitution && result.HasAcademicTitle)

	// Step 4: confidence is a secondary quality signal, never an override.
	conf := 0.0
	if result.HasRelevantDegree {
		conf += 0.4
	}
	if result.IsAtResearchInstitution {
		conf += 0.3
	}
	if result.HasRelevantPublications {
		conf += 0.2
	}
	if result.HasAcademicTitle {
		conf += 0.1
	}
	if conf > 1.0 {
		conf = 1.0
	}
	result.Confidence = conf
	result.Reason = qualificationReason(result, relevant)

	return result
}

// ValidateAll partitions mentions into valid experts and excluded persons,
// preserving per-person order. Malformed entries land in Excluded.
func (v *Validator) ValidateAll(persons []model.PersonMention, articleSubjects []string, domain string) model.ExpertBatchResult {
	var batch model.ExpertBatchResult
	for _, p := range persons {
		result := v.Validate(p, articleSubjects, domain)
		if result.IsValidExpert {
			batch.Experts = append(batch.Experts, result)
		} else {
			batch.Excluded = append(batch.Excluded, result)
		}
	}
	return batch
}

func (v *Validator) lookupPublications(p model.PersonMention, domain string, r model.ExpertValidationResult) bool {
	if v.publications != nil {
		if has, known := v.publications(p, domain); known {
			return has
		}
	}
	// Proxy: looks like a working researcher. Conflates "looks like" with
	// "has published"; replaceable via SetPublicationLookup.
	return r.IsAtResearchInstitution && r.HasAcademicTitle
}

// relevantCredential returns the first extracted token that appears in the
// domain's typical-credentials list, or "".
func (v *Validator) relevantCredential(tokens []string, domain string) string {
	profile, ok := v.domains[strings.ToLower(domain)]
	if !ok {
		profile = v.domains["general"]
	}
	for _, tok := range tokens {
		for _, typical := range profile.TypicalCredentials {
			if tok == strings.ToLower(typical) {
				return tok
			}
		}
	}
	return ""
}

// credentialPatterns map free-text credential mentions to normalized tokens.
var credentialPatterns = []struct {
	re    *regexp.Regexp
	token string
}{
	{regexp.MustCompile(`(?i)\b(ph\.?\s?d|d\.?phil|doctorate|doctoral)\b`), "phd"},
	{regexp.MustCompile(`(?i)\bm\.?d\b`), "md"},
	{regexp.MustCompile(`(?i)\bd\.?o\b`), "do"},
	{regexp.MustCompile(`(?i)\bmbbs\b`), "mbbs"},
	{regexp.MustCompile(`(?i)\bpsy\.?d\b`), "psyd"},
	{regexp.MustCompile(`(?i)\bpharm\.?d\b`), "pharmd"},
	{regexp.MustCompile(`(?i)\bj\.?d\b`), "jd"},
	{regexp.MustCompile(`(?i)\bm\.?p\.?h\b`), "mph"},
	{regexp.MustCompile(`(?i)\bm\.?sc?\b|\bmaster'?s\b|\bm\.?a\b`), "ms"},
	{regexp.MustCompile(`(?i)\br\.?d\b`), "rd"},
	{regexp.MustCompile(`(?i)\br\.?n\b`), "rn"},
	{regexp.MustCompile(`(?i)\bd\.?v\.?m\b`), "dvm"},
	{regexp.MustCompile(`(?i)\bp\.?e\b`), "pe"},
	{regexp.MustCompile(`(?i)\bc\.?p\.?a\b`), "cpa"},
	{regexp.MustCompile(`(?i)\bboard.certified\b`), "board_certified"},
}

// extractCredentials pulls normalized credential tokens out of free text.
func extractCredentials(text string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, cp := range credentialPatterns {
		if cp.re.MatchString(text) && !seen[cp.token] {
			seen[cp.token] = true
			tokens = append(tokens, cp.token)
		}
	}
	return tokens
}

// matchesSubject matches a name against the article subjects: exact,
// substring, or shared last name, all case-insensitive.
func matchesSubject(name string, subjects []string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	lastName := n
	if parts := strings.Fields(n); len(parts) > 1 {
		lastName = parts[len(parts)-1]
	}

	for _, s := range subjects {
		sub := strings.ToLower(strings.TrimSpace(s))
		if sub == "" {
			continue
		}
		if sub == n || strings.Contains(sub, n) || strings.Contains(n, sub) {
			return true
		}
		if parts := strings.Fields(sub); len(parts) > 1 && parts[len(parts)-1] == lastName {
			return true
		}
	}
	return false
}

func markDisqualifier(r *model.ExpertValidationResult, reason model.DisqualifierReason) {
	switch reason {
	case model.ReasonArticleSubject:
		r.IsArticleSubject = true
	case model.ReasonPolitician:
		r.IsPolitician = true
	case model.ReasonLobbyist:
		r.IsLobbyist = true
	case model.ReasonAdvocate:
		r.IsAdvocate = true
	case model.ReasonCorporateSpokesperson:
		r.IsCorporateSpokesperson = true
	}
}

func qualificationReason(r model.ExpertValidationResult, credential string) string {
	if !r.IsValidExpert {
		return "insufficient qualification signals"
	}
	var parts []string
	if r.HasRelevantDegree {
		parts = append(parts, "relevant credential ("+credential+")")
	}
	if r.IsAtResearchInstitution {
		parts = append(parts, "research institution affiliation")
	}
	if r.HasAcademicTitle {
		parts = append(parts, "academic title")
	}
	if r.HasRelevantPublications {
		parts = append(parts, "publication record")
	}
	return strings.Join(parts, ", ")
}

func anyMatch(res []*regexp.Regexp, texts ...string) bool {
	for _, re := range res {
		for _, t := range texts {
			if t != "" && re.MatchString(t) {
				return true
			}
		}
	}
	return false
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}
