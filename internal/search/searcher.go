package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rmedved/concord/internal/budget"
	"github.com/rmedved/concord/internal/cache"
	"github.com/rmedved/concord/internal/model"
)

// Searcher retrieves, deduplicates and reachability-filters candidate
// evidence for a claim, caching results by claim text and domain.
type Searcher struct {
	providers []Provider
	cache     cache.Cache // nil disables caching
	prober    *Prober     // nil disables reachability filtering
	budget    *budget.Counter
	perQuery  int
}

// NewSearcher creates a searcher over the given providers.
func NewSearcher(providers []Provider, c cache.Cache, prober *Prober, counter *budget.Counter, perQuery int) *Searcher {
	if perQuery <= 0 {
		perQuery = 10
	}
	return &Searcher{
		providers: providers,
		cache:     c,
		prober:    prober,
		budget:    counter,
		perQuery:  perQuery,
	}
}

// Retrieve returns candidate evidence descriptors for the claim. Provider
// failures degrade to whatever the other providers returned; only a fully
// empty, fully failed retrieval is an error.
func (s *Searcher) Retrieve(ctx context.Context, claim model.Claim) ([]model.EvidenceDescriptor, error) {
	key := cache.EvidenceKey(claim.Text, claim.Domain)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			var cached []model.EvidenceDescriptor
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if s.budget != nil && !s.budget.Allow() {
		return nil, fmt.Errorf("search budget exhausted")
	}

	var descriptors []model.EvidenceDescriptor
	var errs []string
	for _, p := range s.providers {
		found, err := p.Search(ctx, claim, s.perQuery)
		if s.budget != nil {
			s.budget.Record(p.CostPerCallUSD())
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		descriptors = append(descriptors, found...)
	}

	if len(descriptors) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("all providers failed: %s", strings.Join(errs, "; "))
	}

	descriptors = dedupeByURL(descriptors)
	if s.prober != nil {
		descriptors = s.prober.Filter(ctx, descriptors)
	}

	if s.cache != nil {
		if data, err := json.Marshal(descriptors); err == nil {
			_ = s.cache.Set(key, data, 0)
		}
	}

	return descriptors, nil
}

func dedupeByURL(descriptors []model.EvidenceDescriptor) []model.EvidenceDescriptor {
	seen := make(map[string]bool)
	var out []model.EvidenceDescriptor
	for _, d := range descriptors {
		u := strings.TrimRight(strings.ToLower(d.URL), "/")
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, d)
	}
	return out
}
