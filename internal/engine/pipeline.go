package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rmedved/concord/internal/budget"
	"github.com/rmedved/concord/internal/cache"
	"github.com/rmedved/concord/internal/extract"
	"github.com/rmedved/concord/internal/model"
	"github.com/rmedved/concord/internal/search"
)

// Pipeline runs the full article flow: fetch, extract claims, retrieve and
// label evidence per claim, adjudicate, and assemble the report.
type Pipeline struct {
	cfg       *model.Config
	fetcher   *search.Fetcher
	extractor extract.Extractor
	evaluator *Evaluator
	budget    *budget.Counter
	cache     cache.Cache
}

// labeledSource adapts the searcher plus the extractor's direction labeler
// into the evaluator's evidence source.
type labeledSource struct {
	searcher  *search.Searcher
	extractor extract.Extractor
}

func (s *labeledSource) Evidence(ctx context.Context, claim model.Claim) ([]model.EvidenceDescriptor, error) {
	descriptors, err := s.searcher.Retrieve(ctx, claim)
	if err != nil {
		return nil, err
	}
	return s.extractor.LabelDirections(ctx, claim, descriptors)
}

// NewPipeline wires the full component chain from configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	counter := budget.NewCounter(cfg.Budget.LimitUSD)

	var c cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".concord", "cache")
		}
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	extractor, err := extract.NewExtractor(cfg.LLM, counter)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	limiter := search.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	prober := search.NewProber(&cfg.HTTP, cfg.Concurrency.SearchWorkers, limiter)
	providers := []search.Provider{
		search.NewCrossrefProvider(cfg.HTTP.Timeout, cfg.HTTP.UserAgent),
	}
	searcher := search.NewSearcher(providers, c, prober, counter, 10)

	p := &Pipeline{
		cfg:       cfg,
		fetcher:   search.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes),
		extractor: extractor,
		budget:    counter,
		cache:     c,
	}
	p.evaluator = NewEvaluator(cfg, &labeledSource{searcher: searcher, extractor: extractor})
	return p, nil
}

// Evaluator exposes the underlying evaluator (tests and the batch command).
func (p *Pipeline) Evaluator() *Evaluator { return p.evaluator }

// AnalyzeURL fetches an article and adjudicates its claims.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*model.Report, error) {
	fetched, err := p.fetchArticle(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	text, err := extract.VisibleText(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse article HTML: %w", err)
	}

	rep, err := p.analyze(ctx, fetched.Subject, text)
	if err != nil {
		return nil, err
	}
	rep.SourceURL = rawURL
	rep.FetchMeta = fetched.Meta
	return rep, nil
}

// AnalyzeText adjudicates claims in already-extracted article text.
func (p *Pipeline) AnalyzeText(ctx context.Context, subject, text string) (*model.Report, error) {
	return p.analyze(ctx, subject, text)
}

// AnalyzeClaims adjudicates pre-extracted claims directly, skipping fetch
// and extraction.
func (p *Pipeline) AnalyzeClaims(ctx context.Context, subject string, subjects []string, claims []model.Claim) (*model.Report, error) {
	results, errs := p.evaluator.EvaluateAll(ctx, claims, subjects)
	return p.assemble(subject, subjects, results, errs), nil
}

func (p *Pipeline) analyze(ctx context.Context, subject, text string) (*model.Report, error) {
	claims, err := p.extractor.ExtractClaims(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	p.logf("extracted %d claims from %q", len(claims), subject)

	subjects := []string{subject}
	results, errs := p.evaluator.EvaluateAll(ctx, claims, subjects)
	return p.assemble(subject, subjects, results, errs), nil
}

func (p *Pipeline) assemble(subject string, subjects []string, results []model.ClaimResult, errs map[string]string) *model.Report {
	rep := &model.Report{
		Subject:    subject,
		FetchedAt:  time.Now(),
		Subjects:   subjects,
		Results:    results,
		Aggregates: Aggregate(results),
		Principles: model.DefaultPrinciples(),
	}
	if len(errs) > 0 {
		rep.Errors = errs
	}
	snapshot := p.budget.Snapshot()
	rep.Budget = &snapshot
	return rep
}

// fetchArticle fetches with a cache in front: article HTML is stable enough
// within the disk TTL that refetching wastes time and goodwill.
func (p *Pipeline) fetchArticle(ctx context.Context, rawURL string) (*search.FetchResult, error) {
	key := cache.ArticleKey(rawURL)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached search.FetchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				p.logf("article cache hit for %s", rawURL)
				return &cached, nil
			}
		}
	}

	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if data, err := json.Marshal(fetched); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}
	return fetched, nil
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "pipeline: "+format+"\n", args...)
	}
}
