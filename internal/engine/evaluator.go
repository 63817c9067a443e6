// Package engine orchestrates claim adjudication: per claim it runs evidence
// retrieval, tier classification, source validation, consensus determination,
// rendering and the honesty check, across a bounded concurrent batch.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/rmedved/concord/internal/consensus"
	"github.com/rmedved/concord/internal/expert"
	"github.com/rmedved/concord/internal/honesty"
	"github.com/rmedved/concord/internal/model"
	"github.com/rmedved/concord/internal/report"
	"github.com/rmedved/concord/internal/tier"
)

// EvidenceSource supplies direction-labeled evidence descriptors for a
// claim. Implementations are expected to have set Direction on every
// descriptor; unlabeled descriptors classify as neutral downstream.
type EvidenceSource interface {
	Evidence(ctx context.Context, claim model.Claim) ([]model.EvidenceDescriptor, error)
}

// Evaluator adjudicates claims. Construction wires the component chain once;
// Evaluate calls are safe for concurrent use.
type Evaluator struct {
	classifier *tier.Classifier
	validator  *expert.Validator
	determiner *consensus.Determiner
	checker    *honesty.Checker
	renderer   *report.Renderer
	evidence   EvidenceSource

	claimWorkers int
	verbose      bool
}

// NewEvaluator creates an evaluator from the configuration and an evidence
// source. A nil config uses defaults throughout.
func NewEvaluator(cfg *model.Config, evidence EvidenceSource) *Evaluator {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	workers := cfg.Concurrency.ClaimWorkers
	if workers <= 0 {
		workers = 3
	}

	return &Evaluator{
		classifier:   tier.NewClassifier(&cfg.Sources),
		validator:    expert.NewValidator(&cfg.Experts, cfg.Domains),
		determiner:   consensus.NewDeterminer(cfg.Thresholds, cfg.Domains),
		checker:      honesty.NewChecker(),
		renderer:     report.NewRenderer(cfg.Output.IncludeFooter),
		evidence:     evidence,
		claimWorkers: workers,
		verbose:      cfg.Output.Verbose,
	}
}

// SetClock overrides the consensus clock (tests).
func (e *Evaluator) SetClock(now func() time.Time) {
	e.determiner.SetClock(now)
}

// SetPublicationLookup injects a real publications check into the expert
// validator.
func (e *Evaluator) SetPublicationLookup(lookup expert.PublicationLookup) {
	e.validator.SetPublicationLookup(lookup)
}

// Evaluate adjudicates one claim end to end.
func (e *Evaluator) Evaluate(ctx context.Context, claim model.Claim, articleSubjects []string) (model.ClaimResult, error) {
	claim = model.NormalizeClaim(claim)
	result := model.ClaimResult{Claim: claim}

	if claim.Source.Name != "" {
		check := e.validator.Validate(model.PersonMention{
			Name:        claim.Source.Name,
			Role:        claim.Source.Role,
			Credentials: claim.Source.Credentials,
			Affiliation: claim.Source.Affiliation,
		}, articleSubjects, claim.Domain)
		result.SourceCheck = &check
	}

	// Values questions never reach evidence retrieval: the verdict is fixed
	// by claim type, and fetching would spend budget on nothing.
	if !claim.Type.IsValuesQuestion() {
		descriptors, err := e.evidence.Evidence(ctx, claim)
		if err != nil {
			return result, fmt.Errorf("evidence for claim %s: %w", claim.ID, err)
		}
		e.logf("claim %s: %d evidence descriptors", claim.ID, len(descriptors))

		result.Evidence = make([]model.EvidenceItem, 0, len(descriptors))
		for _, d := range descriptors {
			result.Evidence = append(result.Evidence, e.classifier.Item(d))
		}
	}

	result.Assessment = e.determiner.Assess(claim, result.Evidence)
	result.Rendered = e.renderer.RenderAssessment(result.Assessment)
	result.Honesty = e.checker.Check(result.Assessment, result.Rendered)

	e.logf("claim %s: level=%s confidence=%s honest=%v",
		claim.ID, result.Assessment.Level, result.Assessment.Confidence, result.Honesty.IsHonest)
	return result, nil
}

// EvaluateAll adjudicates claims in fixed-size batches. Claims within a
// batch run concurrently; a batch completes before the next starts, which
// keeps peak external-call pressure proportional to the worker count rather
// than the claim count. A failed claim lands in the errors map under its id
// and never aborts its siblings. Result order follows input order.
func (e *Evaluator) EvaluateAll(ctx context.Context, claims []model.Claim, articleSubjects []string) ([]model.ClaimResult, map[string]string) {
	claims = model.NormalizeClaims(claims)

	slots := make([]*model.ClaimResult, len(claims))
	errs := make(map[string]string)
	var mu sync.Mutex

	for start := 0; start < len(claims); start += e.claimWorkers {
		end := start + e.claimWorkers
		if end > len(claims) {
			end = len(claims)
		}
		e.logf("evaluating claims %d-%d of %d", start+1, end, len(claims))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, claim model.Claim) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						errs[claim.ID] = fmt.Sprintf("panic during evaluation: %v", r)
						mu.Unlock()
					}
				}()

				result, err := e.Evaluate(ctx, claim, articleSubjects)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs[claim.ID] = err.Error()
					return
				}
				slots[idx] = &result
			}(i, claims[i])
		}
		wg.Wait()
	}

	results := make([]model.ClaimResult, 0, len(claims))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, errs
}

// Aggregate summarizes a batch of results.
func Aggregate(results []model.ClaimResult) model.Aggregates {
	agg := model.Aggregates{
		Total:    len(results),
		ByType:   make(map[string]int),
		ByDomain: make(map[string]int),
		ByLevel:  make(map[string]int),
	}

	var ratios []float64
	for _, r := range results {
		agg.ByType[string(r.Claim.Type)]++
		agg.ByDomain[r.Claim.Domain]++
		agg.ByLevel[string(r.Assessment.Level)]++

		switch r.Assessment.Level {
		case model.LevelValuesQuestion:
			agg.ValuesQuestions++
		case model.LevelActiveDebate:
			agg.HasActiveDebate = true
		}
		if !r.Claim.Type.IsValuesQuestion() {
			ratios = append(ratios, r.Assessment.Evidence.SupportRatio)
		}
	}

	if mean, err := stats.Mean(ratios); err == nil {
		agg.MeanSupportRatio = mean
	}
	return agg
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.verbose {
		fmt.Fprintf(os.Stderr, "engine: "+format+"\n", args...)
	}
}
