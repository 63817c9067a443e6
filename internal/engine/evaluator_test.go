package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rmedved/concord/internal/model"
)

// stubSource serves canned descriptors keyed by claim text and records
// which claims reached retrieval.
type stubSource struct {
	mu        sync.Mutex
	evidence  map[string][]model.EvidenceDescriptor
	failures  map[string]error
	requested []string
}

func (s *stubSource) Evidence(_ context.Context, claim model.Claim) ([]model.EvidenceDescriptor, error) {
	s.mu.Lock()
	s.requested = append(s.requested, claim.Text)
	s.mu.Unlock()

	if err, ok := s.failures[claim.Text]; ok {
		return nil, err
	}
	return s.evidence[claim.Text], nil
}

func (s *stubSource) requestedClaims() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

func supportingDescriptors(n int) []model.EvidenceDescriptor {
	out := make([]model.EvidenceDescriptor, n)
	for i := 0; i < n; i++ {
		out[i] = model.EvidenceDescriptor{
			URL:        fmt.Sprintf("https://nature.com/articles/%d", i),
			Title:      fmt.Sprintf("Study %d", i),
			SourceType: "peer_reviewed",
			Direction:  model.DirectionSupports,
		}
	}
	return out
}

func testEvaluator(source EvidenceSource) *Evaluator {
	e := NewEvaluator(nil, source)
	e.SetClock(func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) })
	return e
}

func TestEvaluator_EndToEndStrongConsensus(t *testing.T) {
	source := &stubSource{
		evidence: map[string][]model.EvidenceDescriptor{
			"Coffee reduces mortality": supportingDescriptors(5),
		},
	}
	e := testEvaluator(source)

	claim := model.Claim{
		Text:         "Coffee reduces mortality",
		Type:         model.ClaimTypeEmpirical,
		Domain:       "medicine",
		IsVerifiable: true,
	}

	result, err := e.Evaluate(context.Background(), claim, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.Assessment.Level != model.LevelStrongConsensus {
		t.Errorf("Expected strong_consensus, got %s", result.Assessment.Level)
	}
	if len(result.Evidence) != 5 {
		t.Errorf("Expected 5 evidence items, got %d", len(result.Evidence))
	}
	if !result.Honesty.IsHonest {
		t.Errorf("Expected honest output, got %v", result.Honesty.Violations)
	}
	if result.Claim.ID == "" {
		t.Error("Expected claim id to be assigned")
	}
}

func TestEvaluator_ValuesClaimSkipsRetrieval(t *testing.T) {
	source := &stubSource{}
	e := testEvaluator(source)

	claim := model.Claim{
		Text: "The government should subsidize coffee",
		Type: model.ClaimTypeValues,
	}

	result, err := e.Evaluate(context.Background(), claim, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.Assessment.Level != model.LevelValuesQuestion {
		t.Errorf("Expected values_question, got %s", result.Assessment.Level)
	}
	if result.Rendered.ValuesSection == "" {
		t.Error("Expected a values section")
	}
	if len(source.requestedClaims()) != 0 {
		t.Errorf("Values claim must not reach evidence retrieval, got %v", source.requestedClaims())
	}
}

func TestEvaluator_SourceCheckOnClaimant(t *testing.T) {
	source := &stubSource{}
	e := testEvaluator(source)

	claim := model.Claim{
		Text:         "Our product extends lifespan",
		Type:         model.ClaimTypeEmpirical,
		IsVerifiable: true,
		Source: model.ClaimSource{
			Name: "Alex Rivers",
			Role: "CEO",
		},
	}

	result, err := e.Evaluate(context.Background(), claim, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.SourceCheck == nil {
		t.Fatal("Expected source check for claim with a named source")
	}
	if !result.SourceCheck.IsCorporateSpokesperson {
		t.Error("Expected CEO to be flagged as corporate spokesperson")
	}
}

func TestEvaluator_BatchPartialFailure(t *testing.T) {
	texts := []string{"claim one", "claim two", "claim three", "claim four", "claim five"}

	source := &stubSource{
		evidence: make(map[string][]model.EvidenceDescriptor),
		failures: map[string]error{
			"claim two": fmt.Errorf("provider timeout"),
		},
	}
	for _, text := range texts {
		if text != "claim two" {
			source.evidence[text] = supportingDescriptors(4)
		}
	}
	e := testEvaluator(source)

	claims := make([]model.Claim, len(texts))
	for i, text := range texts {
		claims[i] = model.Claim{
			ID:           fmt.Sprintf("id-%d", i+1),
			Text:         text,
			Type:         model.ClaimTypeEmpirical,
			IsVerifiable: true,
		}
	}

	results, errs := e.EvaluateAll(context.Background(), claims, nil)

	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %v", errs)
	}
	msg, ok := errs["id-2"]
	if !ok {
		t.Fatalf("Expected failure recorded under claim id-2, got %v", errs)
	}
	if !strings.Contains(msg, "provider timeout") {
		t.Errorf("Expected original error preserved, got %q", msg)
	}

	// Surviving results keep input order.
	wantOrder := []string{"id-1", "id-3", "id-4", "id-5"}
	for i, want := range wantOrder {
		if results[i].Claim.ID != want {
			t.Errorf("Result %d: expected %s, got %s", i, want, results[i].Claim.ID)
		}
	}
}

func TestEvaluator_BatchProcessesAllClaims(t *testing.T) {
	source := &stubSource{evidence: make(map[string][]model.EvidenceDescriptor)}
	e := testEvaluator(source)

	var claims []model.Claim
	for i := 0; i < 7; i++ {
		claims = append(claims, model.Claim{
			Text:         fmt.Sprintf("claim %d", i),
			Type:         model.ClaimTypeEmpirical,
			IsVerifiable: true,
		})
	}

	results, errs := e.EvaluateAll(context.Background(), claims, nil)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if len(results) != 7 {
		t.Fatalf("Expected 7 results, got %d", len(results))
	}
	if len(source.requestedClaims()) != 7 {
		t.Errorf("Expected 7 retrievals, got %d", len(source.requestedClaims()))
	}
}

func TestAggregate(t *testing.T) {
	results := []model.ClaimResult{
		{
			Claim: model.Claim{Type: model.ClaimTypeEmpirical, Domain: "medicine"},
			Assessment: model.ConsensusAssessment{
				Level:    model.LevelStrongConsensus,
				Evidence: model.EvidenceSummary{SupportRatio: 1.0},
			},
		},
		{
			Claim: model.Claim{Type: model.ClaimTypeEmpirical, Domain: "medicine"},
			Assessment: model.ConsensusAssessment{
				Level:     model.LevelActiveDebate,
				Positions: &model.DebatePositions{},
				Evidence:  model.EvidenceSummary{SupportRatio: 0.5},
			},
		},
		{
			Claim: model.Claim{Type: model.ClaimTypeValues, Domain: "general"},
			Assessment: model.ConsensusAssessment{
				Level: model.LevelValuesQuestion,
			},
		},
	}

	agg := Aggregate(results)
	if agg.Total != 3 {
		t.Errorf("Expected total 3, got %d", agg.Total)
	}
	if agg.ByDomain["medicine"] != 2 {
		t.Errorf("Expected 2 medicine claims, got %d", agg.ByDomain["medicine"])
	}
	if agg.ByLevel["active_debate"] != 1 {
		t.Errorf("Expected 1 active_debate, got %d", agg.ByLevel["active_debate"])
	}
	if agg.ValuesQuestions != 1 {
		t.Errorf("Expected 1 values question, got %d", agg.ValuesQuestions)
	}
	if !agg.HasActiveDebate {
		t.Error("Expected HasActiveDebate")
	}
	// Mean over the two empirical claims only: (1.0 + 0.5) / 2.
	if agg.MeanSupportRatio != 0.75 {
		t.Errorf("Expected mean support ratio 0.75, got %f", agg.MeanSupportRatio)
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	if agg.Total != 0 || agg.HasActiveDebate || agg.MeanSupportRatio != 0 {
		t.Errorf("Unexpected aggregates for empty input: %+v", agg)
	}
}
