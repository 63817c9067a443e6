package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rmedved/concord/internal/budget"
	"github.com/rmedved/concord/internal/model"
)

// Blended per-token cost estimate for budget accounting. Coarse on purpose;
// the budget guard needs an order of magnitude, not an invoice.
const openaiCostPerToken = 0.0000006

// OpenAIExtractor extracts claims and labels evidence direction using the
// OpenAI Chat Completions API.
type OpenAIExtractor struct {
	client *openai.Client
	config model.LLMConfig
	budget *budget.Counter
}

// NewOpenAIExtractor creates an OpenAI-backed extractor.
func NewOpenAIExtractor(cfg model.LLMConfig, counter *budget.Counter) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		budget: counter,
	}, nil
}

// Name returns the extractor name
func (e *OpenAIExtractor) Name() string { return "openai" }

const extractSystemPrompt = `You extract checkable factual claims from news articles.
Return a JSON object {"claims": [...]} where each claim has:
  text: the claim as a single sentence
  type: one of "empirical", "values", "aesthetic", "unfalsifiable"
  domain: one of "medicine", "nutrition", "psychology", "climate", "economics", "general"
  source: {name, role, credentials, affiliation} of whoever advances the claim ("" when unknown)
  is_verifiable: false only if the claim is empirical but cannot be studied directly
Extract at most 10 claims. Never invent sources.`

const directionSystemPrompt = `You judge whether a study supports or opposes a claim, from its title and abstract alone.
Return a JSON object {"labels": [{"url": "...", "direction": "supports"|"opposes"|"neutral"|"mixed"}]}.
Use "neutral" when the study is about the topic but takes no position, "mixed" when findings cut both ways.
Label every study you were given. Never guess beyond the text provided.`

// ExtractClaims extracts structured claims from article text.
func (e *OpenAIExtractor) ExtractClaims(ctx context.Context, articleText string) ([]model.Claim, error) {
	content, err := e.complete(ctx, extractSystemPrompt, truncate(articleText, 24000))
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	var parsed struct {
		Claims []claimWire `json:"claims"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse claims response: %w", err)
	}

	var claims []model.Claim
	for _, w := range parsed.Claims {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		claims = append(claims, w.toClaim())
	}
	return claims, nil
}

// LabelDirections labels each descriptor's stance toward the claim.
// Descriptors the model fails to label come back neutral.
func (e *OpenAIExtractor) LabelDirections(ctx context.Context, claim model.Claim, descriptors []model.EvidenceDescriptor) ([]model.EvidenceDescriptor, error) {
	if len(descriptors) == 0 {
		return descriptors, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Claim: %s\n\nStudies:\n", claim.Text)
	for _, d := range descriptors {
		fmt.Fprintf(&sb, "- url: %s\n  title: %s\n", d.URL, d.Title)
		if d.Snippet != "" {
			fmt.Fprintf(&sb, "  abstract: %s\n", truncate(d.Snippet, 600))
		}
	}

	content, err := e.complete(ctx, directionSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("label directions: %w", err)
	}

	var parsed struct {
		Labels []struct {
			URL       string `json:"url"`
			Direction string `json:"direction"`
		} `json:"labels"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse labels response: %w", err)
	}

	byURL := make(map[string]model.Direction, len(parsed.Labels))
	for _, l := range parsed.Labels {
		byURL[strings.ToLower(l.URL)] = model.Direction(strings.ToLower(l.Direction))
	}

	out := make([]model.EvidenceDescriptor, len(descriptors))
	for i, d := range descriptors {
		if dir, ok := byURL[strings.ToLower(d.URL)]; ok {
			d.Direction = dir
		} else {
			d.Direction = model.DirectionNeutral
		}
		out[i] = d
	}
	return out, nil
}

// complete makes one JSON-mode chat completion and records its cost.
func (e *OpenAIExtractor) complete(ctx context.Context, system, user string) (string, error) {
	if e.budget != nil && !e.budget.Allow() {
		return "", fmt.Errorf("LLM budget exhausted")
	}

	m := e.config.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	maxTokens := e.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: m,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if e.budget != nil {
		e.budget.Record(float64(resp.Usage.TotalTokens) * openaiCostPerToken)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
