package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmedved/concord/internal/engine"
	"github.com/rmedved/concord/internal/model"
)

var (
	claimsSubject  string
	claimsSubjects []string
)

// claimsCmd represents the claims command
var claimsCmd = &cobra.Command{
	Use:   "claims <file.json>",
	Short: "Adjudicate pre-extracted claims from a JSON file",
	Long: `Claims skips article fetching and extraction: it reads a JSON array of
claims and adjudicates each one. Useful for testing consensus policy and
for callers that do their own extraction.

The file holds an array of claim objects:
  [{"text": "...", "type": "empirical", "domain": "medicine",
    "is_verifiable": true, "source": {"name": "...", "role": "..."}}]

is_verifiable defaults to true when omitted.

Example:
  concord claims claims.json --subject "GLP-1 coverage" --article-subject "Jane Doe"`,
	Args: cobra.ExactArgs(1),
	RunE: runClaims,
}

func init() {
	rootCmd.AddCommand(claimsCmd)

	claimsCmd.Flags().StringVar(&claimsSubject, "subject", "manual claims", "report subject line")
	claimsCmd.Flags().StringSliceVar(&claimsSubjects, "article-subject", nil, "person the article is about (repeatable)")

	claimsCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	claimsCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	claimsCmd.Flags().IntVar(&claimWorkers, "claim-workers", 3, "concurrent claim evaluations per batch")
	claimsCmd.Flags().Float64Var(&budgetLimit, "budget", 0, "external-call budget in USD (0 = unlimited)")
	claimsCmd.Flags().StringVar(&llmProvider, "llm", "", "direction labeling provider (openai; empty = neutral labels)")
	claimsCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// claimFileEntry is the wire form of a claim in the input file.
// IsVerifiable is a pointer so an omitted field defaults to true instead of
// the zero value, which would misread every plain empirical claim as
// unverifiable.
type claimFileEntry struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	Type         string            `json:"type"`
	Domain       string            `json:"domain"`
	Source       model.ClaimSource `json:"source"`
	IsVerifiable *bool             `json:"is_verifiable"`
	Sentence     int               `json:"sentence"`
}

func parseClaimsFile(data []byte) ([]model.Claim, error) {
	var entries []claimFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	claims := make([]model.Claim, len(entries))
	for i, e := range entries {
		c := model.Claim{
			ID:           e.ID,
			Text:         e.Text,
			Type:         model.ClaimType(e.Type),
			Domain:       e.Domain,
			Source:       e.Source,
			IsVerifiable: true,
			Sentence:     e.Sentence,
		}
		if e.IsVerifiable != nil {
			c.IsVerifiable = *e.IsVerifiable
		}
		claims[i] = c
	}
	return claims, nil
}

func runClaims(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read claims file: %w", err)
	}

	claims, err := parseClaimsFile(data)
	if err != nil {
		return fmt.Errorf("parse claims file: %w", err)
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims in %s", args[0])
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := engine.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rep, err := p.AnalyzeClaims(ctx, claimsSubject, claimsSubjects, claims)
	if err != nil {
		return fmt.Errorf("adjudicate claims: %w", err)
	}

	return writeReport(cfg, rep)
}
