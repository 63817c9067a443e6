package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmedved/concord/internal/engine"
	"github.com/rmedved/concord/internal/model"
	"github.com/rmedved/concord/internal/report"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noFooter     bool
	insecureTLS  bool
	llmProvider  string
	llmModel     string
	budgetLimit  float64
	claimWorkers int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single article and adjudicate its claims",
	Long: `Analyze fetches a news article, extracts its factual claims, and
adjudicates each claim against the published scientific record:
- Retrieve and tier-classify candidate evidence
- Validate cited persons as independent experts
- Determine the consensus level and confidence
- Enforce the honesty invariants on every rendered verdict

Example:
  concord analyze https://example.com/news/coffee-cancer-study
  concord analyze https://example.com/article --json report.json --md report.md
  concord analyze https://example.com/article --llm openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "Concord/0.1 (+https://github.com/rmedved/concord)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")

	// Adjudication flags
	analyzeCmd.Flags().IntVar(&claimWorkers, "claim-workers", 3, "concurrent claim evaluations per batch")
	analyzeCmd.Flags().Float64Var(&budgetLimit, "budget", 0, "external-call budget in USD (0 = unlimited)")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm", "", "claim extraction provider (openai; empty = keyword heuristic)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := engine.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	rep, err := p.AnalyzeURL(ctx, url)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Adjudicated %d claims (%d failed)\n", len(rep.Results), len(rep.Errors))
		fmt.Fprintln(os.Stderr)
	}

	return writeReport(cfg, rep)
}

// writeReport renders the report to the configured outputs.
func writeReport(cfg *model.Config, rep *model.Report) error {
	renderer := report.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(rep, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(rep, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(rep)
	return nil
}
