package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmedved/concord/internal/engine"
	"github.com/rmedved/concord/internal/report"
	"github.com/rmedved/concord/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple article URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # comments allowed) and
analyzes them concurrently, writing one JSON and one Markdown report per
article into the output directory. A failed article never aborts the rest.

Example:
  concord batch urls.txt
  concord batch urls.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent article analyses")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./concord-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().DurationVar(&timeout, "article-timeout", 2*time.Minute, "timeout for individual articles")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Concord/0.1 (+https://github.com/rmedved/concord)", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().IntVar(&claimWorkers, "claim-workers", 3, "concurrent claim evaluations per article")
	batchCmd.Flags().Float64Var(&budgetLimit, "budget", 0, "external-call budget in USD (0 = unlimited)")

	batchCmd.Flags().StringVar(&llmProvider, "llm", "", "claim extraction provider (openai; empty = keyword heuristic)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Batch input: %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers: %d, output dir: %s, timeout: %v\n", concurrency, outputDir, batchTimeout)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := engine.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.URL, r.Error)
			continue
		}

		base := filepath.Join(outputDir, slugify(r.URL))
		if err := renderer.RenderJSON(r.Report, base+".json"); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: write report: %v\n", r.URL, err)
			continue
		}
		if err := renderer.RenderMarkdown(r.Report, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write markdown: %v\n", r.URL, err)
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s\n", r.URL)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed, reports in %s\n", succeeded, failed, outputDir)
	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("all %d articles failed", failed)
	}
	return nil
}

// slugify turns a URL into a safe file name.
func slugify(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "report"
	}
	s := parsed.Host + parsed.Path
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_", "=", "_", "%", "_")
	s = replacer.Replace(s)
	s = strings.Trim(s, "_")
	if len(s) > 120 {
		s = s[:120]
	}
	if s == "" {
		return "report"
	}
	return s
}
