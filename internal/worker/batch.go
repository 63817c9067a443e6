package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rmedved/concord/internal/model"
)

// Analyzer adjudicates a single article URL.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*model.Report, error)
}

// ArticleJob analyzes one URL.
type ArticleJob struct {
	URL      string
	Analyzer Analyzer
}

// ArticleResult is the outcome of analyzing one URL.
type ArticleResult struct {
	URL    string
	Report *model.Report
	Error  error
}

// GetError returns the job error, if any.
func (r *ArticleResult) GetError() error { return r.Error }

// Execute runs the analysis.
func (j *ArticleJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeURL(ctx, j.URL)
	return &ArticleResult{URL: j.URL, Report: report, Error: err}
}

// BatchProcessor analyzes many URLs concurrently.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// ProcessURLs analyzes URLs in parallel. Per-URL failures are carried in
// the results, never returned as an error.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ArticleResult {
	if len(urls) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()
	for _, url := range urls {
		pool.Submit(&ArticleJob{URL: url, Analyzer: b.analyzer})
	}

	raw := pool.Wait()
	results := make([]*ArticleResult, len(raw))
	for i, r := range raw {
		results[i] = r.(*ArticleResult)
	}
	return results
}

// ProcessFile reads URLs from a file (one per line) and analyzes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ArticleResult, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads deduplicated URLs, skipping blanks and # comments.
func ReadURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return urls, nil
}
