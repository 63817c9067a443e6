package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rmedved/concord/internal/model"
)

type countingJob struct {
	counter *int64
	fail    bool
}

func (j *countingJob) Execute(_ context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	if j.fail {
		return &ArticleResult{Error: fmt.Errorf("boom")}
	}
	return &ArticleResult{}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var counter int64
	for i := 0; i < 20; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != 20 {
		t.Fatalf("Expected 20 results, got %d", len(results))
	}
	if atomic.LoadInt64(&counter) != 20 {
		t.Errorf("Expected 20 executions, got %d", counter)
	}
}

func TestPool_FailuresAreResultsNotAborts(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter int64
	pool.Submit(&countingJob{counter: &counter, fail: true})
	pool.Submit(&countingJob{counter: &counter})
	pool.Submit(&countingJob{counter: &counter, fail: true})

	results := pool.Wait()
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 2 {
		t.Errorf("Expected 2 failures, got %d", failures)
	}
}

func TestPool_ZeroWorkersCoercedToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter int64
	pool.Submit(&countingJob{counter: &counter})
	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

type stubAnalyzer struct {
	calls int64
}

func (a *stubAnalyzer) AnalyzeURL(_ context.Context, url string) (*model.Report, error) {
	atomic.AddInt64(&a.calls, 1)
	if url == "https://bad.example" {
		return nil, fmt.Errorf("unreachable")
	}
	return &model.Report{Subject: url}, nil
}

func TestBatchProcessor_PartialFailures(t *testing.T) {
	analyzer := &stubAnalyzer{}
	b := NewBatchProcessor(analyzer, 3)

	urls := []string{"https://a.example", "https://bad.example", "https://c.example"}
	results := b.ProcessURLs(context.Background(), urls)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	byURL := make(map[string]*ArticleResult)
	for _, r := range results {
		byURL[r.URL] = r
	}
	if byURL["https://bad.example"].Error == nil {
		t.Error("Expected error for bad URL")
	}
	if byURL["https://a.example"].Report == nil || byURL["https://c.example"].Report == nil {
		t.Error("Siblings of a failed URL must still produce reports")
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://a.example\n# comment\n\nhttps://b.example\nhttps://a.example\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile failed: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("Expected 2 deduplicated URLs, got %v", urls)
	}
	if urls[0] != "https://a.example" || urls[1] != "https://b.example" {
		t.Errorf("Unexpected URLs: %v", urls)
	}
}

func TestReadURLsFromFile_Missing(t *testing.T) {
	if _, err := ReadURLsFromFile("/nonexistent/urls.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}
