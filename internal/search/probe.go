package search

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rmedved/concord/internal/model"
)

const probeMaxRetries = 3

// probeSleepFunc is the sleep function used between retries (injectable for tests)
var probeSleepFunc = time.Sleep

// Prober checks that candidate evidence URLs are actually reachable, so
// dead links never enter adjudication. Probes run concurrently under a
// semaphore, respect robots.txt, and rate-limit per domain.
type Prober struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	robots     *RobotsChecker
	limiter    *Limiter
}

// NewProber creates a prober.
func NewProber(cfg *model.HTTPConfig, maxWorkers int, limiter *Limiter) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if cfg == nil {
		cfg = &model.DefaultConfig().HTTP
	}

	return &Prober{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           proxyFunc(cfg),
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureTLS},
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxWorkers: maxWorkers,
		robots:     NewRobotsChecker(cfg.UserAgent, 10*time.Second),
		limiter:    limiter,
	}
}

// Filter returns the descriptors whose URLs are reachable, preserving
// input order. Unreachable and robots-disallowed descriptors are dropped.
func (p *Prober) Filter(ctx context.Context, descriptors []model.EvidenceDescriptor) []model.EvidenceDescriptor {
	if len(descriptors) == 0 {
		return descriptors
	}

	ok := make([]bool, len(descriptors))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.maxWorkers)

	for i, d := range descriptors {
		wg.Add(1)
		go func(idx int, desc model.EvidenceDescriptor) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			ok[idx] = p.probeWithRetry(ctx, desc.URL)
		}(i, d)
	}
	wg.Wait()

	var out []model.EvidenceDescriptor
	for i, d := range descriptors {
		if ok[i] {
			out = append(out, d)
		}
	}
	return out
}

// probe HEADs the URL once.
func (p *Prober) probe(ctx context.Context, rawURL string) (reachable bool, retryable bool) {
	if !p.robots.IsAllowed(ctx, rawURL) {
		return false, false
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, rawURL); err != nil {
			return false, false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, false
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, isRetryableNetworkError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return true, false
	case resp.StatusCode == 429 || resp.StatusCode >= 500:
		return false, true
	default:
		return false, false
	}
}

// probeWithRetry retries transient failures with exponential backoff.
func (p *Prober) probeWithRetry(ctx context.Context, rawURL string) bool {
	for attempt := 0; attempt < probeMaxRetries; attempt++ {
		reachable, retryable := p.probe(ctx, rawURL)
		if reachable || !retryable {
			return reachable
		}
		if attempt < probeMaxRetries-1 {
			probeSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return false
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
