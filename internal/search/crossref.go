package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rmedved/concord/internal/model"
)

const crossrefBaseURL = "https://api.crossref.org/works"

// Nominal per-request cost used for budget accounting. The Crossref API is
// free; the number exists so snapshots still count calls against a limit.
const crossrefCallCostUSD = 0.0

// CrossrefProvider searches scholarly metadata via the Crossref REST API.
type CrossrefProvider struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

// NewCrossrefProvider creates a Crossref provider.
func NewCrossrefProvider(timeout time.Duration, userAgent string) *CrossrefProvider {
	return &CrossrefProvider{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		baseURL:    crossrefBaseURL,
	}
}

// Name returns the provider name
func (p *CrossrefProvider) Name() string { return "crossref" }

// CostPerCallUSD returns the nominal per-request cost for budget accounting.
func (p *CrossrefProvider) CostPerCallUSD() float64 { return crossrefCallCostUSD }

// crossrefResponse mirrors the subset of the works response we consume.
type crossrefResponse struct {
	Message struct {
		Items []struct {
			Title          []string `json:"title"`
			ContainerTitle []string `json:"container-title"`
			URL            string   `json:"URL"`
			DOI            string   `json:"DOI"`
			Abstract       string   `json:"abstract,omitempty"`
			Type           string   `json:"type"`
			Author         []struct {
				Given  string `json:"given"`
				Family string `json:"family"`
			} `json:"author"`
			Issued struct {
				DateParts [][]int `json:"date-parts"`
			} `json:"issued"`
		} `json:"items"`
	} `json:"message"`
}

// Search queries Crossref for works matching the claim text.
func (p *CrossrefProvider) Search(ctx context.Context, claim model.Claim, limit int) ([]model.EvidenceDescriptor, error) {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("query", claim.Text)
	q.Set("rows", fmt.Sprintf("%d", limit))
	q.Set("select", "title,container-title,URL,DOI,author,issued,type,abstract")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossref request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed crossrefResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var out []model.EvidenceDescriptor
	for _, item := range parsed.Message.Items {
		d := model.EvidenceDescriptor{
			URL:     item.URL,
			Snippet: item.Abstract,
		}
		if d.URL == "" && item.DOI != "" {
			d.URL = "https://doi.org/" + item.DOI
		}
		if len(item.Title) > 0 {
			d.Title = item.Title[0]
		}
		if len(item.ContainerTitle) > 0 {
			d.Venue = item.ContainerTitle[0]
		}
		for _, a := range item.Author {
			name := a.Given + " " + a.Family
			if a.Given == "" {
				name = a.Family
			}
			if name != "" {
				d.Authors = append(d.Authors, name)
			}
		}
		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			year := item.Issued.DateParts[0][0]
			t := time.Date(year, 7, 1, 0, 0, 0, 0, time.UTC)
			if len(item.Issued.DateParts[0]) > 1 {
				t = time.Date(year, time.Month(item.Issued.DateParts[0][1]), 1, 0, 0, 0, 0, time.UTC)
			}
			d.PublishedDate = &t
		}
		if d.URL == "" || d.Title == "" {
			continue
		}
		out = append(out, d)
	}

	return out, nil
}
