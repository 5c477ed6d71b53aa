package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postguard/internal/config"
	"postguard/pkg/models"
)

func tavilyTestClient(serverURL string) *TavilyClient {
	cfg := &config.Config{}
	cfg.Search.APIKey = "test-key"
	cfg.Search.BaseURL = serverURL
	cfg.Search.MaxResults = 3
	cfg.Search.Timeout = time.Second
	return NewTavilyClient(cfg)
}

func TestTavilySearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{
			"answer": "Acme Corp is a registered manufacturer.",
			"results": [
				{"title": "Acme Corp", "url": "https://acme.com", "content": "Official site", "score": 0.97},
				{"title": "Acme on LinkedIn", "url": "https://linkedin.com/company/acme", "content": "5000 employees", "score": 0.81}
			]
		}`)
	}))
	defer server.Close()

	client := tavilyTestClient(server.URL)
	result := client.Search(context.Background(), "Acme Corp official website")

	if !result.Success {
		t.Fatalf("search failed: %s", result.Error)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	if result.Results[0].URL != "https://acme.com" || result.Results[0].Score != 0.97 {
		t.Errorf("unexpected first result: %+v", result.Results[0])
	}
	if result.Answer == "" {
		t.Error("answer should be populated")
	}
}

func TestTavilySearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := tavilyTestClient(server.URL)
	result := client.Search(context.Background(), "anything")

	if result.Success {
		t.Fatal("429 response must not succeed")
	}
	if result.Error == "" {
		t.Error("failure must carry an error message")
	}
	if result.Query != "anything" {
		t.Errorf("query should survive failure, got %q", result.Query)
	}
}

type scriptedSearcher struct {
	failing map[string]bool
	calls   []string
}

func (s *scriptedSearcher) Search(ctx context.Context, query string) models.QueryResult {
	s.calls = append(s.calls, query)
	if s.failing[query] {
		return models.QueryResult{Query: query, Error: "simulated outage"}
	}
	return models.QueryResult{
		Success: true,
		Query:   query,
		Results: []models.SearchResult{{Title: "hit for " + query, URL: "https://example.com"}},
	}
}

func TestGatewayRunsFixedBattery(t *testing.T) {
	web := &scriptedSearcher{}
	gateway := NewGateway(web, nil)

	results := gateway.SearchCompany(context.Background(), "Acme Corp")

	if len(results) != len(companyQueryTemplates) {
		t.Fatalf("expected %d query results, got %d", len(companyQueryTemplates), len(results))
	}
	for _, tmpl := range companyQueryTemplates {
		query := fmt.Sprintf(tmpl, "Acme Corp")
		if _, ok := results[query]; !ok {
			t.Errorf("missing result for query %q", query)
		}
	}
}

func TestGatewayIsolatesQueryFailures(t *testing.T) {
	failingQuery := fmt.Sprintf(companyQueryTemplates[1], "Acme Corp")
	web := &scriptedSearcher{failing: map[string]bool{failingQuery: true}}
	gateway := NewGateway(web, nil)

	results := gateway.SearchCompany(context.Background(), "Acme Corp")

	failed := results[failingQuery]
	if failed.Success || failed.Error == "" {
		t.Errorf("failing query should be recorded as failed: %+v", failed)
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	if succeeded != len(companyQueryTemplates)-1 {
		t.Errorf("one failure must not stop the battery: %d succeeded", succeeded)
	}
}

func TestGatewayIncludesNewsSource(t *testing.T) {
	web := &scriptedSearcher{}
	news := &scriptedSearcher{}
	gateway := NewGateway(web, news)

	results := gateway.SearchCompany(context.Background(), "Acme Corp")

	if len(results) != len(companyQueryTemplates)+1 {
		t.Fatalf("expected %d results with news enabled, got %d", len(companyQueryTemplates)+1, len(results))
	}
	if len(news.calls) != 1 || !strings.Contains(news.calls[0], "scam OR fraud") {
		t.Errorf("news searcher calls = %v", news.calls)
	}
}
