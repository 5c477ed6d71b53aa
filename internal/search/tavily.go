package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// QuerySearcher runs a single corroboration query. Implementations never
// return an error; failures are carried inside the QueryResult so one bad
// query cannot take down the battery.
type QuerySearcher interface {
	Search(ctx context.Context, query string) models.QueryResult
}

// TavilyClient talks to the Tavily search API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     logging.Logger
}

// NewTavilyClient creates a Tavily search client from configuration
func NewTavilyClient(cfg *config.Config) *TavilyClient {
	baseURL := cfg.Search.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	maxResults := cfg.Search.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	timeout := cfg.Search.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TavilyClient{
		apiKey:     cfg.Search.APIKey,
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.GetGlobalLogger(),
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search issues one query against Tavily. The returned QueryResult carries
// the failure when the request cannot be completed.
func (c *TavilyClient) Search(ctx context.Context, query string) models.QueryResult {
	result := models.QueryResult{Query: query}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "basic",
		MaxResults:    c.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Search request failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("search API returned status %d", resp.StatusCode)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		result.Error = err.Error()
		return result
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		result.Error = fmt.Sprintf("malformed search response: %v", err)
		return result
	}

	result.Success = true
	result.Answer = parsed.Answer
	for _, r := range parsed.Results {
		result.Results = append(result.Results, models.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return result
}
