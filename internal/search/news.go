package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"postguard/internal/logging"
	"postguard/pkg/models"
)

const defaultNewsFeedURL = "https://news.google.com/rss/search"

// NewsSearcher queries the Google News RSS feed as an additional
// corroboration source. Feed entries carry no relevance score, so results
// come back with Score zero and are treated as weak evidence downstream.
type NewsSearcher struct {
	feedURL    string
	maxResults int
	parser     *gofeed.Parser
	logger     logging.Logger
}

// NewNewsSearcher creates a Google News RSS searcher
func NewNewsSearcher(maxResults int) *NewsSearcher {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &NewsSearcher{
		feedURL:    defaultNewsFeedURL,
		maxResults: maxResults,
		parser:     gofeed.NewParser(),
		logger:     logging.GetGlobalLogger(),
	}
}

// Search fetches and parses the news feed for one query
func (n *NewsSearcher) Search(ctx context.Context, query string) models.QueryResult {
	result := models.QueryResult{Query: query}

	feedQuery := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", n.feedURL, url.QueryEscape(query))
	feed, err := n.parser.ParseURLWithContext(feedQuery, ctx)
	if err != nil {
		n.logger.Warn("News feed lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		result.Error = err.Error()
		return result
	}

	result.Success = true
	for i, item := range feed.Items {
		if i >= n.maxResults {
			break
		}
		result.Results = append(result.Results, models.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Content: item.Description,
		})
	}
	return result
}
