package search

import (
	"context"
	"fmt"

	"postguard/pkg/models"
)

// companyQueryTemplates is the fixed battery run for every company. Order is
// stable so result maps are reproducible across runs.
var companyQueryTemplates = []string{
	"%s official website",
	"%s scam reports complaints",
	"%s scam post reddit",
	"%s LinkedIn company page",
}

const newsQueryTemplate = "%s scam OR fraud"

// Searcher is the corroboration gateway consumed by the analysis pipeline
type Searcher interface {
	SearchCompany(ctx context.Context, companyName string) models.CompanySearchResults
}

// Gateway fans the fixed query battery out to the underlying searchers and
// collects raw, unscored results. Interpretation belongs to the aggregation
// side; the gateway only reports what the web said.
type Gateway struct {
	web  QuerySearcher
	news QuerySearcher
}

// NewGateway builds a corroboration gateway. news may be nil to disable the
// feed-based source.
func NewGateway(web QuerySearcher, news QuerySearcher) *Gateway {
	return &Gateway{web: web, news: news}
}

// SearchCompany runs every query in the battery, keyed by the query text.
// A failed query contributes a failure entry instead of aborting the rest.
func (g *Gateway) SearchCompany(ctx context.Context, companyName string) models.CompanySearchResults {
	results := make(models.CompanySearchResults, len(companyQueryTemplates)+1)

	for _, tmpl := range companyQueryTemplates {
		query := fmt.Sprintf(tmpl, companyName)
		results[query] = g.web.Search(ctx, query)
	}

	if g.news != nil {
		query := fmt.Sprintf(newsQueryTemplate, companyName)
		results[query] = g.news.Search(ctx, query)
	}

	return results
}
