package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"postguard/pkg/models"
)

// scamMarkers flag a search result as discussing fraud when found in its
// title or snippet.
var scamMarkers = []string{"scam", "fraud", "complaint", "fake job", "warning"}

func mentionsScam(r models.SearchResult) bool {
	text := strings.ToLower(r.Title + " " + r.Content)
	for _, marker := range scamMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// CorroborationFindings interprets the raw corroboration result map into
// findings. The gateway stays unscored; all judgment happens here, over a
// sorted view of the map so repeated runs agree.
func CorroborationFindings(companyName string, results models.CompanySearchResults) []models.Finding {
	if len(results) == 0 {
		return nil
	}

	queries := make([]string, 0, len(results))
	for q := range results {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	succeeded := 0
	totalResults := 0
	scamHits := 0
	scamSample := ""

	for _, query := range queries {
		qr := results[query]
		if !qr.Success {
			continue
		}
		succeeded++
		totalResults += len(qr.Results)

		// Only the fraud-oriented queries are read for scam evidence;
		// a hit for "X scam reports" on an unrelated query text would
		// be noise.
		if !strings.Contains(strings.ToLower(query), "scam") && !strings.Contains(strings.ToLower(query), "fraud") {
			continue
		}
		for _, r := range qr.Results {
			if mentionsScam(r) {
				scamHits++
				if scamSample == "" {
					scamSample = r.URL
				}
			}
		}
	}

	if succeeded == 0 {
		return []models.Finding{models.MustFinding(
			models.CategoryCompany, models.SeverityMedium,
			"verification_error",
			fmt.Sprintf("All corroboration queries for %q failed; no web evidence available", companyName),
			0.5)}
	}

	var findings []models.Finding

	if scamHits > 0 {
		findings = append(findings, models.MustFinding(
			models.CategoryCompany, models.SeverityHigh,
			"scam_reports_found",
			fmt.Sprintf("%d search result(s) discuss scam or fraud reports about %q (e.g. %s)", scamHits, companyName, scamSample),
			0.7))
	}

	if totalResults == 0 {
		findings = append(findings, models.MustFinding(
			models.CategoryCompany, models.SeverityMedium,
			"no_web_presence",
			fmt.Sprintf("No search results found for %q across %d queries", companyName, succeeded),
			0.6))
	}

	return findings
}
