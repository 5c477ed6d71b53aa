package analyzer

import (
	"testing"

	"postguard/pkg/models"
)

func TestCorroborationScamReports(t *testing.T) {
	results := models.CompanySearchResults{
		"Acme Corp official website": {
			Success: true,
			Query:   "Acme Corp official website",
			Results: []models.SearchResult{{Title: "Acme Corp", URL: "https://acme.com", Content: "Official site"}},
		},
		"Acme Corp scam reports complaints": {
			Success: true,
			Query:   "Acme Corp scam reports complaints",
			Results: []models.SearchResult{
				{Title: "Acme Corp scam warning", URL: "https://reports.example/acme", Content: "Multiple complaints filed"},
			},
		},
	}

	findings := CorroborationFindings("Acme Corp", results)

	if !hasToken(findings, "scam_reports_found") {
		t.Fatalf("expected scam_reports_found, got %v", findingTokens(findings))
	}
	for _, f := range findings {
		if f.Finding == "scam_reports_found" && f.Severity != models.SeverityHigh {
			t.Errorf("scam_reports_found severity = %s", f.Severity)
		}
	}
}

func TestCorroborationScamMarkersOnlyReadFromFraudQueries(t *testing.T) {
	// A hit discussing scams under the official-website query is noise,
	// not evidence about this company.
	results := models.CompanySearchResults{
		"Acme Corp official website": {
			Success: true,
			Query:   "Acme Corp official website",
			Results: []models.SearchResult{{Title: "How to spot a job scam", URL: "https://blog.example", Content: "general advice"}},
		},
	}

	findings := CorroborationFindings("Acme Corp", results)
	if hasToken(findings, "scam_reports_found") {
		t.Errorf("scam marker outside fraud queries must not fire: %v", findingTokens(findings))
	}
}

func TestCorroborationNoWebPresence(t *testing.T) {
	results := models.CompanySearchResults{
		"Ghost LLC official website":        {Success: true, Query: "Ghost LLC official website"},
		"Ghost LLC LinkedIn company page":   {Success: true, Query: "Ghost LLC LinkedIn company page"},
		"Ghost LLC scam reports complaints": {Success: true, Query: "Ghost LLC scam reports complaints"},
	}

	findings := CorroborationFindings("Ghost LLC", results)
	if len(findings) != 1 || findings[0].Finding != "no_web_presence" {
		t.Errorf("expected single no_web_presence finding, got %v", findingTokens(findings))
	}
}

func TestCorroborationAllQueriesFailed(t *testing.T) {
	results := models.CompanySearchResults{
		"Acme Corp official website":        {Query: "Acme Corp official website", Error: "timeout"},
		"Acme Corp scam reports complaints": {Query: "Acme Corp scam reports complaints", Error: "timeout"},
	}

	findings := CorroborationFindings("Acme Corp", results)
	if len(findings) != 1 || findings[0].Finding != "verification_error" {
		t.Fatalf("expected single verification_error, got %v", findingTokens(findings))
	}
	if findings[0].Severity != models.SeverityMedium {
		t.Errorf("verification_error severity = %s", findings[0].Severity)
	}
}

func TestCorroborationEmptyMap(t *testing.T) {
	if findings := CorroborationFindings("Acme Corp", nil); findings != nil {
		t.Errorf("no results should yield no findings, got %v", findingTokens(findings))
	}
}

func TestCorroborationDeterministicAcrossMapOrder(t *testing.T) {
	results := models.CompanySearchResults{}
	for _, q := range []string{"q1 scam", "q2 scam", "q3 scam"} {
		results[q] = models.QueryResult{
			Success: true,
			Query:   q,
			Results: []models.SearchResult{{Title: "fraud report", URL: "https://" + q + ".example", Content: "scam"}},
		}
	}

	first := CorroborationFindings("Acme Corp", results)
	for i := 0; i < 20; i++ {
		again := CorroborationFindings("Acme Corp", results)
		if len(again) != len(first) || again[0].Evidence != first[0].Evidence {
			t.Fatalf("map iteration leaked into output: %+v vs %+v", first, again)
		}
	}
}
