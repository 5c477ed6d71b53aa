package analyzer

import (
	"testing"

	"postguard/pkg/models"
)

func findingTokens(findings []models.Finding) []string {
	tokens := make([]string, len(findings))
	for i, f := range findings {
		tokens[i] = f.Finding
	}
	return tokens
}

func hasToken(findings []models.Finding, token string) bool {
	for _, f := range findings {
		if f.Finding == token {
			return true
		}
	}
	return false
}

func TestHeuristicFindings(t *testing.T) {
	tests := []struct {
		name       string
		posting    string
		extraction *models.ExtractionResult
		want       []string
	}{
		{
			name:       "clean posting",
			posting:    "Senior Go engineer at Acme Corp. 5+ years of backend experience required. Apply via careers page.",
			extraction: &models.ExtractionResult{CompanyName: "Acme Corp"},
			want:       nil,
		},
		{
			name:       "registration fee",
			posting:    "To secure your position please pay the Registration Fee of $50.",
			extraction: &models.ExtractionResult{},
			want:       []string{"upfront_payment"},
		},
		{
			name:       "wire transfer payroll",
			posting:    "Salary paid weekly via Western Union.",
			extraction: &models.ExtractionResult{},
			want:       []string{"unusual_payment_method"},
		},
		{
			name:       "urgency pressure",
			posting:    "URGENT HIRING! Immediate start for data entry clerks.",
			extraction: &models.ExtractionResult{},
			want:       []string{"urgency_language"},
		},
		{
			name:       "no experience with high salary",
			posting:    "Earn big! No experience necessary. $120k-$150k.",
			extraction: &models.ExtractionResult{SalaryRange: "$120k-$150k"},
			want:       []string{"no_experience_high_pay"},
		},
		{
			name:       "no experience without salary",
			posting:    "Entry level role, no experience needed.",
			extraction: &models.ExtractionResult{},
			want:       []string{"no_experience_required"},
		},
		{
			name:       "stacked signals",
			posting:    "URGENT HIRING! No experience required. Pay the training fee via gift card.",
			extraction: &models.ExtractionResult{},
			want:       []string{"upfront_payment", "unusual_payment_method", "urgency_language", "no_experience_required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeuristicFindings(tt.posting, tt.extraction)
			if len(got) != len(tt.want) {
				t.Fatalf("got tokens %v, want %v", findingTokens(got), tt.want)
			}
			for i, token := range tt.want {
				if got[i].Finding != token {
					t.Errorf("finding %d = %s, want %s", i, got[i].Finding, token)
				}
			}
		})
	}
}

func TestHeuristicSeverities(t *testing.T) {
	findings := HeuristicFindings("pay the application fee by bitcoin, act now", &models.ExtractionResult{})

	severityFor := map[string]models.Severity{}
	for _, f := range findings {
		severityFor[f.Finding] = f.Severity
	}

	if severityFor["upfront_payment"] != models.SeverityCritical {
		t.Errorf("upfront_payment severity = %s", severityFor["upfront_payment"])
	}
	if severityFor["unusual_payment_method"] != models.SeverityHigh {
		t.Errorf("unusual_payment_method severity = %s", severityFor["unusual_payment_method"])
	}
	if severityFor["urgency_language"] != models.SeverityMedium {
		t.Errorf("urgency_language severity = %s", severityFor["urgency_language"])
	}
}

func TestHeuristicsDeterministic(t *testing.T) {
	posting := "Urgent hiring! No skills required, pay processing fee via moneygram."
	first := HeuristicFindings(posting, &models.ExtractionResult{})
	second := HeuristicFindings(posting, &models.ExtractionResult{})

	if len(first) != len(second) {
		t.Fatalf("non-deterministic finding count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("finding %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}
