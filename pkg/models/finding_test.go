package models

import "testing"

func TestNewFindingValidation(t *testing.T) {
	tests := []struct {
		name       string
		category   FindingCategory
		severity   Severity
		confidence float64
		wantErr    bool
	}{
		{"valid", CategoryDomain, SeverityCritical, 0.9, false},
		{"zero confidence", CategoryContact, SeverityLow, 0.0, false},
		{"full confidence", CategoryCompany, SeverityHigh, 1.0, false},
		{"unknown category", FindingCategory("salary"), SeverityLow, 0.5, true},
		{"unknown severity", CategoryLanguage, Severity("extreme"), 0.5, true},
		{"confidence above range", CategoryDomain, SeverityMedium, 1.01, true},
		{"confidence below range", CategoryDomain, SeverityMedium, -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFinding(tt.category, tt.severity, "f", "e", tt.confidence)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFinding() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	order := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Weight() <= order[i-1].Weight() {
			t.Errorf("severity %s weight %d not greater than %s weight %d",
				order[i], order[i].Weight(), order[i-1], order[i-1].Weight())
		}
	}
}

func TestAnalysisStateAppendMerge(t *testing.T) {
	state := NewAnalysisState("posting")

	email := MustFinding(CategoryContact, SeverityCritical, "free_email_provider", "gmail.com", 0.95)
	website := MustFinding(CategoryDomain, SeverityHigh, "new_domain", "30 days old", 0.8)
	second := MustFinding(CategoryContact, SeverityMedium, "invalid_email", "bad@", 0.7)

	state.AddFindings(SourceWebsiteDomain, website)
	state.AddFindings(SourceEmailDomain, email)
	state.AddFindings(SourceEmailDomain, second)

	all := state.Findings()
	if len(all) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(all))
	}
	// Fixed source order: email domain findings first regardless of
	// insertion order, appended within a source.
	if all[0] != email || all[1] != second || all[2] != website {
		t.Errorf("findings not in fixed source order: %+v", all)
	}
}

func TestAnalysisStateVerdictWriteOnce(t *testing.T) {
	state := NewAnalysisState("posting")

	if err := state.SetVerdict(85, RiskLow, "looks fine", nil); err != nil {
		t.Fatalf("first SetVerdict: %v", err)
	}
	if err := state.SetVerdict(10, RiskCritical, "changed my mind", nil); err == nil {
		t.Fatal("second SetVerdict should fail")
	}
	if *state.LegitimacyScore != 85 || state.RiskLevel != RiskLow {
		t.Errorf("verdict mutated by second write: score=%d level=%s", *state.LegitimacyScore, state.RiskLevel)
	}
}

func TestAnalysisStateVerdictRange(t *testing.T) {
	if err := NewAnalysisState("p").SetVerdict(101, RiskLow, "", nil); err == nil {
		t.Error("score above 100 should be rejected")
	}
	if err := NewAnalysisState("p").SetVerdict(-1, RiskCritical, "", nil); err == nil {
		t.Error("negative score should be rejected")
	}
}
