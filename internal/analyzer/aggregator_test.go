package analyzer

import (
	"math/rand"
	"testing"

	"postguard/pkg/models"
)

func TestScoreEmptyFindings(t *testing.T) {
	if got := Score(nil); got != 100 {
		t.Errorf("empty finding set should score 100, got %d", got)
	}
}

func TestScoreDeductions(t *testing.T) {
	tests := []struct {
		name     string
		findings []models.Finding
		want     int
	}{
		{
			name: "single critical at full confidence",
			findings: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityCritical, "free_email_provider", "uses gmail.com", 1.0),
			},
			want: 60,
		},
		{
			name: "free provider at its fixed confidence",
			findings: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityCritical, "free_email_provider", "uses gmail.com", 0.95),
			},
			want: 62,
		},
		{
			name: "low finding barely moves the needle",
			findings: []models.Finding{
				models.MustFinding(models.CategoryRequirements, models.SeverityLow, "no_experience_required", "no experience needed", 0.4),
			},
			want: 98,
		},
		{
			name: "many criticals clamp at zero",
			findings: []models.Finding{
				models.MustFinding(models.CategoryContact, models.SeverityCritical, "a", "", 1.0),
				models.MustFinding(models.CategoryDomain, models.SeverityCritical, "b", "", 1.0),
				models.MustFinding(models.CategoryLanguage, models.SeverityCritical, "c", "", 1.0),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.findings); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskLevelBands(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskLevel
	}{
		{100, models.RiskLow},
		{80, models.RiskLow},
		{79, models.RiskMedium},
		{60, models.RiskMedium},
		{59, models.RiskHigh},
		{40, models.RiskHigh},
		{39, models.RiskCritical},
		{0, models.RiskCritical},
	}
	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func randomFinding(rng *rand.Rand) models.Finding {
	categories := []models.FindingCategory{
		models.CategoryLanguage, models.CategoryCompany,
		models.CategoryRequirements, models.CategoryContact, models.CategoryDomain,
	}
	severities := []models.Severity{
		models.SeverityLow, models.SeverityMedium,
		models.SeverityHigh, models.SeverityCritical,
	}
	return models.MustFinding(
		categories[rng.Intn(len(categories))],
		severities[rng.Intn(len(severities))],
		"randomized", "generated evidence",
		rng.Float64(),
	)
}

func TestScoreMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(8)
		findings := make([]models.Finding, 0, n+1)
		for j := 0; j < n; j++ {
			findings = append(findings, randomFinding(rng))
		}

		before := Score(findings)
		after := Score(append(findings, randomFinding(rng)))

		if after > before {
			t.Fatalf("adding a finding increased the score: %d -> %d (set %+v)", before, after, findings)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	findings := make([]models.Finding, 6)
	for i := range findings {
		findings[i] = randomFinding(rng)
	}

	s1, l1, e1, r1 := Aggregate(findings)
	s2, l2, e2, r2 := Aggregate(findings)

	if s1 != s2 || l1 != l2 || e1 != e2 {
		t.Errorf("re-aggregation diverged: (%d,%s) vs (%d,%s)", s1, l1, s2, l2)
	}
	if len(r1) != len(r2) {
		t.Fatalf("recommendation counts diverged: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("recommendation %d diverged: %q vs %q", i, r1[i], r2[i])
		}
	}
}

func TestAggregateNoFindings(t *testing.T) {
	score, level, explanation, recs := Aggregate(nil)

	if score != 100 || level != models.RiskLow {
		t.Errorf("clean posting should be 100/low, got %d/%s", score, level)
	}
	if explanation == "" {
		t.Error("explanation must be produced even without findings")
	}
	if len(recs) == 0 {
		t.Error("a baseline recommendation is always emitted")
	}
}

func TestAggregateRecommendationsDeduplicated(t *testing.T) {
	findings := []models.Finding{
		models.MustFinding(models.CategoryDomain, models.SeverityHigh, "new_domain", "30 days old", 0.85),
		models.MustFinding(models.CategoryDomain, models.SeverityMedium, "relatively_new", "200 days old", 0.7),
	}

	_, _, _, recs := Aggregate(findings)

	seen := map[string]int{}
	for _, r := range recs {
		seen[r]++
		if seen[r] > 1 {
			t.Errorf("duplicate recommendation: %q", r)
		}
	}
}
