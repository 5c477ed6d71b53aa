package analyzer

import (
	"fmt"
	"math"
	"strings"

	"postguard/pkg/models"
)

// Risk bands over the legitimacy score. Stated here once and used by both
// scoring and tests: >=80 low, 60-79 medium, 40-59 high, <40 critical.
const (
	riskLowFloor    = 80
	riskMediumFloor = 60
	riskHighFloor   = 40
)

// Score computes the legitimacy score from a finding set. Every finding
// deducts weight(severity) x confidence from 100; the result is clamped to
// [0, 100]. Pure and order-independent, so re-scoring the same set always
// agrees and adding a finding can only lower the score.
func Score(findings []models.Finding) int {
	total := 0.0
	for _, f := range findings {
		total += float64(f.Severity.Weight()) * f.Confidence
	}

	score := 100 - int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RiskLevelFor bands a legitimacy score into a risk level
func RiskLevelFor(score int) models.RiskLevel {
	switch {
	case score >= riskLowFloor:
		return models.RiskLow
	case score >= riskMediumFloor:
		return models.RiskMedium
	case score >= riskHighFloor:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// Aggregate synthesizes the final verdict from the accumulated findings.
// Missing evidence is neutral: an empty finding set yields a clean verdict,
// not an error.
func Aggregate(findings []models.Finding) (score int, level models.RiskLevel, explanation string, recommendations []string) {
	score = Score(findings)
	level = RiskLevelFor(score)
	explanation = buildExplanation(findings, score, level)
	recommendations = buildRecommendations(findings, level)
	return score, level, explanation, recommendations
}

func buildExplanation(findings []models.Finding, score int, level models.RiskLevel) string {
	if len(findings) == 0 {
		return fmt.Sprintf("No risk indicators were detected; legitimacy score %d/100 (%s risk).", score, level)
	}

	counts := map[models.Severity]int{}
	var worst models.Finding
	for _, f := range findings {
		counts[f.Severity]++
		if f.Severity.Weight() > worst.Severity.Weight() {
			worst = f
		}
	}

	var parts []string
	for _, sev := range []models.Severity{models.SeverityCritical, models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}

	return fmt.Sprintf("Detected %s risk indicator(s); legitimacy score %d/100 (%s risk). Most severe: %s (%s).",
		strings.Join(parts, ", "), score, level, worst.Finding, worst.Evidence)
}

// recommendationsByFinding maps finding tokens to the advice they warrant.
// verification_error carries no advice; it reports degraded evidence, not a
// risk signal the reader can act on.
var recommendationsByFinding = map[string]string{
	"free_email_provider":    "Ask the employer for a corporate email address before proceeding",
	"domain_not_found":       "Do not share personal information; the company's domain does not resolve",
	"new_domain":             "Independently confirm how long the company has existed",
	"relatively_new":         "Independently confirm how long the company has existed",
	"no_history":             "Search for independent references to the company before engaging",
	"scam_reports_found":     "Review the scam reports found online before engaging",
	"no_web_presence":        "Verify the company through an official registry before engaging",
	"upfront_payment":        "Never pay fees or buy equipment to obtain a job",
	"unusual_payment_method": "Treat wire-transfer or cryptocurrency payroll arrangements as a red flag",
	"urgency_language":       "Be wary of pressure to respond or decide immediately",
	"no_experience_high_pay": "Question why high pay is offered for a role with no requirements",
	"invalid_email":          "Confirm the contact details directly with the company",
	"invalid_url":            "Confirm the contact details directly with the company",
}

func buildRecommendations(findings []models.Finding, level models.RiskLevel) []string {
	var recs []string
	seen := map[string]bool{}

	for _, f := range findings {
		advice, ok := recommendationsByFinding[f.Finding]
		if !ok || seen[advice] {
			continue
		}
		seen[advice] = true
		recs = append(recs, advice)
	}

	if level == models.RiskLow {
		recs = append(recs, "Posting shows no strong risk signals; apply normal caution")
	} else {
		recs = append(recs, "Verify the employer through independent channels before sharing personal data")
	}
	return recs
}
