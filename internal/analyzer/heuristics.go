package analyzer

import (
	"fmt"
	"strings"

	"postguard/pkg/models"
)

// Phrase lists for the language and requirements heuristics. Matching is
// case-insensitive substring search over the raw posting text.
var (
	upfrontPaymentPhrases = []string{
		"registration fee",
		"training fee",
		"application fee",
		"processing fee",
		"upfront payment",
		"pay for your equipment",
		"starter kit",
	}

	paymentMethodPhrases = []string{
		"western union",
		"wire transfer",
		"moneygram",
		"bitcoin",
		"cryptocurrency",
		"gift card",
	}

	urgencyPhrases = []string{
		"urgent hiring",
		"immediate start",
		"act now",
		"apply immediately",
		"limited positions",
		"limited slots",
		"don't miss",
	}

	noExperiencePhrases = []string{
		"no experience necessary",
		"no experience needed",
		"no experience required",
		"no skills required",
	}
)

func firstMatch(lowered string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return p, true
		}
	}
	return "", false
}

// HeuristicFindings runs the deterministic language and requirements checks
// over the posting text. No network calls; the same posting always yields
// the same findings.
func HeuristicFindings(posting string, extraction *models.ExtractionResult) []models.Finding {
	lowered := strings.ToLower(posting)
	var findings []models.Finding

	if phrase, ok := firstMatch(lowered, upfrontPaymentPhrases); ok {
		findings = append(findings, models.MustFinding(
			models.CategoryLanguage, models.SeverityCritical,
			"upfront_payment",
			fmt.Sprintf("Posting asks the applicant to pay (%q); legitimate employers do not charge candidates", phrase),
			0.9))
	}

	if phrase, ok := firstMatch(lowered, paymentMethodPhrases); ok {
		findings = append(findings, models.MustFinding(
			models.CategoryLanguage, models.SeverityHigh,
			"unusual_payment_method",
			fmt.Sprintf("Posting mentions an untraceable payment channel (%q)", phrase),
			0.8))
	}

	if phrase, ok := firstMatch(lowered, urgencyPhrases); ok {
		findings = append(findings, models.MustFinding(
			models.CategoryLanguage, models.SeverityMedium,
			"urgency_language",
			fmt.Sprintf("Posting pressures the reader to act immediately (%q)", phrase),
			0.6))
	}

	if phrase, ok := firstMatch(lowered, noExperiencePhrases); ok {
		if extraction != nil && extraction.SalaryRange != "" {
			findings = append(findings, models.MustFinding(
				models.CategoryRequirements, models.SeverityMedium,
				"no_experience_high_pay",
				fmt.Sprintf("Posting offers pay of %s while requiring no experience (%q)", extraction.SalaryRange, phrase),
				0.55))
		} else {
			findings = append(findings, models.MustFinding(
				models.CategoryRequirements, models.SeverityLow,
				"no_experience_required",
				fmt.Sprintf("Posting requires no experience (%q)", phrase),
				0.4))
		}
	}

	return findings
}
