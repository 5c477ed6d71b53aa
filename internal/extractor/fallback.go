package extractor

import (
	"regexp"

	"postguard/pkg/models"
)

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	urlPattern    = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	salaryPattern = regexp.MustCompile(`(?i)\$[\d,]+k?\s*[-–]\s*\$?[\d,]+k?|\$[\d,]+k?`)
)

// FallbackExtract recovers posting fields with plain regex when structured
// extraction is unavailable. Fields the patterns cannot recover stay unset,
// never guessed.
func FallbackExtract(posting string) *models.ExtractionResult {
	result := &models.ExtractionResult{
		Requirements: []string{},
	}

	if match := emailPattern.FindString(posting); match != "" {
		result.ContactInfo.Email = match
	}

	if match := urlPattern.FindString(posting); match != "" {
		result.ContactInfo.Website = match
	}

	if match := salaryPattern.FindString(posting); match != "" {
		result.SalaryRange = match
	}

	return result
}
