package models

import "fmt"

// FindingCategory classifies which aspect of a posting a finding is about
type FindingCategory string

const (
	CategoryLanguage     FindingCategory = "language"
	CategoryCompany      FindingCategory = "company"
	CategoryRequirements FindingCategory = "requirements"
	CategoryContact      FindingCategory = "contact"
	CategoryDomain       FindingCategory = "domain"
)

// Severity represents how strongly a finding weighs against a posting
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityWeights orders severities by score deduction per unit confidence
var severityWeights = map[Severity]int{
	SeverityLow:      5,
	SeverityMedium:   12,
	SeverityHigh:     25,
	SeverityCritical: 40,
}

// Weight returns the score deduction applied per unit of confidence
func (s Severity) Weight() int {
	return severityWeights[s]
}

// Valid reports whether the severity is a member of the closed enumeration
func (s Severity) Valid() bool {
	_, ok := severityWeights[s]
	return ok
}

// Valid reports whether the category is a member of the closed enumeration
func (c FindingCategory) Valid() bool {
	switch c {
	case CategoryLanguage, CategoryCompany, CategoryRequirements, CategoryContact, CategoryDomain:
		return true
	}
	return false
}

// Finding is a single unit of evidence about posting legitimacy
type Finding struct {
	Category   FindingCategory `json:"category"`
	Severity   Severity        `json:"severity"`
	Finding    string          `json:"finding"`
	Evidence   string          `json:"evidence"`
	Confidence float64         `json:"confidence"`
}

// NewFinding constructs a validated finding. Unknown categories or
// severities and out-of-range confidence are construction errors, never
// silently defaulted.
func NewFinding(category FindingCategory, severity Severity, finding, evidence string, confidence float64) (Finding, error) {
	if !category.Valid() {
		return Finding{}, fmt.Errorf("unknown finding category: %q", category)
	}
	if !severity.Valid() {
		return Finding{}, fmt.Errorf("unknown finding severity: %q", severity)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return Finding{}, fmt.Errorf("confidence %v out of range [0.0, 1.0]", confidence)
	}
	return Finding{
		Category:   category,
		Severity:   severity,
		Finding:    finding,
		Evidence:   evidence,
		Confidence: confidence,
	}, nil
}

// MustFinding is NewFinding for findings built from compile-time constants
func MustFinding(category FindingCategory, severity Severity, finding, evidence string, confidence float64) Finding {
	f, err := NewFinding(category, severity, finding, evidence, confidence)
	if err != nil {
		panic(err)
	}
	return f
}
