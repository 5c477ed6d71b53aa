package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"postguard/pkg/models"
)

// BuildExtractionPrompt creates the shared prompt demanding strict JSON with
// the ExtractionResult fields. Both providers use the same template so their
// outputs stay interchangeable.
func BuildExtractionPrompt(posting string) string {
	return fmt.Sprintf(`You are an expert at analyzing job postings and extracting structured information.

Given this job posting, extract the following information in JSON format:

1. company_name: The company's name (if mentioned)
2. job_title: The job title/position
3. requirements: List of key requirements (experience, skills, education)
4. contact_info: Object with email, phone, website if mentioned
5. salary_range: Salary information if mentioned
6. location: Job location (remote/city/etc)

Job Posting:
%s

Return ONLY valid JSON with exactly these fields. If something isn't mentioned, use null or an empty list.
Example format:
{
    "company_name": "Acme Corp",
    "job_title": "Senior Software Engineer",
    "requirements": ["5+ years Python", "Bachelor's degree"],
    "contact_info": {
        "email": "jobs@acme.com",
        "phone": null,
        "website": "acme.com"
    },
    "salary_range": "$120k-150k",
    "location": "Remote"
}

Your JSON response:`, posting)
}

// extractionPayload mirrors the JSON shape the prompt demands
type extractionPayload struct {
	CompanyName  string   `json:"company_name"`
	JobTitle     string   `json:"job_title"`
	Requirements []string `json:"requirements"`
	ContactInfo  struct {
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Website string `json:"website"`
	} `json:"contact_info"`
	SalaryRange string `json:"salary_range"`
	Location    string `json:"location"`
}

// ParseExtractionResponse strips any markdown code fences from a provider
// response and parses the strict-JSON payload. Parse failures return a
// MalformedResponseError so callers can fall back deterministically.
func ParseExtractionResponse(responseText string) (*models.ExtractionResult, error) {
	cleaned := StripCodeFences(responseText)
	if cleaned == "" {
		return nil, &MalformedResponseError{Raw: responseText, Err: fmt.Errorf("empty response")}
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &MalformedResponseError{Raw: responseText, Err: err}
	}

	result := &models.ExtractionResult{
		CompanyName:  payload.CompanyName,
		JobTitle:     payload.JobTitle,
		Requirements: payload.Requirements,
		ContactInfo: models.ContactInfo{
			Email:    payload.ContactInfo.Email,
			Phone:    payload.ContactInfo.Phone,
			Website:  payload.ContactInfo.Website,
			Location: payload.Location,
		},
		SalaryRange: normalizeSalary(payload.SalaryRange),
	}

	return result, nil
}

// StripCodeFences removes markdown code-block wrapping from a response
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// normalizeSalary drops placeholder values models emit despite the prompt
func normalizeSalary(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "not specified", "n/a", "none":
		return ""
	}
	return s
}
