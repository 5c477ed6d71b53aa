package llm

import (
	"errors"
	"testing"
)

func TestParseExtractionResponse(t *testing.T) {
	raw := `{
		"company_name": "Acme Corp",
		"job_title": "Senior Software Engineer",
		"requirements": ["5+ years Python", "Bachelor's degree"],
		"contact_info": {"email": "jobs@acme.com", "phone": null, "website": "acme.com"},
		"salary_range": "$120k-150k",
		"location": "Remote"
	}`

	result, err := ParseExtractionResponse(raw)
	if err != nil {
		t.Fatalf("ParseExtractionResponse: %v", err)
	}

	if result.CompanyName != "Acme Corp" {
		t.Errorf("company = %q", result.CompanyName)
	}
	if result.ContactInfo.Email != "jobs@acme.com" {
		t.Errorf("email = %q", result.ContactInfo.Email)
	}
	if result.ContactInfo.Location != "Remote" {
		t.Errorf("location not folded into contact info: %q", result.ContactInfo.Location)
	}
	if len(result.Requirements) != 2 {
		t.Errorf("requirements = %v", result.Requirements)
	}
}

func TestParseExtractionResponseStripsFences(t *testing.T) {
	fenced := "```json\n{\"company_name\": \"Acme\", \"contact_info\": {}}\n```"
	result, err := ParseExtractionResponse(fenced)
	if err != nil {
		t.Fatalf("fenced response should parse: %v", err)
	}
	if result.CompanyName != "Acme" {
		t.Errorf("company = %q", result.CompanyName)
	}
}

func TestParseExtractionResponseMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```\ngarbage\n```"} {
		_, err := ParseExtractionResponse(raw)
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Errorf("ParseExtractionResponse(%q) error = %v, want MalformedResponseError", raw, err)
		}
	}
}

func TestNormalizeSalary(t *testing.T) {
	tests := map[string]string{
		"Not specified": "",
		"null":          "",
		"N/A":           "",
		"$120k-150k":    "$120k-150k",
	}
	for in, want := range tests {
		if got := normalizeSalary(in); got != want {
			t.Errorf("normalizeSalary(%q) = %q, want %q", in, got, want)
		}
	}
}
