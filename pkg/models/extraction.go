package models

// ContactInfo holds the contact fields pulled from a posting. Keys the
// extractor could not recover stay empty rather than guessed.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// ExtractionResult is the structured information pulled from raw posting
// text. It is produced once per posting and immutable afterwards.
type ExtractionResult struct {
	CompanyName  string      `json:"company_name,omitempty"`
	JobTitle     string      `json:"job_title,omitempty"`
	Requirements []string    `json:"requirements"`
	ContactInfo  ContactInfo `json:"contact_info"`
	SalaryRange  string      `json:"salary_range,omitempty"`
}

// Empty reports whether extraction recovered nothing at all. Downstream
// checks treat an empty result as "no evidence available", not as an error.
func (e *ExtractionResult) Empty() bool {
	return e.CompanyName == "" &&
		e.JobTitle == "" &&
		len(e.Requirements) == 0 &&
		e.SalaryRange == "" &&
		e.ContactInfo == (ContactInfo{})
}
