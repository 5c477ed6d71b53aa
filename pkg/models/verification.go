package models

// AgeInfo carries archive-derived domain age evidence. Present only when a
// snapshot was found.
type AgeInfo struct {
	FirstSeen string  `json:"first_seen,omitempty"`
	AgeDays   int     `json:"age_days"`
	AgeYears  float64 `json:"age_years"`
}

// DomainVerificationResult is the outcome of a single domain-check request.
// A result is always returned: failures of the underlying lookups surface as
// findings with Success=false, never as errors to the caller.
type DomainVerificationResult struct {
	Success        bool      `json:"success"`
	Domain         string    `json:"domain,omitempty"`
	Exists         bool      `json:"exists"`
	IPAddress      string    `json:"ip_address,omitempty"`
	IsFreeProvider bool      `json:"is_free_provider"`
	AgeInfo        *AgeInfo  `json:"age_info,omitempty"`
	Error          string    `json:"error,omitempty"`
	Flags          []Finding `json:"flags"`
}

// SearchResult is one entry returned by the web corroboration gateway
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// QueryResult is the raw, unscored outcome of a single corroboration query
type QueryResult struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// CompanySearchResults maps each fixed corroboration query to its result set
type CompanySearchResults map[string]QueryResult
