package models

import "time"

// Verdict is the externally visible outcome of one analysis
type Verdict struct {
	Extraction      *ExtractionResult `json:"extraction,omitempty"`
	Findings        []Finding         `json:"findings"`
	LegitimacyScore int               `json:"legitimacy_score"`
	RiskLevel       RiskLevel         `json:"risk_level"`
	Explanation     string            `json:"explanation"`
	Recommendations []string          `json:"recommendations"`
}

// AnalyzeResponse represents the response from an analyze request
type AnalyzeResponse struct {
	Success        bool          `json:"success"`
	Verdict        *Verdict      `json:"verdict,omitempty"`
	Error          string        `json:"error,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// AsyncAnalyzeResponse is returned immediately for async analysis requests
type AsyncAnalyzeResponse struct {
	ProcessID string    `json:"processId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
