package models

import (
	"fmt"
	"sync"
)

// RiskLevel is the coarse banding of a legitimacy score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// FindingSource identifies which check produced a finding slice. Sources are
// also the fixed merge order when concurrent checks join.
type FindingSource string

const (
	SourceEmailDomain   FindingSource = "email_domain"
	SourceWebsiteDomain FindingSource = "website_domain"
	SourceCorroboration FindingSource = "corroboration"
	SourceHeuristics    FindingSource = "heuristics"
)

// FindingSources is the documented concatenation order for the per-check
// finding slices after all concurrent checks have joined.
var FindingSources = []FindingSource{
	SourceEmailDomain,
	SourceWebsiteDomain,
	SourceCorroboration,
	SourceHeuristics,
}

// AnalysisState accumulates everything the pipeline learns about one
// posting: the extraction result, the findings from each check, and the
// final verdict. Finding slices combine by append only; the verdict fields
// are write-once.
type AnalysisState struct {
	mu sync.Mutex

	Posting    string            `json:"-"`
	Extraction *ExtractionResult `json:"extraction,omitempty"`

	findings map[FindingSource][]Finding

	LegitimacyScore *int      `json:"legitimacy_score,omitempty"`
	RiskLevel       RiskLevel `json:"risk_level,omitempty"`
	Explanation     string    `json:"explanation,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// NewAnalysisState creates the shared record for a single posting analysis
func NewAnalysisState(posting string) *AnalysisState {
	return &AnalysisState{
		Posting:  posting,
		findings: make(map[FindingSource][]Finding),
	}
}

// AddFindings appends findings produced by one check. Appending never
// replaces earlier findings from the same or any other source.
func (s *AnalysisState) AddFindings(source FindingSource, findings ...Finding) {
	if len(findings) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings[source] = append(s.findings[source], findings...)
}

// Findings returns all accumulated findings concatenated in the fixed
// source order, regardless of which check finished first.
func (s *AnalysisState) Findings() []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []Finding
	for _, source := range FindingSources {
		all = append(all, s.findings[source]...)
	}
	return all
}

// FindingsBySource returns the finding slice for a single check
func (s *AnalysisState) FindingsBySource(source FindingSource) []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Finding, len(s.findings[source]))
	copy(out, s.findings[source])
	return out
}

// Verdict snapshots the state into its externally visible form. Returns nil
// when no verdict has been recorded yet.
func (s *AnalysisState) Verdict() *Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LegitimacyScore == nil {
		return nil
	}

	var all []Finding
	for _, source := range FindingSources {
		all = append(all, s.findings[source]...)
	}

	return &Verdict{
		Extraction:      s.Extraction,
		Findings:        all,
		LegitimacyScore: *s.LegitimacyScore,
		RiskLevel:       s.RiskLevel,
		Explanation:     s.Explanation,
		Recommendations: s.Recommendations,
	}
}

// SetVerdict records the final score and synthesis. It may be called exactly
// once, after every finding-producing check has reached a terminal state.
func (s *AnalysisState) SetVerdict(score int, level RiskLevel, explanation string, recommendations []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LegitimacyScore != nil {
		return fmt.Errorf("verdict already set (score=%d)", *s.LegitimacyScore)
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("legitimacy score %d out of range [0, 100]", score)
	}

	s.LegitimacyScore = &score
	s.RiskLevel = level
	s.Explanation = explanation
	s.Recommendations = recommendations
	return nil
}
