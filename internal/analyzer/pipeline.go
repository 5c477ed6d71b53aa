package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"postguard/internal/extractor"
	"postguard/internal/logging"
	"postguard/internal/search"
	"postguard/internal/verifier"
	"postguard/pkg/models"
)

// Pipeline runs one posting through extraction, the concurrent verification
// checks, and aggregation. Checks are independent given the extraction
// result; each writes into its own slot of the analysis state and the slots
// are concatenated in fixed order after the join.
type Pipeline struct {
	extractor *extractor.Extractor
	verifier  *verifier.Verifier
	searcher  search.Searcher
	logger    logging.Logger
}

// NewPipeline wires the analysis pipeline from its collaborators
func NewPipeline(ext *extractor.Extractor, v *verifier.Verifier, s search.Searcher) *Pipeline {
	return &Pipeline{
		extractor: ext,
		verifier:  v,
		searcher:  s,
		logger:    logging.GetGlobalLogger(),
	}
}

// checkCategory is the category a check's own failures are reported under
var checkCategory = map[models.FindingSource]models.FindingCategory{
	models.SourceEmailDomain:   models.CategoryDomain,
	models.SourceWebsiteDomain: models.CategoryDomain,
	models.SourceCorroboration: models.CategoryCompany,
	models.SourceHeuristics:    models.CategoryLanguage,
}

// Analyze produces a complete verdict for one posting. It never returns an
// error: every check degrades to findings, and cancellation mid-flight still
// yields a partial-evidence verdict from whatever completed.
func (p *Pipeline) Analyze(ctx context.Context, posting, format, llmProvider string) *models.AnalysisState {
	state := models.NewAnalysisState(posting)
	state.Extraction = p.extractor.ExtractWith(ctx, posting, format, llmProvider)

	g, _ := errgroup.WithContext(ctx)
	g.Go(p.runCheck(ctx, state, models.SourceEmailDomain, p.checkEmailDomain))
	g.Go(p.runCheck(ctx, state, models.SourceWebsiteDomain, p.checkWebsiteDomain))
	g.Go(p.runCheck(ctx, state, models.SourceCorroboration, p.checkCorroboration))
	g.Go(p.runCheck(ctx, state, models.SourceHeuristics, p.checkHeuristics))

	// Checks never return errors; Wait is purely the join point.
	_ = g.Wait()

	score, level, explanation, recommendations := Aggregate(state.Findings())
	if err := state.SetVerdict(score, level, explanation, recommendations); err != nil {
		p.logger.Error("Failed to record verdict", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return state
}

// runCheck wraps one check so a panic inside it becomes a finding instead
// of taking down the whole analysis.
func (p *Pipeline) runCheck(ctx context.Context, state *models.AnalysisState, source models.FindingSource, check func(ctx context.Context, state *models.AnalysisState) []models.Finding) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Check panicked", map[string]interface{}{
					"source": string(source),
					"panic":  fmt.Sprintf("%v", r),
				})
				state.AddFindings(source, models.MustFinding(
					checkCategory[source], models.SeverityMedium,
					"verification_error",
					fmt.Sprintf("Internal error during %s check", source),
					0.5))
			}
		}()
		state.AddFindings(source, check(ctx, state)...)
		return nil
	}
}

func (p *Pipeline) checkEmailDomain(ctx context.Context, state *models.AnalysisState) []models.Finding {
	email := state.Extraction.ContactInfo.Email
	if email == "" {
		return nil
	}
	return p.verifier.VerifyEmailDomain(ctx, email).Flags
}

func (p *Pipeline) checkWebsiteDomain(ctx context.Context, state *models.AnalysisState) []models.Finding {
	website := state.Extraction.ContactInfo.Website
	if website == "" {
		return nil
	}
	return p.verifier.VerifyWebsiteDomain(ctx, website).Flags
}

func (p *Pipeline) checkCorroboration(ctx context.Context, state *models.AnalysisState) []models.Finding {
	company := state.Extraction.CompanyName
	if company == "" {
		return nil
	}
	results := p.searcher.SearchCompany(ctx, company)
	return CorroborationFindings(company, results)
}

func (p *Pipeline) checkHeuristics(ctx context.Context, state *models.AnalysisState) []models.Finding {
	return HeuristicFindings(state.Posting, state.Extraction)
}
