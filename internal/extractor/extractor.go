package extractor

import (
	"context"
	"errors"

	"postguard/internal/llm"
	"postguard/internal/llm/processors"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// FieldSource is the LLM boundary the extractor delegates to
type FieldSource interface {
	ExtractFields(ctx context.Context, posting string) (*models.ExtractionResult, error)
}

// NamedFieldSource is implemented by sources that can route extraction to a
// caller-selected provider.
type NamedFieldSource interface {
	ExtractFieldsWith(ctx context.Context, posting, providerName string) (*models.ExtractionResult, error)
}

// Extractor produces the one ExtractionResult per posting. The primary path
// is LLM extraction; a malformed response degrades to regex recovery and any
// other provider failure degrades to an all-empty result. Extraction never
// fails the pipeline.
type Extractor struct {
	source  FieldSource
	cleaner *processors.HTMLCleaner
	logger  logging.Logger
}

// New creates an extractor backed by the given field source
func New(source FieldSource) *Extractor {
	return &Extractor{
		source:  source,
		cleaner: processors.NewHTMLCleaner(),
		logger:  logging.GetGlobalLogger(),
	}
}

// Extract pulls structured fields from a posting. format is "text" or
// "html"; HTML postings are reduced to their posting body first.
func (e *Extractor) Extract(ctx context.Context, posting, format string) *models.ExtractionResult {
	return e.ExtractWith(ctx, posting, format, "")
}

// ExtractWith is Extract with an explicit provider selection. providerName
// is ignored when empty or when the source cannot route by provider.
func (e *Extractor) ExtractWith(ctx context.Context, posting, format, providerName string) *models.ExtractionResult {
	if format == "html" {
		text, err := e.cleaner.ExtractPostingText(posting)
		if err != nil || text == "" {
			e.logger.Warn("HTML posting could not be cleaned, using raw body", map[string]interface{}{
				"error": errString(err),
			})
		} else {
			posting = text
		}
	}

	var result *models.ExtractionResult
	var err error
	if named, ok := e.source.(NamedFieldSource); ok && providerName != "" {
		result, err = named.ExtractFieldsWith(ctx, posting, providerName)
	} else {
		result, err = e.source.ExtractFields(ctx, posting)
	}
	if err == nil {
		return normalize(result)
	}

	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		e.logger.Warn("LLM returned unparsable extraction, using regex fallback", map[string]interface{}{
			"error": malformed.Error(),
		})
		return FallbackExtract(posting)
	}

	// Provider unavailable (network, auth, quota): no evidence, not an error
	e.logger.Warn("LLM extraction unavailable, continuing with empty result", map[string]interface{}{
		"error": err.Error(),
	})
	return &models.ExtractionResult{Requirements: []string{}}
}

func normalize(result *models.ExtractionResult) *models.ExtractionResult {
	if result.Requirements == nil {
		result.Requirements = []string{}
	}
	return result
}

func errString(err error) string {
	if err == nil {
		return "empty document"
	}
	return err.Error()
}
