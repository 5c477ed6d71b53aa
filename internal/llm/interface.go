package llm

import (
	"context"
	"fmt"

	"postguard/pkg/models"
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// ExtractFields pulls structured posting fields out of raw posting text
	ExtractFields(ctx context.Context, posting string) (*models.ExtractionResult, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}

// MalformedResponseError marks a provider response that came back but could
// not be parsed as the requested JSON. Callers fall back to regex extraction
// on this error and treat every other error as provider unavailability.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed LLM response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
