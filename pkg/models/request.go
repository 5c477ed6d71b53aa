package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that unmarshals from a JSON duration string
// ("30s", "2m") as well as a nanosecond integer
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}

// AnalyzeRequest represents the request payload for analyzing a job posting
type AnalyzeRequest struct {
	Posting     string          `json:"posting" validate:"required,min=20"`
	CallbackURL string          `json:"callback_url,omitempty" validate:"omitempty,url"`
	Options     *AnalyzeOptions `json:"options,omitempty"`
}

// AnalyzeOptions provides additional configuration for analysis requests
type AnalyzeOptions struct {
	Format      string   `json:"format,omitempty" validate:"omitempty,oneof=text html"` // posting body format
	LLMProvider string   `json:"llm_provider,omitempty" validate:"omitempty,oneof=claude openai"`
	Timeout     Duration `json:"timeout,omitempty"` // overall analysis timeout
}
