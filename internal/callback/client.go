package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"postguard/internal/config"
	"postguard/internal/logging"
)

// Payload is the JSON body pushed to a caller-supplied callback URL when an
// async analysis completes.
type Payload struct {
	ProcessID      string      `json:"processId"`
	Status         string      `json:"status"`
	Data           interface{} `json:"data,omitempty"`
	Error          string      `json:"error,omitempty"`
	Operation      string      `json:"operation"`
	Timestamp      time.Time   `json:"timestamp"`
	ProcessingTime string      `json:"processing_time,omitempty"`
}

// Client delivers completion webhooks with bounded retries
type Client struct {
	httpClient *http.Client
	maxRetries int
	logger     logging.Logger
}

// NewClient creates a webhook callback client from configuration
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Callback.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.Callback.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logging.GetGlobalLogger().WithField("component", "callback"),
	}
}

// Send posts the payload to the callback URL, retrying transient failures
// with linear backoff. A 2xx response is success; anything else after the
// last attempt is the returned error.
func (c *Client) Send(ctx context.Context, callbackURL string, payload *Payload) error {
	if callbackURL == "" {
		return fmt.Errorf("callback URL is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.post(ctx, callbackURL, body)
		if lastErr == nil {
			c.logger.Info("Callback delivered", map[string]interface{}{
				"process_id": payload.ProcessID,
				"url":        callbackURL,
				"attempt":    attempt + 1,
			})
			return nil
		}

		c.logger.Warn("Callback attempt failed", map[string]interface{}{
			"process_id": payload.ProcessID,
			"url":        callbackURL,
			"attempt":    attempt + 1,
			"error":      lastErr.Error(),
		})
	}

	return fmt.Errorf("callback failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, callbackURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
