package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ArchiveClient is the historical-archive boundary used to estimate domain
// age from the earliest known snapshot.
type ArchiveClient interface {
	// FirstSnapshot returns the earliest archived snapshot date for a
	// domain. found=false with a nil error is a valid "never archived"
	// answer, not a failure.
	FirstSnapshot(ctx context.Context, domain string) (firstSeen time.Time, found bool, err error)
}

// WaybackClient queries the Wayback Machine availability API
type WaybackClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWaybackClient creates a Wayback archive client. The timeout bounds the
// whole availability request.
func NewWaybackClient(baseURL string, timeout time.Duration) *WaybackClient {
	if baseURL == "" {
		baseURL = "http://archive.org"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WaybackClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type waybackResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Timestamp string `json:"timestamp"`
			Available bool   `json:"available"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// FirstSnapshot returns the earliest known snapshot date for a domain
func (c *WaybackClient) FirstSnapshot(ctx context.Context, domain string) (time.Time, bool, error) {
	// timestamp=0 asks for the snapshot closest to the epoch, i.e. the oldest
	endpoint := fmt.Sprintf("%s/wayback/available?url=%s&timestamp=0", c.baseURL, url.QueryEscape(domain))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return time.Time{}, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("archive returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return time.Time{}, false, err
	}

	var payload waybackResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, false, fmt.Errorf("archive returned malformed JSON: %w", err)
	}

	ts := payload.ArchivedSnapshots.Closest.Timestamp
	if ts == "" {
		// Missing snapshot field is the documented "not found" answer
		return time.Time{}, false, nil
	}

	firstSeen, err := parseWaybackTimestamp(ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("archive returned unparsable timestamp %q: %w", ts, err)
	}

	return firstSeen, true, nil
}

// parseWaybackTimestamp parses the YYYYMMDDhhmmss snapshot timestamp,
// accepting date-only prefixes some records carry.
func parseWaybackTimestamp(ts string) (time.Time, error) {
	if len(ts) >= 14 {
		return time.Parse("20060102150405", ts[:14])
	}
	if len(ts) >= 8 {
		return time.Parse("20060102", ts[:8])
	}
	return time.Time{}, fmt.Errorf("timestamp too short")
}
