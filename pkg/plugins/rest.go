package plugins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultRestTimeout bounds every outbound capability call. No retries;
// a timeout is just another failure converted to text.
const defaultRestTimeout = 10 * time.Second

// restClient is the shared HTTP helper for all network-backed capabilities.
type restClient struct {
	http *http.Client
}

func newRestClient(timeout time.Duration) *restClient {
	if timeout <= 0 {
		timeout = defaultRestTimeout
	}
	return &restClient{
		http: &http.Client{Timeout: timeout},
	}
}

// getJSON performs a GET and decodes the JSON body into out.
// Non-2xx statuses and malformed bodies are returned as errors for the
// caller to convert into a textual result.
func (c *restClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "concierge/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
