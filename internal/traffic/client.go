package traffic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when the client is created without one.
const DefaultUserAgent = "eve-render/1.0"

// Client fetches line-oriented traffic feeds over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a feed client. An empty userAgent falls back to DefaultUserAgent.
func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: 60 * time.Second},
		userAgent: userAgent,
	}
}

// Stream requests url and calls fn for every line of the response body until
// the body ends or fn returns false. Cancelling ctx aborts a blocked read.
// The body is closed on every path.
func (c *Client) Stream(ctx context.Context, url string, fn func(line string) bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml, text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("traffic feed %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if !fn(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	return nil
}
