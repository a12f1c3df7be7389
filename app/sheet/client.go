package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/luaviz/amanhecer/app/cfg"
)

// Client retrieves the published spreadsheet as CSV text. Each request
// carries a cache-busting query parameter so stale intermediary caches can
// not pin yesterday's table.
type Client struct {
	sheetURL   string
	httpClient *http.Client
	userAgent  string
}

func NewClient(httpClient *http.Client) *Client {
	c := cfg.Get()
	return &Client{
		sheetURL:   c.SheetURL,
		httpClient: httpClient,
		userAgent:  c.UserAgent,
	}
}

// Run fetches the table. Non-2xx responses are errors; the caller decides
// what absence of data means.
func (c *Client) Run(ctx context.Context) (string, error) {
	requestURL, err := c.bustCache(c.sheetURL)
	if err != nil {
		return "", fmt.Errorf("invalid sheet URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), nil
}

func (c *Client) bustCache(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
