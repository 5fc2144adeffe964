// Package report fetches and aggregates usage and cost data from the
// Anthropic Admin API.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/models"
)

const (
	// DefaultBaseURL is the Admin API root.
	DefaultBaseURL = "https://api.anthropic.com/v1"

	apiVersion = "2023-06-01"

	// DefaultRequestTimeout bounds each report request.
	DefaultRequestTimeout = 30 * time.Second
)

// GroupBy selects the usage-report grouping dimension.
type GroupBy string

const (
	// GroupByModel groups usage rows by model identifier.
	GroupByModel GroupBy = "model"
	// GroupByAPIKey groups usage rows by API key identifier.
	GroupByAPIKey GroupBy = "api_key_id"
)

// UsageRow is one result row inside a day bucket. Fields absent from
// the response decode to zero; that defaulting is part of the
// contract, not an accident.
type UsageRow struct {
	Model                string        `json:"model"`
	APIKeyID             string        `json:"api_key_id"`
	UncachedInputTokens  int64         `json:"uncached_input_tokens"`
	CacheReadInputTokens int64         `json:"cache_read_input_tokens"`
	CacheCreation        CacheCreation `json:"cache_creation"`
	OutputTokens         int64         `json:"output_tokens"`
}

// CacheCreation splits cache-write tokens by ephemeral TTL.
type CacheCreation struct {
	Ephemeral1hInputTokens int64 `json:"ephemeral_1h_input_tokens"`
	Ephemeral5mInputTokens int64 `json:"ephemeral_5m_input_tokens"`
}

// UsageBucket is one day of usage rows.
type UsageBucket struct {
	StartingAt string     `json:"starting_at"`
	Results    []UsageRow `json:"results"`
}

// CostRow is one result row inside a cost day bucket.
type CostRow struct {
	Amount float64 `json:"amount"`
}

// CostBucket is one day of cost rows.
type CostBucket struct {
	Results []CostRow `json:"results"`
}

type usageResponse struct {
	Data []UsageBucket `json:"data"`
}

type costResponse struct {
	Data []CostBucket `json:"data"`
}

// Client talks to the Admin API with a fixed key. Construct one per
// credential with NewClient; there is no shared ambient state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an Admin API client. An empty baseURL or zero
// timeout fall back to the defaults.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchUsage retrieves day-bucketed token usage over the window,
// grouped by the given dimension. Any failure is returned as a
// classified *Error; usage is the core output, so callers abort the
// refresh on error.
func (c *Client) FetchUsage(ctx context.Context, window models.TimeWindow, groupBy GroupBy) ([]UsageBucket, error) {
	params := url.Values{}
	params.Set("starting_at", window.StartString())
	params.Set("ending_at", window.EndString())
	params.Set("bucket_width", "1d")
	if groupBy != "" {
		params.Set("group_by[]", string(groupBy))
	}

	var resp usageResponse
	if err := c.get(ctx, "/organizations/usage_report/messages", params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchCost retrieves day-bucketed cost rows. The window is widened to
// full day boundaries first because the cost endpoint only accepts
// whole days. This fetch is best-effort: any failure logs and returns
// an empty slice so a cost outage never blocks usage reporting.
func (c *Client) FetchCost(ctx context.Context, window models.TimeWindow) []CostBucket {
	widened := WidenToDays(window)

	params := url.Values{}
	params.Set("starting_at", widened.StartString())
	params.Set("ending_at", widened.EndString())

	var resp costResponse
	if err := c.get(ctx, "/organizations/cost_report", params, &resp); err != nil {
		logger.Warn("cost fetch failed, reporting zero cost", "error", err)
		return nil
	}
	return resp.Data
}

// TestConnection issues a minimal usage request for today and reports
// whether the key works, with a human-readable explanation.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	window := ResolveWindow(TimeframeToday, time.Now())

	_, err := c.FetchUsage(ctx, window, "")
	if err == nil {
		return true, "Connected successfully"
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false, fmt.Sprintf("Connection error: %v", err)
	}

	switch apiErr.Kind {
	case KindAuth:
		return false, "Invalid API key"
	case KindPermission:
		return false, "API key lacks admin permissions"
	case KindTransport:
		return false, fmt.Sprintf("Connection error: %v", apiErr.Err)
	default:
		return false, fmt.Sprintf("API error: %d", apiErr.Status)
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:   statusKind(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("request to %s failed: %s", path, string(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindMalformed, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
