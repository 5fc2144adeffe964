// Package session polls the rolling session-quota utilization
// endpoint and formats its reset times.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/b-hartley/claude-usage-tui/internal/logger"
	"github.com/b-hartley/claude-usage-tui/internal/models"
)

const (
	// DefaultEndpoint is the session usage endpoint.
	DefaultEndpoint = "https://api.anthropic.com/api/oauth/usage"

	// Feature-flag marker required by the endpoint.
	betaHeader = "oauth-2025-04-20"

	// Fixed client identity. Two near-identical versions existed
	// upstream; this is the canonical one.
	userAgent = "claude-code/2.1.34"

	// DefaultTimeout bounds each poll request.
	DefaultTimeout = 10 * time.Second
)

// FetchSnapshot issues one request for the rolling quota snapshot
// using the given bearer token. Any non-success status or transport
// failure is returned as an error; callers treat the absent snapshot
// as a displayable state, not a crash.
func FetchSnapshot(ctx context.Context, client *http.Client, endpoint, token string) (*models.SessionUsageSnapshot, error) {
	if token == "" {
		return nil, fmt.Errorf("bearer token is empty")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session usage request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-beta", betaHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session usage request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read session usage response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session usage request failed (status %d)", resp.StatusCode)
	}

	var snapshot models.SessionUsageSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse session usage response: %w", err)
	}
	snapshot.FetchedAt = time.Now()

	return &snapshot, nil
}
