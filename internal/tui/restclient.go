package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// creates a REST client; usage endpoints need a token
func NewAPIClient(endpoint, token string) *APIClient {
	return &APIClient{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// reports whether authenticated endpoints can be called
func (c *APIClient) Authenticated() bool {
	return c.token != ""
}

func (c *APIClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// loads the most recent usage events across all creators
func (c *APIClient) RecentUsage(ctx context.Context, limit int) ([]usageEvent, error) {
	var resp recentResponse
	if err := c.get(ctx, "/api/v1/usage/recent?scope=all&limit="+strconv.Itoa(limit), &resp); err != nil {
		return nil, err
	}

	return resp.Events, nil
}

// loads the signed-in creator's totals and achievements
func (c *APIClient) Summary(ctx context.Context) (*usageSummary, error) {
	var summary usageSummary
	if err := c.get(ctx, "/api/v1/usage/summary", &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// returns a tea.Cmd that seeds the feed table
func (c *APIClient) SeedCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		events, err := c.RecentUsage(ctx, maxRows)
		if err != nil {
			return RESTErrorMsg{err: err}
		}

		return SeedMsg{events: events}
	}
}

// returns a tea.Cmd that loads the creator summary
func (c *APIClient) SummaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		summary, err := c.Summary(ctx)
		if err != nil {
			return RESTErrorMsg{err: err}
		}

		return SummaryMsg{summary: summary}
	}
}
