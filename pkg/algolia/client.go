package algolia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// NewClient instantiates an Algolia client bound to one index
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("algolia: app id and api key are required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("algolia: index is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-dsn.algolia.net", strings.ToLower(cfg.AppID))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		appID:      cfg.AppID,
		apiKey:     cfg.APIKey,
		index:      cfg.Index,
		referer:    cfg.Referer,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Search runs q against the index and returns raw hits
func (c *Client) Search(ctx context.Context, q Query) ([]json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("algolia: client is nil")
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("algolia: encode query: %w", err)
	}

	endpoint := c.baseURL + "/1/indexes/" + url.PathEscape(c.index) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("algolia: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.appID)
	req.Header.Set("X-Algolia-API-Key", c.apiKey)
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("algolia: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("algolia: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("algolia: decode response: %w", err)
	}

	return payload.Hits, nil
}
