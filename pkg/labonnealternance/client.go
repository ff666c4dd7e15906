package labonnealternance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

const (
	// PublicURL is the public site of La Bonne Alternance
	PublicURL = "https://labonnealternance.apprentissage.beta.gouv.fr"

	defaultBaseURL = PublicURL + "/api"
	defaultCaller  = "jobnexus"
	defaultSources = "offres,matcha,lba"
)

// NewClient instantiates a La Bonne Alternance API client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	caller := cfg.Caller
	if caller == "" {
		caller = defaultCaller
	}

	sources := cfg.Sources
	if sources == "" {
		sources = defaultSources
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		caller:     caller,
		sources:    sources,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// SearchJobs queries LBA with geo, area and ROME filters
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("labonnealternance: client is nil")
	}
	if params.Romes == "" {
		return SearchResponse{}, fmt.Errorf("labonnealternance: romes are required")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("labonnealternance: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("labonnealternance: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return SearchResponse{}, fmt.Errorf("labonnealternance: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("labonnealternance: decode response: %w", err)
	}

	return payload, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("labonnealternance: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "v1", "jobs")

	values := url.Values{}
	values.Set("longitude", strconv.FormatFloat(params.Longitude, 'f', -1, 64))
	values.Set("latitude", strconv.FormatFloat(params.Latitude, 'f', -1, 64))
	values.Set("radius", strconv.Itoa(params.RadiusKm))
	values.Set("romes", params.Romes)
	values.Set("caller", c.caller)
	values.Set("sources", c.sources)
	if params.Insee != "" {
		values.Set("insee", params.Insee)
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
