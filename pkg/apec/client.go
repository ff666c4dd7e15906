package apec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	// PublicURL is the APEC site root
	PublicURL = "https://www.apec.fr"

	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:145.0) Gecko/20100101 Firefox/145.0"
	defaultMinBackoff = 500 * time.Millisecond

	searchPath = "/cms/webservices/rechercheOffre"
	offerPath  = "/candidat/recherche-emploi.html/emploi/detail-offre/"

	apprenticeshipContract = "20053"
	pageSize               = 50
)

var apprenticeshipConventions = []string{"143684", "143685", "143686", "143687"}

// NewClient instantiates an APEC client with its own cookie session
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = PublicURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("apec: parse base url: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	backoff := cfg.MinBackoff
	if backoff <= 0 {
		backoff = defaultMinBackoff
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("apec: create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(backoff), 1),
	}, nil
}

// OfferURL returns the public detail page of an offer
func OfferURL(number string) string {
	return PublicURL + offerPath + number
}

// Search posts an apprenticeship offer search for the keywords in a department
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Offer, error) {
	if c == nil {
		return nil, fmt.Errorf("apec: client is nil")
	}
	if strings.TrimSpace(params.Keywords) == "" {
		return nil, fmt.Errorf("apec: keywords are required")
	}

	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("apec: wait for rate limiter: %w", err)
	}

	body, err := json.Marshal(newSearchPayload(params))
	if err != nil {
		return nil, fmt.Errorf("apec: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apec: build request: %w", err)
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.searchReferer(params))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apec: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("apec: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("apec: decode response: %w", err)
	}

	return payload.Results, nil
}

// ensureSession loads the home page once to collect session cookies.
// A failed attempt is retried by the next search.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("apec: build session request: %w", err)
	}
	c.setBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apec: open session: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("apec: open session: status %d", resp.StatusCode)
	}

	c.ready = true
	return nil
}

func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
}

func (c *Client) searchReferer(params SearchParams) string {
	q := url.Values{}
	q.Set("typesContrat", apprenticeshipContract)
	q.Set("motsCles", params.Keywords)
	q.Set("lieux", params.Department)
	return c.baseURL + "/candidat/recherche-emploi.html/emploi?" + q.Encode()
}

// newSearchPayload builds a fresh request body for every call
func newSearchPayload(params SearchParams) searchPayload {
	places := []string{}
	if params.Department != "" {
		places = []string{params.Department}
	}

	return searchPayload{
		Places:            places,
		Functions:         []string{},
		PositionStatus:    []string{},
		ContractTypes:     []string{apprenticeshipContract},
		ConventionTypes:   append([]string(nil), apprenticeshipConventions...),
		ExperienceLevels:  []string{},
		EstablishmentIDs:  []string{},
		Sectors:           []string{},
		RemoteTypes:       []string{},
		TravelZones:       []string{},
		ExcludedPositions: []string{},
		ClientType:        "CADRE",
		Sorts:             []sortOrder{{Type: "SCORE", Direction: "DESCENDING"}},
		Pagination:        pagination{Range: pageSize},
		ActiveFilter:      true,
		Keywords:          params.Keywords,
	}
}
