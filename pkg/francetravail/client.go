package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTokenURL = "https://entreprise.francetravail.fr/connexion/oauth2/access_token?realm=/partenaire"
	defaultBaseURL  = "https://api.francetravail.io/partenaire/rome-metiers"
)

var defaultScopes = []string{"api_rome-metiersv1", "nomenclatureRome"}

// NewClient instantiates a France Travail API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("francetravail: client_id and client_secret are required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     tokenURL,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		scopes:       scopes,
		httpClient:   httpClient,
	}, nil
}

// FetchToken performs a client-credentials exchange. It never caches; callers own token reuse.
func (c *Client) FetchToken(ctx context.Context) (Token, error) {
	if c == nil {
		return Token{}, fmt.Errorf("francetravail: client is nil")
	}

	cc := clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.tokenURL,
		Scopes:       c.scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := cc.Token(ctx)
	if err != nil {
		return Token{}, fmt.Errorf("francetravail: token exchange: %w", err)
	}

	return Token{AccessToken: tok.AccessToken, Expiry: tok.Expiry}, nil
}

// SearchAppellations runs a free-text search over occupation labels
func (c *Client) SearchAppellations(ctx context.Context, accessToken, query string) ([]Appellation, error) {
	if c == nil {
		return nil, fmt.Errorf("francetravail: client is nil")
	}
	if query == "" {
		return nil, fmt.Errorf("francetravail: query is required")
	}

	u := c.baseURL + "/v1/metiers/appellation/requete?" + url.Values{"q": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("francetravail: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("francetravail: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("francetravail: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload appellationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("francetravail: decode response: %w", err)
	}

	if payload.Total == 0 {
		return nil, nil
	}
	return payload.Results, nil
}
