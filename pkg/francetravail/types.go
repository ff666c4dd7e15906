package francetravail

import (
	"net/http"
	"time"
)

// Config defines France Travail API client settings
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	Scopes       []string
	HTTPClient   *http.Client
}

// Client queries the ROME occupation API
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	baseURL      string
	scopes       []string
	httpClient   *http.Client
}

// Token is an access token with its absolute expiry
type Token struct {
	AccessToken string
	Expiry      time.Time
}

// Appellation is one occupation label returned by the search endpoint
type Appellation struct {
	Label string `json:"libelle"`
	Code  string `json:"code"`
}

type appellationResponse struct {
	Total   int           `json:"totalResultats"`
	Results []Appellation `json:"resultats"`
}
