package algolia

import (
	"encoding/json"
	"net/http"
)

// Config defines Algolia search client settings
type Config struct {
	AppID      string
	APIKey     string
	Index      string
	Referer    string
	BaseURL    string // defaults to the application's DSN host
	HTTPClient *http.Client
}

// Client queries a single Algolia index
type Client struct {
	appID      string
	apiKey     string
	index      string
	referer    string
	baseURL    string
	httpClient *http.Client
}

// Query describes an index query
type Query struct {
	Text                 string   `json:"query"`
	Filters              string   `json:"filters,omitempty"`
	HitsPerPage          int      `json:"hitsPerPage,omitempty"`
	AttributesToRetrieve []string `json:"attributesToRetrieve,omitempty"`
	AroundLatLng         string   `json:"aroundLatLng,omitempty"`
	AroundRadius         int      `json:"aroundRadius,omitempty"`
}

type queryResponse struct {
	Hits   []json.RawMessage `json:"hits"`
	NbHits int               `json:"nbHits"`
}
