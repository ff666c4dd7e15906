package labonnealternance

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Config defines La Bonne Alternance API client settings
type Config struct {
	APIKey     string // optional bearer token
	Caller     string
	Sources    string
	BaseURL    string
	HTTPClient *http.Client
}

// Client queries the La Bonne Alternance jobs API
type Client struct {
	apiKey     string
	caller     string
	sources    string
	baseURL    string
	httpClient *http.Client
}

// SearchParams describe a job search request
type SearchParams struct {
	Longitude float64
	Latitude  float64
	RadiusKm  int
	Insee     string
	Romes     string // comma separated ROME codes
}

// SearchResponse groups the offers returned by each LBA source
type SearchResponse struct {
	PEJobs  resultSet[PEJob]  `json:"peJobs"`
	Matchas resultSet[Matcha] `json:"matchas"`
}

type resultSet[T any] struct {
	Results []T `json:"results"`
}

// PEJob is an offer relayed from France Travail
type PEJob struct {
	Title              *string  `json:"title"`
	URL                *string  `json:"url"`
	TargetDiplomaLevel *string  `json:"target_diploma_level"`
	Company            *Company `json:"company"`
}

// Company is the employer block of a PE offer
type Company struct {
	Name  *string `json:"name"`
	Place *Place  `json:"place"`
}

// Place locates an offer
type Place struct {
	City        *string `json:"city"`
	FullAddress *string `json:"fullAddress"`
}

// Matcha is an offer posted directly on La Bonne Alternance
type Matcha struct {
	ID                 *string        `json:"id"`
	Title              *string        `json:"title"`
	URL                *string        `json:"url"`
	TargetDiplomaLevel *string        `json:"target_diploma_level"`
	Company            *MatchaCompany `json:"company"`
	Place              *Place         `json:"place"`
	Job                *MatchaJob     `json:"job"`
}

// MatchaCompany is the employer block of a Matcha offer
type MatchaCompany struct {
	Name *string `json:"name"`
}

// MatchaJob carries contract details of a Matcha offer
type MatchaJob struct {
	ContractType ContractType `json:"contractType"`
}

// ContractType accepts either a single label or a list of labels
type ContractType []string

// UnmarshalJSON implements json.Unmarshaler
func (c *ContractType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*c = ContractType{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

// String joins the labels
func (c ContractType) String() string {
	return strings.Join(c, ", ")
}
