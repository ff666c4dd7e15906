package apec

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config defines APEC search client settings
type Config struct {
	BaseURL    string
	UserAgent  string
	MinBackoff time.Duration // minimum spacing between search requests
	HTTPClient *http.Client  // its Jar is replaced by a session jar when nil
}

// Client talks to the APEC offer search webservice using a browser-like session
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu    sync.Mutex
	ready bool
}

// SearchParams describe an offer search
type SearchParams struct {
	Keywords   string
	Department string // two-character department code
}

// Offer is a single APEC search result
type Offer struct {
	Title       string `json:"intitule"`
	CompanyName string `json:"nomCommercial"`
	Location    string `json:"lieuTexte"`
	Number      string `json:"numeroOffre"`
}

type searchResponse struct {
	Total   int     `json:"totalCount"`
	Results []Offer `json:"resultats"`
}

type searchPayload struct {
	Places               []string     `json:"lieux"`
	Functions            []string     `json:"fonctions"`
	PositionStatus       []string     `json:"statutPoste"`
	ContractTypes        []string     `json:"typesContrat"`
	ConventionTypes      []string     `json:"typesConvention"`
	ExperienceLevels     []string     `json:"niveauxExperience"`
	EstablishmentIDs     []string     `json:"idsEtablissement"`
	Sectors              []string     `json:"secteursActivite"`
	RemoteTypes          []string     `json:"typesTeletravail"`
	TravelZones          []string     `json:"idNomZonesDeplacement"`
	ExcludedPositions    []string     `json:"positionNumbersExcluded"`
	ClientType           string       `json:"typeClient"`
	Sorts                []sortOrder  `json:"sorts"`
	Pagination           pagination   `json:"pagination"`
	ActiveFilter         bool         `json:"activeFiltre"`
	ReferenceGeolocation geoReference `json:"pointGeolocDeReference"`
	Keywords             string       `json:"motsCles"`
}

type sortOrder struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

type pagination struct {
	Range      int `json:"range"`
	StartIndex int `json:"startIndex"`
}

type geoReference struct {
	Distance int `json:"distance"`
}
