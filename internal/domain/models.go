package domain

import (
	"time"
)

// Provider identifiers carried in Job.Source
const (
	SourceLBA  = "LBA"
	SourceWTTJ = "WTTJ"
	SourceAPEC = "APEC"
)

// Sentinels used when an upstream withholds a field
const (
	UnknownTitle        = "Titre Inconnu"
	ConfidentialCompany = "Entreprise confidentielle"
	DefaultContractType = "Alternance"
	UnknownDiplomaLevel = "Inconnu"
	UnknownCity         = "Ville non spécifiée"
)

// Job is the normalized job posting entity
type Job struct {
	Title              string `json:"title"`
	Company            string `json:"company"`
	City               string `json:"city,omitempty"`
	URL                string `json:"url"`
	ContractType       string `json:"contract_type"`
	TargetDiplomaLevel string `json:"target_diploma_level"`
	Source             string `json:"source"`
	SearchQuery        string `json:"search_query,omitempty"`
}

// OccupationCode is one entry of the occupation vocabulary
type OccupationCode struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// SearchCriteria carries every filter a provider may use; each provider reads its own subset
type SearchCriteria struct {
	Query           string
	Latitude        float64
	Longitude       float64
	RadiusKm        int
	AreaCode        string // INSEE commune code
	OccupationCodes string // comma separated
}

// CacheParams records the request a cache entry was computed for
type CacheParams struct {
	Query  string  `json:"query"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius int     `json:"radius"`
}

// CacheEntry is the document stored per fingerprint
type CacheEntry struct {
	ExpiresAt time.Time   `json:"expire_at"`
	Params    CacheParams `json:"params"`
	Jobs      []Job       `json:"jobs"`
}

// HistoricalRecord is a Job as first observed, keyed by JobHash
type HistoricalRecord struct {
	Job
	JobHash   string    `json:"job_hash"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// DailyCount is the number of new records first seen on Day
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// MarketSummary aggregates the history of one category
type MarketSummary struct {
	Category     string             `json:"category"`
	TotalJobs    int                `json:"total_jobs"`
	TopRecruiter string             `json:"top_recruiter"`
	TopCity      string             `json:"top_city"`
	Sources      int                `json:"sources"`
	Daily        []DailyCount       `json:"daily"`
	NewToday     []HistoricalRecord `json:"new_today,omitempty"`
	GeneratedAt  time.Time          `json:"generated_at"`
}
