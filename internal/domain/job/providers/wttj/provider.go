package wttj

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/honeycarbs/jobnexus/internal/domain"
	jobdomain "github.com/honeycarbs/jobnexus/internal/domain/job"
	"github.com/honeycarbs/jobnexus/pkg/algolia"
)

const (
	// DefaultIndex is the public French job index
	DefaultIndex = "wttj_jobs_production_fr"
	// Referer is sent with every index query
	Referer = "https://www.welcometothejungle.com/"

	jobURLFormat       = "https://www.welcometothejungle.com/fr/companies/%s/jobs/%s"
	apprenticeshipOnly = "contract_type:apprenticeship"
	hitsPerPage        = 50
)

var retrievedAttributes = []string{"name", "organization", "offices", "contract_type", "slug"}

// indexClient describes the subset of the Algolia client used by the provider.
type indexClient interface {
	Search(ctx context.Context, q algolia.Query) ([]json.RawMessage, error)
}

// Provider implements job.Provider over the Welcome to the Jungle index
type Provider struct {
	client indexClient
}

// NewProvider builds a WTTJ provider
func NewProvider(client indexClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("wttj provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.SourceWTTJ
}

// Search runs a free-text apprenticeship query around the given position
func (p *Provider) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Job, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("wttj provider: client is nil")
	}

	hits, err := p.client.Search(ctx, algolia.Query{
		Text:                 criteria.Query,
		Filters:              apprenticeshipOnly,
		HitsPerPage:          hitsPerPage,
		AttributesToRetrieve: retrievedAttributes,
		AroundLatLng: strconv.FormatFloat(criteria.Latitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(criteria.Longitude, 'f', -1, 64),
		AroundRadius: criteria.RadiusKm * 1000,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Job, 0, len(hits))
	for i, raw := range hits {
		var h hit
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("wttj provider: decode hit %d: %w", i, err)
		}
		out = append(out, h.toJob())
	}

	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

type hit struct {
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Organization organization `json:"organization"`
	Offices      []office     `json:"offices"`
}

type organization struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type office struct {
	City officeCity `json:"city"`
}

// officeCity is indexed either as a plain string or as {"value": "..."}
type officeCity string

func (c *officeCity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = officeCity(s)
		return nil
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// unknown shape, leave the city unspecified
		return nil
	}
	*c = officeCity(obj.Value)
	return nil
}

func (h hit) toJob() domain.Job {
	city := domain.UnknownCity
	if len(h.Offices) > 0 && h.Offices[0].City != "" {
		city = string(h.Offices[0].City)
	}

	title := h.Name
	if title == "" {
		title = domain.UnknownTitle
	}
	company := h.Organization.Name
	if company == "" {
		company = domain.ConfidentialCompany
	}

	return domain.Job{
		Title:              title,
		Company:            company,
		City:               city,
		URL:                fmt.Sprintf(jobURLFormat, h.Organization.Slug, h.Slug),
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: domain.UnknownDiplomaLevel,
		Source:             domain.SourceWTTJ,
	}
}
