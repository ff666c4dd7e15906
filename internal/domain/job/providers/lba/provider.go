package lba

import (
	"context"
	"fmt"
	"net/url"

	"github.com/honeycarbs/jobnexus/internal/domain"
	jobdomain "github.com/honeycarbs/jobnexus/internal/domain/job"
	"github.com/honeycarbs/jobnexus/pkg/labonnealternance"
)

const matchaContractType = "Apprentissage"

// searchClient describes the subset of the LBA client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, params labonnealternance.SearchParams) (labonnealternance.SearchResponse, error)
}

// Provider implements job.Provider using La Bonne Alternance
type Provider struct {
	client searchClient
}

// NewProvider builds an LBA provider
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("lba provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.SourceLBA
}

// Search queries LBA by position, area and occupation codes
func (p *Provider) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Job, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("lba provider: client is nil")
	}

	resp, err := p.client.SearchJobs(ctx, labonnealternance.SearchParams{
		Longitude: criteria.Longitude,
		Latitude:  criteria.Latitude,
		RadiusKm:  criteria.RadiusKm,
		Insee:     criteria.AreaCode,
		Romes:     criteria.OccupationCodes,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Job, 0, len(resp.PEJobs.Results)+len(resp.Matchas.Results))
	for _, item := range resp.PEJobs.Results {
		out = append(out, mapPEJob(item))
	}
	for _, item := range resp.Matchas.Results {
		out = append(out, mapMatcha(item))
	}

	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

func mapPEJob(item labonnealternance.PEJob) domain.Job {
	var company labonnealternance.Company
	if item.Company != nil {
		company = *item.Company
	}

	return domain.Job{
		Title:              or(item.Title, domain.UnknownTitle),
		Company:            or(company.Name, domain.ConfidentialCompany),
		City:               city(company.Place),
		URL:                or(item.URL, labonnealternance.PublicURL),
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: or(item.TargetDiplomaLevel, domain.UnknownDiplomaLevel),
		Source:             domain.SourceLBA,
	}
}

func mapMatcha(item labonnealternance.Matcha) domain.Job {
	companyName := domain.ConfidentialCompany
	if item.Company != nil {
		companyName = or(item.Company.Name, domain.ConfidentialCompany)
	}

	contractType := matchaContractType
	if item.Job != nil && len(item.Job.ContractType) > 0 {
		contractType = item.Job.ContractType.String()
	}

	return domain.Job{
		Title:              or(item.Title, domain.UnknownTitle),
		Company:            companyName,
		City:               city(item.Place),
		URL:                matchaURL(item),
		ContractType:       contractType,
		TargetDiplomaLevel: or(item.TargetDiplomaLevel, domain.UnknownDiplomaLevel),
		Source:             domain.SourceLBA,
	}
}

// matchaURL falls back to a link derived from the offer id, then to the site root
func matchaURL(item labonnealternance.Matcha) string {
	if item.URL != nil && *item.URL != "" {
		return *item.URL
	}
	if item.ID != nil && *item.ID != "" {
		q := url.Values{"type": {"matcha"}, "itemId": {*item.ID}}
		return labonnealternance.PublicURL + "/recherche-apprentissage?" + q.Encode()
	}
	return labonnealternance.PublicURL
}

func city(place *labonnealternance.Place) string {
	if place == nil {
		return ""
	}
	if place.City != nil && *place.City != "" {
		return *place.City
	}
	if place.FullAddress != nil {
		return *place.FullAddress
	}
	return ""
}

func or(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
