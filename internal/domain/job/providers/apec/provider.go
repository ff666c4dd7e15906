package apec

import (
	"context"
	"fmt"

	"github.com/honeycarbs/jobnexus/internal/domain"
	jobdomain "github.com/honeycarbs/jobnexus/internal/domain/job"
	"github.com/honeycarbs/jobnexus/pkg/apec"
)

// offerClient describes the subset of the APEC client used by the provider.
type offerClient interface {
	Search(ctx context.Context, params apec.SearchParams) ([]apec.Offer, error)
}

// Provider implements job.Provider using the APEC offer search
type Provider struct {
	client offerClient
}

// NewProvider builds an APEC provider
func NewProvider(client offerClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("apec provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.SourceAPEC
}

// Search queries APEC by keywords within the department of the area code
func (p *Provider) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Job, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("apec provider: client is nil")
	}

	offers, err := p.client.Search(ctx, apec.SearchParams{
		Keywords:   criteria.Query,
		Department: department(criteria.AreaCode),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Job, 0, len(offers))
	for _, o := range offers {
		out = append(out, mapOffer(o))
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

// department keeps the first two characters of an INSEE code ("75056" -> "75", "2A004" -> "2A")
func department(areaCode string) string {
	if len(areaCode) < 2 {
		return areaCode
	}
	return areaCode[:2]
}

func mapOffer(o apec.Offer) domain.Job {
	title := o.Title
	if title == "" {
		title = domain.UnknownTitle
	}
	company := o.CompanyName
	if company == "" {
		company = domain.ConfidentialCompany
	}

	var url string
	if o.Number != "" {
		url = apec.OfferURL(o.Number)
	}

	return domain.Job{
		Title:              title,
		Company:            company,
		City:               o.Location,
		URL:                url,
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: domain.UnknownDiplomaLevel,
		Source:             domain.SourceAPEC,
	}
}
