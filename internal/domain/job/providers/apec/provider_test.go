package apec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/apec"
)

type stubOffers struct {
	offers []apec.Offer
	err    error
	params apec.SearchParams
}

func (s *stubOffers) Search(_ context.Context, params apec.SearchParams) ([]apec.Offer, error) {
	s.params = params
	return s.offers, s.err
}

func TestSearch_MapsOffers(t *testing.T) {
	client := &stubOffers{offers: []apec.Offer{
		{Title: "Alternant DevOps", CompanyName: "Acme", Location: "Paris 01 - 75", Number: "176543W"},
		{Number: "176544W"},
		{Title: "Sans numéro", CompanyName: "Beta"},
	}}
	p, err := NewProvider(client)
	require.NoError(t, err)

	jobs, err := p.Search(context.Background(), domain.SearchCriteria{Query: "devops", AreaCode: "75056"})
	require.NoError(t, err)

	assert.Equal(t, apec.SearchParams{Keywords: "devops", Department: "75"}, client.params)
	require.Len(t, jobs, 3)
	assert.Equal(t, domain.Job{
		Title:              "Alternant DevOps",
		Company:            "Acme",
		City:               "Paris 01 - 75",
		URL:                "https://www.apec.fr/candidat/recherche-emploi.html/emploi/detail-offre/176543W",
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: domain.UnknownDiplomaLevel,
		Source:             domain.SourceAPEC,
	}, jobs[0])
	assert.Equal(t, domain.UnknownTitle, jobs[1].Title)
	assert.Equal(t, domain.ConfidentialCompany, jobs[1].Company)
	assert.Empty(t, jobs[2].URL)
}

func TestDepartment(t *testing.T) {
	tests := map[string]string{
		"75056": "75",
		"2A004": "2A",
		"7":     "7",
		"":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, department(in), in)
	}
}

func TestSearch_PropagatesClientError(t *testing.T) {
	p, err := NewProvider(&stubOffers{err: errors.New("403")})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.SearchCriteria{Query: "devops"})
	assert.Error(t, err)
}
