package wttj

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/algolia"
)

type stubIndex struct {
	hits  []json.RawMessage
	err   error
	query algolia.Query
}

func (s *stubIndex) Search(_ context.Context, q algolia.Query) ([]json.RawMessage, error) {
	s.query = q
	return s.hits, s.err
}

func rawHits(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, json.RawMessage(d))
	}
	return out
}

func TestSearch_BuildsQuery(t *testing.T) {
	idx := &stubIndex{}
	p, err := NewProvider(idx)
	require.NoError(t, err)

	_, err = p.Search(context.Background(), domain.SearchCriteria{
		Query:     "devops",
		Latitude:  48.8566,
		Longitude: 2.3522,
		RadiusKm:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, algolia.Query{
		Text:                 "devops",
		Filters:              "contract_type:apprenticeship",
		HitsPerPage:          50,
		AttributesToRetrieve: []string{"name", "organization", "offices", "contract_type", "slug"},
		AroundLatLng:         "48.8566,2.3522",
		AroundRadius:         10000,
	}, idx.query)
}

func TestSearch_MapsHits(t *testing.T) {
	idx := &stubIndex{hits: rawHits(
		`{"name":"Alternance DevOps","slug":"alternance-devops_paris","organization":{"name":"Acme","slug":"acme"},"offices":[{"city":"Paris"}]}`,
		`{"name":"Apprenti SRE","slug":"sre","organization":{"name":"Beta","slug":"beta"},"offices":[{"city":{"value":"Lyon"}}]}`,
		`{"name":"Cloud","slug":"cloud","organization":{"slug":"gamma"},"offices":[]}`,
	)}
	p, err := NewProvider(idx)
	require.NoError(t, err)

	jobs, err := p.Search(context.Background(), domain.SearchCriteria{Query: "devops"})
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, domain.Job{
		Title:              "Alternance DevOps",
		Company:            "Acme",
		City:               "Paris",
		URL:                "https://www.welcometothejungle.com/fr/companies/acme/jobs/alternance-devops_paris",
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: domain.UnknownDiplomaLevel,
		Source:             domain.SourceWTTJ,
	}, jobs[0])
	assert.Equal(t, "Lyon", jobs[1].City)
	assert.Equal(t, domain.UnknownCity, jobs[2].City)
	assert.Equal(t, domain.ConfidentialCompany, jobs[2].Company)
}

func TestSearch_Errors(t *testing.T) {
	p, err := NewProvider(&stubIndex{err: errors.New("403")})
	require.NoError(t, err)
	_, err = p.Search(context.Background(), domain.SearchCriteria{Query: "devops"})
	assert.Error(t, err)

	p, err = NewProvider(&stubIndex{hits: rawHits(`[1,2]`)})
	require.NoError(t, err)
	_, err = p.Search(context.Background(), domain.SearchCriteria{Query: "devops"})
	assert.Error(t, err)
}
