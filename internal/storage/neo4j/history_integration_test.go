package neo4j

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
	pkgneo4j "github.com/honeycarbs/jobnexus/pkg/neo4j"
)

func TestHistoryRepositoryIntegration(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI must be set to run this test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pkgneo4j.NewClient(ctx, pkgneo4j.Config{
		URI:      uri,
		Username: os.Getenv("NEO4J_USERNAME"),
		Password: os.Getenv("NEO4J_PASSWORD"),
	})
	require.NoError(t, err)
	defer func() { _ = client.Close(context.Background()) }()

	repo := NewHistoryRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx))

	// unique per run so repeated runs do not see each other's rows
	query := "integration-" + uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	records := []domain.HistoricalRecord{
		{Job: domain.Job{Title: "A", Company: "Acme", URL: "https://a.example/" + query, Source: domain.SourceLBA, SearchQuery: query}, JobHash: query + "-a", ScrapedAt: now.Add(-time.Hour)},
		{Job: domain.Job{Title: "B", Company: "Acme", URL: "https://b.example/" + query, Source: domain.SourceWTTJ, SearchQuery: query}, JobHash: query + "-b", ScrapedAt: now},
	}

	created, err := repo.InsertIfAbsent(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	records[0].Title = "changed"
	created, err = repo.InsertIfAbsent(ctx, records)
	require.NoError(t, err)
	assert.Zero(t, created)

	got, err := repo.FindRecent(ctx, query, now.Add(-24*time.Hour), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
	assert.True(t, now.Equal(got[0].ScrapedAt))

	got, err = repo.FindRecent(ctx, query, now.Add(-24*time.Hour), 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
}
