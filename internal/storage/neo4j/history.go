package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/repository"
	pkgneo4j "github.com/honeycarbs/jobnexus/pkg/neo4j"
)

// Ensure HistoryRepository implements repository.HistoryRepository
var _ repository.HistoryRepository = (*HistoryRepository)(nil)

const (
	schemaQuery = `CREATE CONSTRAINT job_hash_unique IF NOT EXISTS FOR (j:Job) REQUIRE j.jobHash IS UNIQUE`

	insertQuery = `
		UNWIND $records AS r
		MERGE (j:Job {jobHash: r.jobHash})
		ON CREATE SET
		    j.title = r.title,
		    j.company = r.company,
		    j.city = r.city,
		    j.url = r.url,
		    j.contractType = r.contractType,
		    j.targetDiplomaLevel = r.targetDiplomaLevel,
		    j.source = r.source,
		    j.searchQuery = r.searchQuery,
		    j.scrapedAt = datetime({epochMillis: r.scrapedAt})
	`

	// links are created only for jobs lacking one, so a re-observed posting leaves the graph untouched
	linkQuery = `
		UNWIND $records AS r
		MATCH (j:Job {jobHash: r.jobHash})
		WHERE NOT (j)-[:POSTED_BY]->(:Company)
		MERGE (c:Company {name: j.company})
		MERGE (j)-[:POSTED_BY]->(c)
	`

	recentQuery = `
		MATCH (j:Job)
		WHERE j.searchQuery = $query AND j.scrapedAt >= datetime({epochMillis: $since})
		RETURN j.jobHash AS jobHash, j.title AS title, j.company AS company, j.city AS city,
		       j.url AS url, j.contractType AS contractType, j.targetDiplomaLevel AS targetDiplomaLevel,
		       j.source AS source, j.searchQuery AS searchQuery, j.scrapedAt AS scrapedAt
		ORDER BY j.scrapedAt DESC
		SKIP $skip
		LIMIT $limit
	`
)

// HistoryRepository stores historical job records as Neo4j nodes keyed by job hash
type HistoryRepository struct {
	client *pkgneo4j.Client
}

// NewHistoryRepository creates a HistoryRepository with a Neo4j client
func NewHistoryRepository(client *pkgneo4j.Client) *HistoryRepository {
	return &HistoryRepository{client: client}
}

// EnsureSchema creates the uniqueness constraint backing insert-if-absent
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	session := r.client.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, schemaQuery, nil)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j history: ensure schema: %w", err)
	}
	return nil
}

// InsertIfAbsent merges records by job hash and reports how many were new
func (r *HistoryRepository) InsertIfAbsent(ctx context.Context, records []domain.HistoricalRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	params := map[string]any{"records": recordParams(records)}

	session := r.client.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, insertQuery, params)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}

		link, err := tx.Run(ctx, linkQuery, params)
		if err != nil {
			return nil, err
		}
		if _, err := link.Consume(ctx); err != nil {
			return nil, err
		}

		return summary.Counters().NodesCreated(), nil
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j history: insert: %w", err)
	}

	return created.(int), nil
}

// FindRecent returns records for a search query scraped since the given instant, newest first
func (r *HistoryRepository) FindRecent(ctx context.Context, searchQuery string, since time.Time, limit, offset int) ([]domain.HistoricalRecord, error) {
	session := r.client.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, recentQuery, map[string]any{
			"query": searchQuery,
			"since": since.UnixMilli(),
			"skip":  offset,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}

		records := make([]domain.HistoricalRecord, 0, limit)
		for result.Next(ctx) {
			records = append(records, parseRecord(result.Record()))
		}
		return records, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j history: find recent: %w", err)
	}

	return out.([]domain.HistoricalRecord), nil
}

func recordParams(records []domain.HistoricalRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]any{
			"jobHash":            rec.JobHash,
			"title":              rec.Title,
			"company":            rec.Company,
			"city":               rec.City,
			"url":                rec.URL,
			"contractType":       rec.ContractType,
			"targetDiplomaLevel": rec.TargetDiplomaLevel,
			"source":             rec.Source,
			"searchQuery":        rec.SearchQuery,
			"scrapedAt":          rec.ScrapedAt.UnixMilli(),
		})
	}
	return out
}

func parseRecord(record *neo4j.Record) domain.HistoricalRecord {
	str := func(key string) string {
		v, _ := record.Get(key)
		s, _ := v.(string)
		return s
	}

	var scrapedAt time.Time
	if v, ok := record.Get("scrapedAt"); ok {
		switch t := v.(type) {
		case time.Time:
			scrapedAt = t
		case neo4j.LocalDateTime:
			scrapedAt = t.Time()
		}
	}

	return domain.HistoricalRecord{
		Job: domain.Job{
			Title:              str("title"),
			Company:            str("company"),
			City:               str("city"),
			URL:                str("url"),
			ContractType:       str("contractType"),
			TargetDiplomaLevel: str("targetDiplomaLevel"),
			Source:             str("source"),
			SearchQuery:        str("searchQuery"),
		},
		JobHash:   str("jobHash"),
		ScrapedAt: scrapedAt.UTC(),
	}
}
