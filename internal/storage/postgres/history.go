package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/repository"
)

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

const (
	schemaSQL = `
		CREATE TABLE IF NOT EXISTS job_history (
			job_hash             TEXT PRIMARY KEY,
			title                TEXT NOT NULL,
			company              TEXT NOT NULL,
			city                 TEXT NOT NULL DEFAULT '',
			url                  TEXT NOT NULL,
			contract_type        TEXT NOT NULL,
			target_diploma_level TEXT NOT NULL,
			source               TEXT NOT NULL,
			search_query         TEXT NOT NULL DEFAULT '',
			scraped_at           TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS job_history_query_scraped_idx
			ON job_history (search_query, scraped_at DESC);
	`

	// one statement per batch; ON CONFLICT keeps the first observation of a hash
	insertSQL = `
		INSERT INTO job_history (
			job_hash, title, company, city, url,
			contract_type, target_diploma_level, source, search_query, scraped_at
		)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::text[], $9::text[], $10::timestamptz[]
		)
		ON CONFLICT (job_hash) DO NOTHING
	`

	recentSQL = `
		SELECT job_hash, title, company, city, url,
		       contract_type, target_diploma_level, source, search_query, scraped_at
		FROM job_history
		WHERE search_query = $1 AND scraped_at >= $2
		ORDER BY scraped_at DESC
		LIMIT $3 OFFSET $4
	`
)

// HistoryRepository keeps one row per job hash in the job_history table
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a HistoryRepository over a connection pool
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// EnsureSchema creates the history table and its recency index
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres history: ensure schema: %w", err)
	}
	return nil
}

// InsertIfAbsent inserts records whose hash is unknown and returns how many rows were created
func (r *HistoryRepository) InsertIfAbsent(ctx context.Context, records []domain.HistoricalRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	n := len(records)
	var (
		hashes    = make([]string, 0, n)
		titles    = make([]string, 0, n)
		companies = make([]string, 0, n)
		cities    = make([]string, 0, n)
		urls      = make([]string, 0, n)
		contracts = make([]string, 0, n)
		diplomas  = make([]string, 0, n)
		sources   = make([]string, 0, n)
		queries   = make([]string, 0, n)
		scraped   = make([]time.Time, 0, n)
	)
	for _, rec := range records {
		hashes = append(hashes, rec.JobHash)
		titles = append(titles, rec.Title)
		companies = append(companies, rec.Company)
		cities = append(cities, rec.City)
		urls = append(urls, rec.URL)
		contracts = append(contracts, rec.ContractType)
		diplomas = append(diplomas, rec.TargetDiplomaLevel)
		sources = append(sources, rec.Source)
		queries = append(queries, rec.SearchQuery)
		scraped = append(scraped, rec.ScrapedAt)
	}

	tag, err := r.pool.Exec(ctx, insertSQL,
		hashes, titles, companies, cities, urls,
		contracts, diplomas, sources, queries, scraped,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres history: insert: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// FindRecent lists records for a search query scraped since the given instant, newest first
func (r *HistoryRepository) FindRecent(ctx context.Context, searchQuery string, since time.Time, limit, offset int) ([]domain.HistoricalRecord, error) {
	rows, err := r.pool.Query(ctx, recentSQL, searchQuery, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres history: find recent: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HistoricalRecord, error) {
		var rec domain.HistoricalRecord
		err := row.Scan(
			&rec.JobHash, &rec.Title, &rec.Company, &rec.City, &rec.URL,
			&rec.ContractType, &rec.TargetDiplomaLevel, &rec.Source, &rec.SearchQuery, &rec.ScrapedAt,
		)
		rec.ScrapedAt = rec.ScrapedAt.UTC()
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres history: scan: %w", err)
	}

	return records, nil
}
