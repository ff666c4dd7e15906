package job

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/internal/repository"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// CacheTTL is how long an aggregation result is served from cache
const CacheTTL = 24 * time.Hour

// Fingerprint derives the cache key of a geo query. Coordinates are rounded to 4 decimals so that
// near-identical positions share a slot. The query is used as given: cached jobs carry it as their
// search_query, so differently spelled queries must not share an entry.
func Fingerprint(query string, lat, lon float64, radius int) string {
	raw := fmt.Sprintf("%s_%.4f_%.4f_%d", query, lat, lon, radius)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ResultCache serves aggregation results by fingerprint with passive expiry
type ResultCache struct {
	repo    repository.CacheRepository
	logger  *logging.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
	ttl     time.Duration
}

// CacheOption configures ResultCache
type CacheOption func(*ResultCache)

// WithCacheClock sets a custom clock
func WithCacheClock(clock func() time.Time) CacheOption {
	return func(c *ResultCache) {
		c.clock = clock
	}
}

// WithCacheMetrics attaches metrics
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *ResultCache) {
		c.metrics = m
	}
}

// NewResultCache builds a ResultCache over a document store
func NewResultCache(repo repository.CacheRepository, logger *logging.Logger, opts ...CacheOption) (*ResultCache, error) {
	if repo == nil {
		return nil, fmt.Errorf("job.ResultCache: repository is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &ResultCache{
		repo:   repo,
		logger: logger,
		clock:  time.Now,
		ttl:    CacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the cached jobs. ok is false when nothing is stored, when the entry has expired,
// or when the store cannot be reached.
func (c *ResultCache) Get(ctx context.Context, query string, lat, lon float64, radius int) ([]domain.Job, bool) {
	key := Fingerprint(query, lat, lon, radius)

	entry, found, err := c.repo.LoadEntry(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed, treating as miss", "fingerprint", key, "err", err)
		c.metrics.ObserveCache(metrics.CacheError)
		return nil, false
	}
	if !found {
		c.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}
	if c.clock().After(entry.ExpiresAt) {
		c.logger.Debug("cache entry expired", "fingerprint", key, "expired_at", entry.ExpiresAt)
		c.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}

	c.metrics.ObserveCache(metrics.CacheHit)
	jobs := entry.Jobs
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, true
}

// Put overwrites the entry for the query with a fresh expiry
func (c *ResultCache) Put(ctx context.Context, query string, lat, lon float64, radius int, jobs []domain.Job) error {
	key := Fingerprint(query, lat, lon, radius)
	if jobs == nil {
		jobs = []domain.Job{}
	}

	entry := domain.CacheEntry{
		ExpiresAt: c.clock().UTC().Add(c.ttl),
		Params: domain.CacheParams{
			Query:  query,
			Lat:    lat,
			Lon:    lon,
			Radius: radius,
		},
		Jobs: jobs,
	}

	if err := c.repo.SaveEntry(ctx, key, entry); err != nil {
		return fmt.Errorf("cache: save %s: %w", key, err)
	}
	return nil
}
