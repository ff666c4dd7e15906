package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/repository"
)

var _ repository.CacheRepository = (*CacheRepository)(nil)

const (
	keyPrefix = "job_searches:"

	// KeyRetention reclaims keys long after their entries stopped being served
	KeyRetention = 7 * 24 * time.Hour
)

// CacheRepository stores cache entries as JSON strings.
// Freshness is decided by the entry's expire_at on read; the Redis TTL only reclaims storage.
type CacheRepository struct {
	rdb redis.UniversalClient
}

// NewCacheRepository creates a CacheRepository on top of a Redis client
func NewCacheRepository(rdb redis.UniversalClient) *CacheRepository {
	return &CacheRepository{rdb: rdb}
}

// LoadEntry implements repository.CacheRepository
func (r *CacheRepository) LoadEntry(ctx context.Context, fingerprint string) (domain.CacheEntry, bool, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("redis cache: get: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("redis cache: decode %s: %w", fingerprint, err)
	}

	return entry, true, nil
}

// SaveEntry implements repository.CacheRepository
func (r *CacheRepository) SaveEntry(ctx context.Context, fingerprint string, entry domain.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis cache: encode: %w", err)
	}

	if err := r.rdb.Set(ctx, keyPrefix+fingerprint, raw, KeyRetention).Err(); err != nil {
		return fmt.Errorf("redis cache: set: %w", err)
	}
	return nil
}
