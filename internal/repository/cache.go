package repository

import (
	"context"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

// CacheRepository stores cache documents by fingerprint. Expiry is checked by the caller, not by the store.
type CacheRepository interface {
	// LoadEntry returns the stored document; ok is false when the key is unknown
	LoadEntry(ctx context.Context, fingerprint string) (entry domain.CacheEntry, ok bool, err error)

	// SaveEntry overwrites the document stored under fingerprint
	SaveEntry(ctx context.Context, fingerprint string, entry domain.CacheEntry) error
}
