package repository

import (
	"context"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

// HistoryRepository defines the storage operations behind the historical store
type HistoryRepository interface {
	// InsertIfAbsent writes every record whose JobHash is unknown and leaves existing ones untouched.
	// It returns how many records were created.
	InsertIfAbsent(ctx context.Context, records []domain.HistoricalRecord) (int, error)

	// FindRecent lists records with the given search query scraped at or after since, newest first
	FindRecent(ctx context.Context, searchQuery string, since time.Time, limit, offset int) ([]domain.HistoricalRecord, error)
}
