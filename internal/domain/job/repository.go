package job

import (
	"context"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

// Cache is the result cache seen by the coordinator
type Cache interface {
	Get(ctx context.Context, query string, lat, lon float64, radius int) ([]domain.Job, bool)
	Put(ctx context.Context, query string, lat, lon float64, radius int, jobs []domain.Job) error
}

// History is the historical sink seen by the coordinator
type History interface {
	Append(ctx context.Context, jobs []domain.Job) error
}

// Classifier maps free text to occupation codes; it fails soft with an empty result
type Classifier interface {
	Classify(ctx context.Context, query string) []domain.OccupationCode
}

var (
	_ Cache   = (*ResultCache)(nil)
	_ History = (*HistoryStore)(nil)
)
