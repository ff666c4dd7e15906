package job

import (
	"context"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// Provider represents an external job data source (La Bonne Alternance, WTTJ, APEC)
type Provider interface {
	// e.g. "LBA" or "WTTJ"
	Name() string

	// Search returns normalized jobs for the subset of criteria the source understands
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Job, error)
}

// Providers is the fixed, ordered provider set of the coordinator
type Providers struct {
	Coded Provider // needs occupation codes, geo + radius + area
	Text  Provider // free text + geo radius, no code needed
	Area  Provider // free text + administrative area
}

// guarded is the single place deciding what an ordinary upstream failure is:
// any returned error becomes an empty result and one log event.
type guarded struct {
	p       Provider
	logger  *logging.Logger
	metrics *metrics.Metrics
}

func guard(p Provider, logger *logging.Logger, m *metrics.Metrics) guarded {
	return guarded{p: p, logger: logger, metrics: m}
}

func (g guarded) search(ctx context.Context, criteria domain.SearchCriteria) []domain.Job {
	name := g.p.Name()
	start := time.Now()

	jobs, err := g.p.Search(ctx, criteria)
	g.metrics.ObserveProvider(name, err, time.Since(start))
	if err != nil {
		g.logger.Warn("provider search failed", "provider", name, "err", err)
		return nil
	}

	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.URL == "" {
			g.logger.Debug("dropping job without url", "provider", name, "title", j.Title)
			continue
		}
		if j.Source == "" {
			j.Source = name
		}
		out = append(out, j)
	}

	g.logger.Debug("provider search completed", "provider", name, "jobs", len(out))
	return out
}
