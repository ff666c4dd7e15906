//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/jobnexus/internal/config"
	"github.com/honeycarbs/jobnexus/internal/domain/job"
	"github.com/honeycarbs/jobnexus/internal/domain/occupation"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// InitializeResources connects every backend and builds the service graph.
// The returned cleanup closes the connections and must run after in-flight work has drained.
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger, m *metrics.Metrics) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure
		provideHTTPClient,
		provideRedisClient,
		provideHistoryRepository,

		// Repositories
		provideCacheRepository,
		provideResultCache,
		wire.Bind(new(job.Cache), new(*job.ResultCache)),
		provideHistoryStore,
		wire.Bind(new(job.History), new(*job.HistoryStore)),

		// Occupation codes
		provideRomeClient,
		provideClassifier,
		wire.Bind(new(job.Classifier), new(*occupation.Classifier)),

		// Providers
		provideProviders,

		// Services
		provideBackground,
		job.NewServiceWithDeps,
		provideAnalysis,
		provideSheetsExporter,
		provideScheduler,

		newResources,
	)

	return nil, nil, nil
}
