package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/jobnexus/internal/config"
	"github.com/honeycarbs/jobnexus/internal/domain/analysis"
	"github.com/honeycarbs/jobnexus/internal/domain/job"
	apecprovider "github.com/honeycarbs/jobnexus/internal/domain/job/providers/apec"
	lbaprovider "github.com/honeycarbs/jobnexus/internal/domain/job/providers/lba"
	wttjprovider "github.com/honeycarbs/jobnexus/internal/domain/job/providers/wttj"
	"github.com/honeycarbs/jobnexus/internal/domain/occupation"
	"github.com/honeycarbs/jobnexus/internal/mcp/tools"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/internal/repository"
	"github.com/honeycarbs/jobnexus/internal/scheduler"
	storageneo4j "github.com/honeycarbs/jobnexus/internal/storage/neo4j"
	storagepostgres "github.com/honeycarbs/jobnexus/internal/storage/postgres"
	storageredis "github.com/honeycarbs/jobnexus/internal/storage/redis"
	"github.com/honeycarbs/jobnexus/pkg/algolia"
	"github.com/honeycarbs/jobnexus/pkg/apec"
	"github.com/honeycarbs/jobnexus/pkg/francetravail"
	"github.com/honeycarbs/jobnexus/pkg/labonnealternance"
	"github.com/honeycarbs/jobnexus/pkg/logging"
	n4j "github.com/honeycarbs/jobnexus/pkg/neo4j"
	"github.com/honeycarbs/jobnexus/pkg/sheets"
)

const upstreamTimeout = 20 * time.Second

// Resources holds everything the MCP tools and the background workers run on
type Resources struct {
	JobService     job.Service
	History        tools.OpportunityReader
	Classifier     tools.OccupationClassifier
	Analysis       tools.MarketSummarizer
	SheetsExporter tools.SheetsExporter // nil when no credentials are configured

	Background *job.Background
	Scheduler  *scheduler.Scheduler // nil when no refresh schedule is configured
}

func newResources(
	svc job.Service,
	history *job.HistoryStore,
	classifier *occupation.Classifier,
	analysisSvc *analysis.Service,
	exporter tools.SheetsExporter,
	bg *job.Background,
	sched *scheduler.Scheduler,
) *Resources {
	return &Resources{
		JobService:     svc,
		History:        history,
		Classifier:     classifier,
		Analysis:       analysisSvc,
		SheetsExporter: exporter,
		Background:     bg,
		Scheduler:      sched,
	}
}

func provideHTTPClient() *http.Client {
	return &http.Client{Timeout: upstreamTimeout}
}

func provideRedisClient(ctx context.Context, cfg config.Config, logger *logging.Logger) (*redis.Client, func(), error) {
	rdb, err := storageredis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Redis client initialized")

	return rdb, func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}, nil
}

func provideCacheRepository(rdb *redis.Client) repository.CacheRepository {
	return storageredis.NewCacheRepository(rdb)
}

func provideResultCache(repo repository.CacheRepository, logger *logging.Logger, m *metrics.Metrics) (*job.ResultCache, error) {
	return job.NewResultCache(repo, logger, job.WithCacheMetrics(m))
}

// provideHistoryRepository connects the configured history backend and makes sure its schema exists
func provideHistoryRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.HistoryRepository, func(), error) {
	switch cfg.History.Backend {
	case config.HistoryPostgres:
		pool, err := storagepostgres.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := storagepostgres.NewHistoryRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("PostgreSQL history initialized")
		return repo, pool.Close, nil

	case config.HistoryNeo4j:
		client, err := n4j.NewClient(ctx, n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Warn("failed to close neo4j client", "err", err)
			}
		}
		repo := storageneo4j.NewHistoryRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeClient()
			return nil, nil, err
		}
		logger.Info("Neo4j history initialized", "uri", cfg.Neo4j.URI)
		return repo, closeClient, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

func provideHistoryStore(repo repository.HistoryRepository) (*job.HistoryStore, error) {
	return job.NewHistoryStore(repo, nil)
}

func provideRomeClient(cfg config.Config, httpClient *http.Client) (*francetravail.Client, error) {
	return francetravail.NewClient(francetravail.Config{
		ClientID:     cfg.FranceTravail.ClientID,
		ClientSecret: cfg.FranceTravail.ClientSecret,
		HTTPClient:   httpClient,
	})
}

func provideClassifier(client *francetravail.Client, logger *logging.Logger) (*occupation.Classifier, error) {
	return occupation.NewClassifier(client, logger)
}

// provideProviders builds the three upstream adapters in their fan-out roles
func provideProviders(cfg config.Config, httpClient *http.Client) (job.Providers, error) {
	lbaClient, err := labonnealternance.NewClient(labonnealternance.Config{
		APIKey:     cfg.LBA.APIKey,
		Caller:     cfg.LBA.Caller,
		HTTPClient: httpClient,
	})
	if err != nil {
		return job.Providers{}, err
	}
	lba, err := lbaprovider.NewProvider(lbaClient)
	if err != nil {
		return job.Providers{}, err
	}

	algoliaClient, err := algolia.NewClient(algolia.Config{
		AppID:      cfg.WTTJ.AppID,
		APIKey:     cfg.WTTJ.APIKey,
		Index:      cfg.WTTJ.Index,
		Referer:    wttjprovider.Referer,
		HTTPClient: httpClient,
	})
	if err != nil {
		return job.Providers{}, err
	}
	wttj, err := wttjprovider.NewProvider(algoliaClient)
	if err != nil {
		return job.Providers{}, err
	}

	apecClient, err := apec.NewClient(apec.Config{HTTPClient: httpClient})
	if err != nil {
		return job.Providers{}, err
	}
	apecProvider, err := apecprovider.NewProvider(apecClient)
	if err != nil {
		return job.Providers{}, err
	}

	return job.Providers{Coded: lba, Text: wttj, Area: apecProvider}, nil
}

func provideBackground(cfg config.Config, logger *logging.Logger) *job.Background {
	return job.NewBackground(logger, cfg.PersistTimeout)
}

func provideAnalysis(history *job.HistoryStore, cfg config.Config) (*analysis.Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return analysis.NewService(history, loc)
}

// provideSheetsExporter returns a nil exporter when no credentials are configured
func provideSheetsExporter(ctx context.Context, cfg config.Config, history *job.HistoryStore, logger *logging.Logger) (tools.SheetsExporter, error) {
	if cfg.Sheets.CredentialsPath == "" {
		logger.Info("Google Sheets export disabled")
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized")
	return newSheetsExporter(history, client), nil
}

// provideScheduler returns a nil scheduler when no refresh schedule is configured
func provideScheduler(cfg config.Config, svc job.Service, logger *logging.Logger) (*scheduler.Scheduler, error) {
	if cfg.Refresh.Schedule == "" {
		return nil, nil
	}

	return scheduler.New(scheduler.Config{
		Spec:       cfg.Refresh.Schedule,
		Categories: cfg.Refresh.Categories,
		Location: scheduler.Location{
			Latitude:  cfg.Refresh.Latitude,
			Longitude: cfg.Refresh.Longitude,
			RadiusKm:  cfg.Refresh.RadiusKm,
			AreaCode:  cfg.Refresh.AreaCode,
		},
	}, svc, logger)
}
