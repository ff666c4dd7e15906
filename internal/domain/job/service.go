package job

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/internal/metrics"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

// Service aggregates job postings from every provider for one query and area
type Service interface {
	// FindJobs never fails on upstream errors; it returns an error only when ctx ends before the merge
	FindJobs(ctx context.Context, query string, longitude, latitude float64, radiusKm int, areaCode string) ([]domain.Job, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	providers  Providers
	classifier Classifier
	cache      Cache
	history    History
	background *Background
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// WithProviders sets the ordered provider set
func WithProviders(coded, text, area Provider) Option {
	return func(c *config) {
		c.providers = Providers{Coded: coded, Text: text, Area: area}
	}
}

// WithClassifier sets the occupation classifier
func WithClassifier(classifier Classifier) Option {
	return func(c *config) {
		c.classifier = classifier
	}
}

// WithCache sets the result cache
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithHistory sets the historical sink
func WithHistory(history History) Option {
	return func(c *config) {
		c.history = history
	}
}

// WithBackground sets the runner used for persistence
func WithBackground(bg *Background) Option {
	return func(c *config) {
		c.background = bg
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics attaches metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newService(cfg)
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(
	providers Providers,
	classifier Classifier,
	cache Cache,
	history History,
	bg *Background,
	logger *logging.Logger,
	m *metrics.Metrics,
) (Service, error) {
	return newService(&config{
		providers:  providers,
		classifier: classifier,
		cache:      cache,
		history:    history,
		background: bg,
		logger:     logger,
		metrics:    m,
	})
}

func newService(cfg *config) (*service, error) {
	if cfg.providers.Coded == nil || cfg.providers.Text == nil || cfg.providers.Area == nil {
		return nil, fmt.Errorf("job.Service: coded, text and area providers are required")
	}
	if cfg.classifier == nil {
		return nil, fmt.Errorf("job.Service: classifier is required")
	}
	if cfg.cache == nil {
		return nil, fmt.Errorf("job.Service: cache is required")
	}
	if cfg.history == nil {
		return nil, fmt.Errorf("job.Service: history is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.background == nil {
		cfg.background = NewBackground(cfg.logger, defaultTaskTimeout)
	}

	return &service{
		coded:      guard(cfg.providers.Coded, cfg.logger, cfg.metrics),
		text:       guard(cfg.providers.Text, cfg.logger, cfg.metrics),
		area:       guard(cfg.providers.Area, cfg.logger, cfg.metrics),
		classifier: cfg.classifier,
		cache:      cfg.cache,
		history:    cfg.history,
		background: cfg.background,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}, nil
}

type service struct {
	coded, text, area guarded

	classifier Classifier
	cache      Cache
	history    History
	background *Background
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// FindJobs checks the cache, classifies the query, fans out to the providers and schedules persistence
func (s *service) FindJobs(
	ctx context.Context,
	query string,
	longitude, latitude float64,
	radiusKm int,
	areaCode string,
) ([]domain.Job, error) {
	log := s.logger.With("request_id", uuid.NewString(), "query", query)

	if cached, ok := s.cache.Get(ctx, query, latitude, longitude, radiusKm); ok {
		log.Info("serving jobs from cache", "jobs", len(cached))
		s.metrics.ObserveJobs(len(cached))
		return cached, nil
	}

	criteria := domain.SearchCriteria{
		Query:     query,
		Latitude:  latitude,
		Longitude: longitude,
		RadiusKm:  radiusKm,
		AreaCode:  areaCode,
	}

	var batches [][]domain.Job
	codes := joinCodes(s.classifier.Classify(ctx, query))
	if codes == "" {
		log.Info("query not classified, searching text provider only")
		batches = fanOut(ctx, criteria, s.text)
	} else {
		criteria.OccupationCodes = codes
		log.Debug("query classified", "codes", codes)
		batches = fanOut(ctx, criteria, s.coded, s.text, s.area)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("aggregation abandoned before merge", "err", err)
		return nil, err
	}

	jobs := merge(query, batches)
	s.schedulePersistence(ctx, log, query, latitude, longitude, radiusKm, jobs)

	log.Info("aggregation completed", "jobs", len(jobs))
	s.metrics.ObserveJobs(len(jobs))
	return jobs, nil
}

// fanOut runs every provider concurrently and waits for all of them; batches keep provider order
func fanOut(ctx context.Context, criteria domain.SearchCriteria, providers ...guarded) [][]domain.Job {
	batches := make([][]domain.Job, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batches[i] = p.search(ctx, criteria)
		}()
	}
	wg.Wait()

	return batches
}

func merge(query string, batches [][]domain.Job) []domain.Job {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	jobs := make([]domain.Job, 0, total)
	for _, b := range batches {
		for _, j := range b {
			j.SearchQuery = query
			jobs = append(jobs, j)
		}
	}
	return jobs
}

func (s *service) schedulePersistence(
	ctx context.Context,
	log *logging.Logger,
	query string,
	latitude, longitude float64,
	radiusKm int,
	jobs []domain.Job,
) {
	snapshot := slices.Clone(jobs)
	if snapshot == nil {
		snapshot = []domain.Job{}
	}

	s.background.Go(ctx, "cache_write", func(ctx context.Context) error {
		return s.cache.Put(ctx, query, latitude, longitude, radiusKm, snapshot)
	}, func(error) {
		s.metrics.PersistenceFailed("cache")
	})

	s.background.Go(ctx, "history_write", func(ctx context.Context) error {
		return s.history.Append(ctx, snapshot)
	}, func(error) {
		s.metrics.PersistenceFailed("history")
	})

	log.Debug("persistence scheduled", "jobs", len(snapshot))
}

func joinCodes(codes []domain.OccupationCode) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		if c.Code != "" {
			parts = append(parts, c.Code)
		}
	}
	return strings.Join(parts, ",")
}
