// Package scheduler periodically re-runs job searches for a fixed set of categories
// so the history keeps growing without user traffic.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

const defaultSearchTimeout = 2 * time.Minute

// DefaultCategories are the categories refreshed when none are configured
var DefaultCategories = []string{
	"DevOps",
	"DevSecOps",
	"SRE",
	"Ingenieur-Cloud",
	"Ingenieur-Systeme",
	"Ingenieur-Reseaux",
	"Cybersecurity",
	"Cloud-Computing",
}

// Location is the reference area every category is searched in
type Location struct {
	Latitude  float64
	Longitude float64
	RadiusKm  int
	AreaCode  string
}

// Config defines the refresh schedule
type Config struct {
	Spec          string // cron spec, e.g. "@every 6h"
	Categories    []string
	Location      Location
	SearchTimeout time.Duration
}

type finder interface {
	FindJobs(ctx context.Context, query string, longitude, latitude float64, radiusKm int, areaCode string) ([]domain.Job, error)
}

// Scheduler wraps robfig/cron and runs one refresh cycle per tick
type Scheduler struct {
	cron    *cron.Cron
	finder  finder
	cfg     Config
	logger  *logging.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New validates cfg and registers the refresh job. Nothing runs until Start.
func New(cfg Config, f finder, logger *logging.Logger) (*Scheduler, error) {
	if f == nil {
		return nil, fmt.Errorf("scheduler: finder is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}

	cronLogger := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		finder: f,
		cfg:    cfg,
		logger: logger.With("component", "scheduler"),
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(cfg.Spec, func() { s.RunOnce(s.baseCtx) }); err != nil {
		s.cancel()
		return nil, fmt.Errorf("scheduler: invalid spec %q: %w", cfg.Spec, err)
	}

	return s, nil
}

// Start begins firing on schedule
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("refresh scheduler started", "spec", s.cfg.Spec, "categories", len(s.cfg.Categories))
}

// Shutdown stops scheduling, cancels the running cycle and waits for it to return
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()
	s.cancel()

	select {
	case <-stopped.Done():
		s.logger.Info("refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce refreshes every category in order. A failing category does not stop the cycle.
func (s *Scheduler) RunOnce(ctx context.Context) {
	started := time.Now()
	total := 0

	for _, category := range s.cfg.Categories {
		if ctx.Err() != nil {
			s.logger.Warn("refresh cycle interrupted", "err", ctx.Err())
			return
		}

		n, err := s.refresh(ctx, category)
		if err != nil {
			s.logger.Warn("category refresh failed", "category", category, "err", err)
			continue
		}
		total += n
	}

	s.logger.Info("refresh cycle complete",
		"categories", len(s.cfg.Categories),
		"jobs", total,
		"elapsed", time.Since(started).String(),
	)
}

func (s *Scheduler) refresh(ctx context.Context, category string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	loc := s.cfg.Location
	jobs, err := s.finder.FindJobs(ctx, category, loc.Longitude, loc.Latitude, loc.RadiusKm, loc.AreaCode)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("category refreshed", "category", category, "jobs", len(jobs))
	return len(jobs), nil
}

// cronLogger routes cron's own messages through the service logger
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
