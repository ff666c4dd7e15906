package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

type fakeProvider struct {
	name  string
	jobs  []domain.Job
	err   error
	block bool // wait for ctx cancellation

	calls    atomic.Int32
	mu       sync.Mutex
	criteria domain.SearchCriteria
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Job, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.criteria = criteria
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	out := make([]domain.Job, len(p.jobs))
	copy(out, p.jobs)
	return out, nil
}

func (p *fakeProvider) lastCriteria() domain.SearchCriteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

type fakeClassifier struct {
	codes []domain.OccupationCode
	calls atomic.Int32
}

func (c *fakeClassifier) Classify(context.Context, string) []domain.OccupationCode {
	c.calls.Add(1)
	return c.codes
}

// memCacheRepo is an in-memory repository.CacheRepository
type memCacheRepo struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	loadErr error
	saveErr error
	saves   int
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: make(map[string]domain.CacheEntry)}
}

func (r *memCacheRepo) LoadEntry(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return domain.CacheEntry{}, false, r.loadErr
	}
	e, ok := r.entries[key]
	return e, ok, nil
}

func (r *memCacheRepo) SaveEntry(_ context.Context, key string, e domain.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.entries[key] = e
	return nil
}

func (r *memCacheRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// gatedCache records Put calls and optionally holds them until release is closed
type gatedCache struct {
	hit     []domain.Job
	started chan struct{}
	release chan struct{}
	putErr  error

	mu   sync.Mutex
	puts [][]domain.Job
}

func (c *gatedCache) Get(context.Context, string, float64, float64, int) ([]domain.Job, bool) {
	if c.hit != nil {
		return c.hit, true
	}
	return nil, false
}

func (c *gatedCache) Put(_ context.Context, _ string, _, _ float64, _ int, jobs []domain.Job) error {
	if c.started != nil {
		close(c.started)
	}
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	c.puts = append(c.puts, jobs)
	c.mu.Unlock()
	return c.putErr
}

func (c *gatedCache) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.puts)
}

type fakeHistory struct {
	started chan struct{}
	release chan struct{}
	err     error

	mu      sync.Mutex
	appends [][]domain.Job
}

func (h *fakeHistory) Append(_ context.Context, jobs []domain.Job) error {
	if h.started != nil {
		close(h.started)
	}
	if h.release != nil {
		<-h.release
	}
	h.mu.Lock()
	h.appends = append(h.appends, jobs)
	h.mu.Unlock()
	return h.err
}

func (h *fakeHistory) appendCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.appends)
}

// memHistoryRepo is an in-memory repository.HistoryRepository keyed by JobHash
type memHistoryRepo struct {
	mu      sync.Mutex
	records map[string]domain.HistoricalRecord
	since   time.Time
	err     error
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{records: make(map[string]domain.HistoricalRecord)}
}

func (r *memHistoryRepo) InsertIfAbsent(_ context.Context, records []domain.HistoricalRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	created := 0
	for _, rec := range records {
		if _, ok := r.records[rec.JobHash]; ok {
			continue
		}
		r.records[rec.JobHash] = rec
		created++
	}
	return created, nil
}

func (r *memHistoryRepo) FindRecent(_ context.Context, q string, since time.Time, limit, offset int) ([]domain.HistoricalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.since = since
	var out []domain.HistoricalRecord
	for _, rec := range r.records {
		if rec.SearchQuery == q && !rec.ScrapedAt.Before(since) {
			out = append(out, rec)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errUpstream = errors.New("upstream unavailable")

func testJob(title, source string) domain.Job {
	return domain.Job{
		Title:              title,
		Company:            title + " Corp",
		City:               "Paris",
		URL:                "https://example.com/" + title,
		ContractType:       domain.DefaultContractType,
		TargetDiplomaLevel: "Master",
		Source:             source,
	}
}

// barrierProvider returns only once every provider sharing its WaitGroup has been entered
type barrierProvider struct {
	name    string
	barrier *sync.WaitGroup
	timeout time.Duration
}

func (p *barrierProvider) Name() string { return p.name }

func (p *barrierProvider) Search(context.Context, domain.SearchCriteria) ([]domain.Job, error) {
	p.barrier.Done()

	released := make(chan struct{})
	go func() {
		p.barrier.Wait()
		close(released)
	}()

	select {
	case <-released:
		return []domain.Job{testJob(p.name, p.name)}, nil
	case <-time.After(p.timeout):
		return nil, errors.New("barrier not reached: providers are not running concurrently")
	}
}
