package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
)

type call struct {
	query    string
	lon, lat float64
	radius   int
	area     string
}

type recordingFinder struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]bool
	block bool
}

func (f *recordingFinder) FindJobs(ctx context.Context, query string, lon, lat float64, radius int, area string) ([]domain.Job, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{query, lon, lat, radius, area})
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.fail[query] {
		return nil, errors.New("boom")
	}
	return []domain.Job{{Title: query}}, nil
}

func (f *recordingFinder) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.query)
	}
	return out
}

var paris = Location{Latitude: 48.8566, Longitude: 2.3522, RadiusKm: 30, AreaCode: "75056"}

func TestRunOnce_RefreshesEveryCategory(t *testing.T) {
	f := &recordingFinder{fail: map[string]bool{"SRE": true}}
	s, err := New(Config{Spec: "@every 6h", Categories: []string{"DevOps", "SRE", "Cloud"}, Location: paris}, f, nil)
	require.NoError(t, err)

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"DevOps", "SRE", "Cloud"}, f.queries())
	assert.Equal(t, call{"DevOps", 2.3522, 48.8566, 30, "75056"}, f.calls[0])
}

func TestRunOnce_DefaultCategories(t *testing.T) {
	f := &recordingFinder{}
	s, err := New(Config{Spec: "@every 6h", Location: paris}, f, nil)
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Equal(t, DefaultCategories, f.queries())
}

func TestRunOnce_StopsWhenCancelled(t *testing.T) {
	f := &recordingFinder{}
	s, err := New(Config{Spec: "@every 6h", Categories: []string{"DevOps", "SRE"}}, f, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)
	assert.Empty(t, f.queries())
}

func TestRunOnce_SearchTimeout(t *testing.T) {
	f := &recordingFinder{block: true}
	s, err := New(Config{
		Spec:          "@every 6h",
		Categories:    []string{"DevOps", "SRE"},
		SearchTimeout: 10 * time.Millisecond,
	}, f, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunOnce(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunOnce did not honour the per-search timeout")
	}
	assert.Equal(t, []string{"DevOps", "SRE"}, f.queries())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Spec: "not a spec"}, &recordingFinder{}, nil)
	assert.Error(t, err)

	_, err = New(Config{Spec: "@every 1h"}, nil, nil)
	assert.Error(t, err)
}

func TestStartShutdown(t *testing.T) {
	s, err := New(Config{Spec: "@every 1h"}, &recordingFinder{}, nil)
	require.NoError(t, err)

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
	assert.Error(t, s.baseCtx.Err())
}
