package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/pkg/logging"
)

type ctxKey struct{}

func TestBackground_DetachesFromCallerCancellation(t *testing.T) {
	bg := NewBackground(logging.NewNop(), time.Second)

	parent, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	cancel()

	var gotValue any
	var gotErr error
	bg.Go(parent, "probe", func(ctx context.Context) error {
		gotValue = ctx.Value(ctxKey{})
		gotErr = ctx.Err()
		return nil
	}, nil)
	bg.Wait()

	assert.Equal(t, "req-1", gotValue)
	assert.NoError(t, gotErr)
}

func TestBackground_ReportsErrors(t *testing.T) {
	bg := NewBackground(logging.NewNop(), time.Second)

	var reported atomic.Int32
	bg.Go(context.Background(), "failing", func(context.Context) error {
		return errors.New("store down")
	}, func(error) { reported.Add(1) })
	bg.Wait()

	assert.EqualValues(t, 1, reported.Load())
}

func TestBackground_TaskTimeout(t *testing.T) {
	bg := NewBackground(logging.NewNop(), 20*time.Millisecond)

	var taskErr error
	bg.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		taskErr = ctx.Err()
		return taskErr
	}, nil)
	bg.Wait()

	assert.ErrorIs(t, taskErr, context.DeadlineExceeded)
}

func TestBackground_Shutdown(t *testing.T) {
	bg := NewBackground(logging.NewNop(), time.Minute)
	release := make(chan struct{})
	bg.Go(context.Background(), "blocked", func(context.Context) error {
		<-release
		return nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bg.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bg.Shutdown(context.Background()))
}

func TestBackground_RefusesTasksAfterShutdown(t *testing.T) {
	bg := NewBackground(logging.NewNop(), time.Second)
	require.NoError(t, bg.Shutdown(context.Background()))

	var ran atomic.Bool
	var reported error
	bg.Go(context.Background(), "late", func(context.Context) error {
		ran.Store(true)
		return nil
	}, func(err error) { reported = err })
	bg.Wait()

	assert.False(t, ran.Load())
	assert.ErrorIs(t, reported, ErrBackgroundClosed)
}

func TestBackground_GoRacesShutdown(t *testing.T) {
	bg := NewBackground(logging.NewNop(), time.Second)

	var started, refused atomic.Int32
	var submitters sync.WaitGroup
	for range 50 {
		submitters.Add(1)
		go func() {
			defer submitters.Done()
			bg.Go(context.Background(), "task", func(context.Context) error {
				started.Add(1)
				return nil
			}, func(error) { refused.Add(1) })
		}()
	}

	require.NoError(t, bg.Shutdown(context.Background()))
	submitters.Wait()
	bg.Wait()

	assert.EqualValues(t, 50, started.Load()+refused.Load())
}
