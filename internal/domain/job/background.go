package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/honeycarbs/jobnexus/pkg/logging"
)

const defaultTaskTimeout = 30 * time.Second

// ErrBackgroundClosed is reported for tasks submitted after Shutdown has started
var ErrBackgroundClosed = errors.New("background runner is shut down")

// Background runs fire-and-forget tasks detached from the caller and tracks them for shutdown
type Background struct {
	logger  *logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewBackground creates a runner whose tasks are each bounded by timeout
func NewBackground(logger *logging.Logger, timeout time.Duration) *Background {
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &Background{logger: logger, timeout: timeout}
}

// Go starts fn on a context that keeps parent's values but not its cancellation.
// The returned error is logged and reported to onErr; it never reaches the caller.
// Tasks submitted after Shutdown has started are refused and reported as ErrBackgroundClosed.
func (b *Background) Go(parent context.Context, name string, fn func(ctx context.Context) error, onErr func(error)) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Warn("background task refused after shutdown", "task", name)
		if onErr != nil {
			onErr(ErrBackgroundClosed)
		}
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), b.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			b.logger.Error("background task failed", "task", name, "err", err)
			if onErr != nil {
				onErr(err)
			}
		}
	}()
}

// Wait blocks until every started task has finished
func (b *Background) Wait() {
	b.wg.Wait()
}

// Shutdown waits for in-flight tasks or gives up when ctx ends
func (b *Background) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("background tasks drained")
		return nil
	case <-ctx.Done():
		b.logger.Warn("background tasks still running at shutdown", "err", ctx.Err())
		return ctx.Err()
	}
}
