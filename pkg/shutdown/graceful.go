package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/jobnexus/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Step names a component stopped during shutdown
type Step struct {
	Name string
	Stop Stoppable
}

// Graceful blocks until one of signals arrives, then stops steps in order.
// Every step gets its own timeout so a stuck component cannot starve the next one.
func Graceful(signals []os.Signal, timeout time.Duration, log *logging.Logger, steps ...Step) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	Stop(timeout, log, steps...)
}

// Stop runs each step's Shutdown in order, skipping nil entries
func Stop(timeout time.Duration, log *logging.Logger, steps ...Step) {
	failed := false
	for _, step := range steps {
		if step.Stop == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := step.Stop.Shutdown(ctx)
		cancel()

		if err != nil {
			failed = true
			log.Warn("shutdown step failed", "step", step.Name, "err", err)
		}
	}

	if failed {
		log.Warn("graceful shutdown completed with error")
	} else {
		log.Info("graceful shutdown completed successfully")
	}
}
