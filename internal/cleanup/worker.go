// Package cleanup removes expired reports in the background.
package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/chatlens/chatlens/internal/metrics"
)

// DefaultInterval is how often expired reports are purged.
const DefaultInterval = 10 * time.Minute

// Store removes expired reports.
type Store interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Worker periodically calls Store.DeleteExpired.
type Worker struct {
	store    Store
	logger   *slog.Logger
	metrics  metrics.Recorder
	interval time.Duration
	now      func() time.Time

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewWorker creates a cleanup worker. A zero interval uses DefaultInterval.
func NewWorker(store Store, interval time.Duration, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		store:    store,
		logger:   logger.With("component", "cleanup.worker"),
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
	}
}

// Run purges once immediately and then on every tick. Blocks until the
// context is cancelled or Shutdown is called.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("worker already started")
	}
	w.started = true
	w.done = make(chan struct{})
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	defer close(w.done)

	w.logger.Info("cleanup worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.purge(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("cleanup worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Shutdown stops the worker and waits for the current purge to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	w.logger.Info("cleanup worker shutdown initiated")
	cancel()

	select {
	case <-done:
		w.logger.Info("cleanup worker shutdown complete")
		return nil
	case <-ctx.Done():
		w.logger.Warn("cleanup worker shutdown timed out")
		return ctx.Err()
	}
}

// purge runs one DeleteExpired pass. Errors are logged and retried on the
// next tick.
func (w *Worker) purge(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	n, err := w.store.DeleteExpired(ctx, w.now())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Error("failed to delete expired reports", "error", err)
		}
		return
	}

	w.metrics.AddReportsCleaned(n)
	if n > 0 {
		w.logger.Info("deleted expired reports", "count", n)
	}
}
