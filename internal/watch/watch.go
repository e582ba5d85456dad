// Package watch keeps a set of documents formatted by re-running the batch
// formatter on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/logger"
)

// Watcher polls paths and rewrites documents that drift from canonical form
type Watcher struct {
	runner   *batch.Runner
	paths    []string
	exts     []string
	interval time.Duration
	opts     batch.Options
	logger   *logger.Logger
	onRun    func(*batch.Result)
}

// New creates a watcher. Documents are always written in place and the
// format cache is always consulted.
func New(runner *batch.Runner, paths, exts []string, interval time.Duration, opts batch.Options) *Watcher {
	opts.Write = true
	opts.UseCache = true
	return &Watcher{
		runner:   runner,
		paths:    paths,
		exts:     exts,
		interval: interval,
		opts:     opts,
		logger:   logger.Discard(),
	}
}

// SetLogger sets the logger for the watcher
func (w *Watcher) SetLogger(l *logger.Logger) {
	w.logger = l
}

// OnRun registers fn to be called after every pass
func (w *Watcher) OnRun(fn func(*batch.Result)) {
	w.onRun = fn
}

// Run makes one pass immediately and another on every tick until ctx is
// done. The file set is collected again on every pass so new documents are
// picked up. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", w.interval)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Pass(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Pass formats the watched documents once. A path that cannot be scanned
// is logged and skipped until the next pass.
func (w *Watcher) Pass(ctx context.Context) error {
	files, err := batch.Collect(w.paths, w.exts)
	if err != nil {
		w.logger.Warn("watch scan failed", "error", err)
		return nil
	}

	result, err := w.runner.Run(ctx, files, w.opts)
	if err != nil {
		return err
	}

	if w.onRun != nil {
		w.onRun(result)
	}
	return nil
}
