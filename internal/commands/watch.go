package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/state"
	"github.com/gerunddev/refdoc/internal/styles"
	"github.com/gerunddev/refdoc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Paths    []string      `arg:"" optional:"" type:"path" help:"Documents or directories to keep formatted"`
	Interval time.Duration `help:"Polling interval (defaults to interval from the config)"`
	Width    int           `help:"Column budget (defaults to max_columns)"`
	Stop     bool          `help:"Stop a running watcher"`
}

// Run polls the paths and rewrites drifting documents until interrupted.
func (c *WatchCmd) Run(g *Globals) error {
	pidFile := g.cfg.PIDFile

	if c.Stop {
		if err := watch.Stop(pidFile); err != nil {
			return err
		}
		g.printf("%s\n", styles.SuccessStyle.Render("✓ Watcher stopped"))
		return nil
	}

	if len(c.Paths) == 0 {
		return errors.New("no paths to watch")
	}
	if running, pid, _ := watch.IsRunning(pidFile); running {
		return fmt.Errorf("watcher already running with PID %d", pid)
	}

	interval := c.Interval
	if interval <= 0 {
		interval = g.cfg.Interval
	}

	st, err := state.Load(g.cfg.CacheFile)
	if err != nil {
		g.log.CacheError("load", err)
		st = state.NewState()
	}

	if err := watch.WritePID(pidFile); err != nil {
		return err
	}
	defer func() {
		if err := watch.RemovePID(pidFile); err != nil {
			g.warnf("Warning: %v", err)
		}
	}()

	runner := batch.NewRunner(g.cfg, st)
	runner.SetLogger(g.log)

	w := watch.New(runner, c.Paths, g.cfg.Extensions, interval, batch.Options{Width: g.width(c.Width)})
	w.SetLogger(g.log)
	w.OnRun(func(r *batch.Result) {
		for _, f := range r.Files {
			switch {
			case f.Err != nil:
				g.warnf("✗ %v", f.Err)
			case f.Changed:
				g.printf("%s %s\n", styles.SuccessStyle.Render("✓"), f.Path)
			}
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g.log.WatchStarted(os.Getpid(), interval, c.Paths)
	g.printf("%s\n", styles.DimStyle.Render(fmt.Sprintf("Watching %d path(s) every %v, press Ctrl+C to stop", len(c.Paths), interval)))

	if err := w.Run(ctx); err != nil {
		return err
	}
	g.log.WatchStopped(os.Getpid())
	return nil
}
