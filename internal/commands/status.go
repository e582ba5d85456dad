package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gerunddev/refdoc/internal/config"
	"github.com/gerunddev/refdoc/internal/state"
	"github.com/gerunddev/refdoc/internal/styles"
	"github.com/gerunddev/refdoc/internal/watch"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

// Run prints the effective configuration, the cache size and the last run.
func (c *StatusCmd) Run(g *Globals) error {
	cfg := g.cfg

	g.printf("%s\n\n", styles.TitleStyle.Render("refdoc status"))
	g.printf("  %-12s %d\n", "max columns", cfg.MaxColumns)
	g.printf("  %-12s %v\n", "extensions", cfg.Extensions)
	g.printf("  %-12s %d\n", "workers", cfg.Workers)
	if cfg.ParamsFile != "" {
		g.printf("  %-12s %s\n", "params", cfg.ParamsFile)
	}

	st, err := state.Load(cfg.CacheFile)
	if err != nil {
		g.printf("  %-12s %s\n", "cache", styles.ErrorStyle.Render(err.Error()))
	} else {
		g.printf("  %-12s %s (%d documents)\n", "cache", cfg.CacheFile, len(st.Files))
	}

	if running, pid, started := watch.IsRunning(cfg.PIDFile); running {
		g.printf("  %-12s %s\n", "watcher", styles.SuccessStyle.Render(fmt.Sprintf("running (PID %d, since %s)", pid, started.Format(time.DateTime))))
	} else {
		g.printf("  %-12s %s\n", "watcher", styles.DimStyle.Render("not running"))
	}

	if cfg.LogFile == "" {
		g.printf("  %-12s %s\n", "last run", styles.DimStyle.Render("no log_file configured"))
		return nil
	}

	_, run, err := ParseLogFile(cfg.LogFile, 500)
	switch {
	case errors.Is(err, os.ErrNotExist), err == nil && run == nil:
		g.printf("  %-12s %s\n", "last run", styles.DimStyle.Render("never"))
	case err != nil:
		return fmt.Errorf("failed to read log file: %w", err)
	default:
		when := "unknown time"
		if !run.At.IsZero() {
			when = run.At.Format(time.DateTime)
		}
		g.printf("  %-12s %s: %d processed, %d failed\n", "last run", when, run.Processed, run.Failed)
	}
	return nil
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

// Run writes the default configuration to the config path.
func (c *InitCmd) Run(g *Globals) error {
	path := g.Config
	if path == "" {
		path = config.ConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}
	g.printf("%s\n", styles.SuccessStyle.Render("✓ Wrote "+path))
	return nil
}
