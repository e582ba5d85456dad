package commands

import (
	"fmt"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Paths  []string `arg:"" type:"path" help:"Documents or directories to lint"`
	Format string   `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Width  int      `help:"Column budget (defaults to max_columns)"`
}

// Run executes the lint command. The exit code is 2 when errors were
// found and 1 when only warnings were.
func (c *LintCmd) Run(g *Globals) error {
	files, err := batch.Collect(c.Paths, g.cfg.Extensions)
	if err != nil {
		return err
	}

	result, err := lint.NewLinter(g.width(c.Width)).LintFiles(files)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	formatter := lint.NewFormatter(c.Format, isColorSupported(g.stdout))
	if err := formatter.Format(g.stdout, result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if code := result.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
