package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/diff"
	"github.com/gerunddev/refdoc/internal/state"
	"github.com/gerunddev/refdoc/internal/tui"
)

// FmtCmd implements the 'fmt' command.
type FmtCmd struct {
	Paths    []string `arg:"" type:"path" help:"Documents or directories to format"`
	Diff     bool     `short:"d" help:"Print a diff instead of the formatted text"`
	Write    bool     `short:"w" help:"Rewrite documents in place"`
	List     bool     `short:"l" help:"List documents whose formatting differs"`
	Check    bool     `help:"Exit with status 1 when any document is not formatted"`
	Width    int      `help:"Column budget (defaults to max_columns)"`
	NoCache  bool     `help:"Ignore the format cache"`
	Progress bool     `help:"Show a progress spinner while writing"`
}

// Run executes the fmt command.
func (c *FmtCmd) Run(g *Globals) error {
	if c.Progress && !c.Write {
		return errors.New("--progress requires --write")
	}

	files, err := batch.Collect(c.Paths, g.cfg.Extensions)
	if err != nil {
		return err
	}

	var st *state.State
	if !c.NoCache {
		st, err = state.Load(g.cfg.CacheFile)
		if err != nil {
			g.log.CacheError("load", err)
			st = nil
		}
	}

	runner := batch.NewRunner(g.cfg, st)
	runner.SetLogger(g.log)

	opts := batch.Options{
		Width: g.width(c.Width),
		Write: c.Write,
		// Printing needs the formatted text of every document.
		UseCache: c.Write || c.List || c.Diff || c.Check,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result *batch.Result
	if c.Progress {
		result, err = runWithProgress(ctx, runner, files, opts)
	} else {
		result, err = runner.Run(ctx, files, opts)
	}
	if err != nil {
		return err
	}

	format := diff.FormatPlain
	if isColorSupported(g.stdout) {
		format = diff.FormatPretty
	}

	for _, f := range result.Files {
		switch {
		case f.Err != nil:
			g.warnf("✗ %v", f.Err)
		case f.Skipped:
		case c.List:
			if f.Changed {
				g.printf("%s\n", f.Path)
			}
		case c.Diff:
			out, err := diff.Generate(f.Path, f.Before, f.After, format)
			if err != nil {
				return err
			}
			g.printf("%s", out)
		case !c.Write && !c.Check:
			g.printf("%s", f.After)
		}
	}

	if len(result.Errors()) > 0 {
		return &ExitError{Code: 2}
	}
	if c.Check && !c.Write && len(result.Changed()) > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// runWithProgress runs the batch behind a spinner. It does not return
// before the batch goroutine has finished, so no file is written after fmt
// exits.
func runWithProgress(ctx context.Context, runner *batch.Runner, files []string, opts batch.Options) (*batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.NewProgressModel(len(files)), tea.WithContext(ctx))
	return progressRun(ctx, cancel, p, func(ctx context.Context) (*batch.Result, error) {
		return runner.Run(ctx, files, opts)
	})
}

// program is the part of a tea.Program that progressRun drives
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

func progressRun(ctx context.Context, cancel context.CancelFunc, p program, run func(context.Context) (*batch.Result, error)) (*batch.Result, error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := run(ctx)
		p.Send(tui.RunMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil || !final.(tui.ProgressModel).Done() {
		// The display went away first: stop the batch and wait for it.
		cancel()
		<-done
		if err != nil {
			return nil, fmt.Errorf("progress display: %w", err)
		}
		return nil, errors.New("interrupted")
	}

	<-done
	return final.(tui.ProgressModel).Result()
}
