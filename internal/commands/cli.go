// Package commands implements the refdoc command line.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/gerunddev/refdoc/internal/config"
	"github.com/gerunddev/refdoc/internal/logger"
	"github.com/gerunddev/refdoc/internal/styles"
)

// Version is the refdoc release
const Version = "0.1.0"

// Globals holds the flags shared by every command and the state they set up.
type Globals struct {
	Config  string           `short:"c" type:"path" help:"Configuration file path (defaults to the XDG config location)"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	cfg     *config.Config
	log     *logger.Logger
	stdout  io.Writer
	stderr  io.Writer
	cleanup func()
}

// CLI is the root of the command tree
type CLI struct {
	Globals

	Fmt        FmtCmd     `cmd:"" help:"Format documents into canonical form"`
	Expand     ExpandCmd  `cmd:"" help:"Expand template macros and print the result"`
	Lint       LintCmd    `cmd:"" help:"Check documents for problems"`
	Tree       TreeCmd    `cmd:"" help:"Print the node outline of a document"`
	Arg        ArgCmd     `cmd:"" help:"Parse an argument declaration line"`
	Browse     BrowseCmd  `cmd:"" help:"Browse a document outline interactively"`
	Watch      WatchCmd   `cmd:"" help:"Keep documents formatted while they are edited"`
	Status     StatusCmd  `cmd:"" help:"Show configuration, cache and last run"`
	Init       InitCmd    `cmd:"" help:"Write a default configuration file"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Show version information"`
}

// ExitError carries a process exit code out of a command without printing
// anything further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Run parses args, executes the selected command and returns the process
// exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	cli.stdout = stdout
	cli.stderr = stderr

	parser, err := kong.New(&cli,
		kong.Name("refdoc"),
		kong.Description("Parse, expand and format API reference documents."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "refdoc v" + Version},
		kong.Bind(&cli.Globals),
	)
	if err != nil {
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		return 1
	}

	if err := cli.setup(); err != nil {
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		return 1
	}
	defer cli.close()

	err = ctx.Run()

	var exit *ExitError
	switch {
	case errors.As(err, &exit):
		return exit.Code
	case err != nil:
		fmt.Fprintln(stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		return 1
	}
	return 0
}

// setup loads the configuration and builds the logger. Without a log file
// only warnings reach stderr unless --verbose is set.
func (g *Globals) setup() error {
	path := g.Config
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	g.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if g.Verbose {
		level = log.DebugLevel
	}

	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		g.log = l
		g.cleanup = cleanup
	} else {
		if !g.Verbose {
			level = log.WarnLevel
		}
		g.log = logger.NewWithLevel(g.stderr, level)
	}

	g.log.ConfigLoaded(path, cfg.MaxColumns, cfg.Workers)
	return nil
}

func (g *Globals) close() {
	if g.cleanup != nil {
		g.cleanup()
	}
}

func (g *Globals) width(flag int) int {
	if flag > 0 {
		return flag
	}
	return g.cfg.MaxColumns
}

// printf writes to the command's stdout
func (g *Globals) printf(format string, args ...any) {
	fmt.Fprintf(g.stdout, format, args...)
}

// warnf writes a styled message to stderr
func (g *Globals) warnf(format string, args ...any) {
	fmt.Fprintln(g.stderr, styles.ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// isColorSupported checks if w is a terminal that accepts color output.
func isColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if fileInfo, err := f.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
