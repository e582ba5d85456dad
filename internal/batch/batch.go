// Package batch formats many documents concurrently. Every document gets its
// own parse state and forest; only the read-only template list is shared.
package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/refdoc/internal/config"
	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/internal/logger"
	"github.com/gerunddev/refdoc/internal/state"
	"github.com/gerunddev/refdoc/markdown"
)

// Options control a single run
type Options struct {
	// Width is the column budget; zero uses the configured max_columns.
	Width int
	// Write rewrites documents whose canonical form differs.
	Write bool
	// UseCache skips documents the format cache knows to be canonical.
	// It is ignored when Params is set.
	UseCache bool
	// Params are template definitions expanded into every document.
	Params []markdown.Node
}

// FileResult is the outcome for one document
type FileResult struct {
	Path    string
	Before  string
	After   string
	Changed bool
	Skipped bool
	Err     error
}

// Result represents the result of a batch run
type Result struct {
	RunID     string
	Files     []FileResult
	StartTime time.Time
	EndTime   time.Time
}

// Runner formats documents using the configured worker count
type Runner struct {
	config *config.Config
	state  *state.State
	logger *logger.Logger
}

// NewRunner creates a runner. st may be nil to disable the format cache.
func NewRunner(cfg *config.Config, st *state.State) *Runner {
	return &Runner{
		config: cfg,
		state:  st,
		logger: logger.Discard(),
	}
}

// SetLogger sets the logger for the runner
func (r *Runner) SetLogger(l *logger.Logger) {
	r.logger = l
}

// Run formats paths and returns one FileResult per path in input order.
// Per-document failures are recorded in the result; the returned error is
// only set when the run itself was cancelled.
func (r *Runner) Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	width := opts.Width
	if width <= 0 {
		width = r.config.MaxColumns
	}
	useCache := opts.UseCache && len(opts.Params) == 0 && r.state != nil

	result := &Result{
		RunID:     uuid.NewString(),
		Files:     make([]FileResult, len(paths)),
		StartTime: time.Now(),
	}
	r.logger.RunStarted(result.RunID, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result.Files[i] = r.process(path, width, useCache, opts)
			return nil
		})
	}

	err := g.Wait()
	result.EndTime = time.Now()

	if useCache {
		if pruned := r.state.Prune(); len(pruned) > 0 {
			r.logger.CachePruned(pruned)
		}
		if serr := r.state.Save(r.config.CacheFile); serr != nil {
			r.logger.CacheError("save", serr)
		}
	}

	r.logger.RunCompleted(result.RunID, result.Processed(), len(result.Errors()), result.EndTime.Sub(result.StartTime))
	if err != nil {
		return result, fmt.Errorf("run %s: %w", result.RunID, err)
	}
	return result, nil
}

func (r *Runner) process(path string, width int, useCache bool, opts Options) FileResult {
	res := FileResult{Path: path}

	if useCache {
		changed, err := r.state.HasChanged(path, width)
		if err != nil {
			r.logger.CacheError("check", err)
		} else if !changed {
			res.Skipped = true
			r.logger.DocumentSkipped(path, "unchanged since last format")
			return res
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		r.logger.DocumentError(path, err)
		return res
	}
	res.Before = string(data)

	after, err := Format(path, res.Before, width, opts.Params)
	if err != nil {
		res.Err = err
		r.logger.DocumentError(path, err)
		return res
	}
	if len(opts.Params) > 0 {
		r.logger.TemplatesExpanded(path, len(opts.Params))
	}
	res.After = after
	res.Changed = after != res.Before

	if res.Changed && opts.Write {
		if err := writeFile(path, after); err != nil {
			res.Err = err
			r.logger.DocumentError(path, err)
			return res
		}
	}
	r.logger.DocumentFormatted(path, res.Changed)

	if useCache && (!res.Changed || opts.Write) {
		// Unchanged or just written: the file now holds after.
		if err := r.state.Update(path, width, after); err != nil {
			r.logger.CacheError("update", err)
		}
	}

	return res
}

// Format parses content, expands params when given and renders the result.
func Format(path, content string, width int, params []markdown.Node) (string, error) {
	doc, err := document.Parse(path, content)
	if err != nil {
		return "", err
	}

	if len(params) > 0 {
		doc.Forest, err = markdown.ExpandTemplates(doc.Forest, params)
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
	}

	return doc.Render(width), nil
}

func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Processed counts documents that were read and formatted without error
func (r *Result) Processed() int {
	n := 0
	for _, f := range r.Files {
		if !f.Skipped && f.Err == nil && f.Path != "" {
			n++
		}
	}
	return n
}

// Changed returns the documents whose canonical form differs from the input
func (r *Result) Changed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Changed && f.Err == nil {
			out = append(out, f)
		}
	}
	return out
}

// Skipped counts documents skipped by the format cache
func (r *Result) Skipped() int {
	n := 0
	for _, f := range r.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}

// Errors returns the per-document errors
func (r *Result) Errors() []error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// String returns a human-readable summary of the run
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Formatted %d documents: %d changed, %d skipped, %d errors (took %v)",
		r.Processed(),
		len(r.Changed()),
		r.Skipped(),
		len(r.Errors()),
		duration.Round(time.Millisecond),
	)
}
