package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/markdown"
)

// ExpandCmd implements the 'expand' command.
type ExpandCmd struct {
	File   string `arg:"" type:"existingfile" help:"Document to expand"`
	Params string `short:"p" type:"path" help:"Template definitions (defaults to params_file)"`
	Width  int    `help:"Column budget (defaults to max_columns)"`
	Output string `short:"o" type:"path" help:"Write the result to a file instead of stdout"`
}

// Run executes the expand command.
func (c *ExpandCmd) Run(g *Globals) error {
	paramsPath := c.Params
	if paramsPath == "" {
		paramsPath = g.cfg.ParamsFile
	}
	if paramsPath == "" {
		return errors.New("no template definitions: pass --params or set params_file")
	}

	params, err := document.Load(paramsPath)
	if err != nil {
		return err
	}
	templates := Templates(params.Forest)

	doc, err := document.Load(c.File)
	if err != nil {
		return err
	}

	doc.Forest, err = markdown.ExpandTemplates(doc.Forest, templates)
	if err != nil {
		return fmt.Errorf("expand %s: %w", c.File, err)
	}
	g.log.TemplatesExpanded(c.File, len(templates))

	out := doc.Render(g.width(c.Width))
	if c.Output == "" {
		g.printf("%s", out)
		return nil
	}
	if err := os.WriteFile(c.Output, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	return nil
}

// Templates returns every header of a parameter document, at any depth, as
// a template definition.
func Templates(forest []markdown.Node) []markdown.Node {
	var out []markdown.Node
	markdown.Walk(forest, func(n markdown.Node, _ int) bool {
		if n.Kind() == markdown.KindHeader {
			out = append(out, n)
		}
		return true
	})
	return out
}
