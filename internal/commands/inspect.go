package commands

import (
	"os"
	"strings"

	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/internal/styles"
	"github.com/gerunddev/refdoc/internal/tui"
	"github.com/gerunddev/refdoc/markdown"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	File string `arg:"" type:"existingfile" help:"Document to inspect"`
}

// Run prints one line per node, indented by nesting depth.
func (c *TreeCmd) Run(g *Globals) error {
	doc, err := document.Load(c.File)
	if err != nil {
		return err
	}

	color := isColorSupported(g.stdout)
	for _, row := range tui.Outline(doc.Forest) {
		kind := row.Node.Kind().String()
		if color {
			kind = styles.KindStyle(row.Node.Kind()).Render(kind)
		}
		g.printf("%s%s %s\n", strings.Repeat("  ", row.Depth), kind, tui.Label(row.Node))
	}
	return nil
}

// ArgCmd implements the 'arg' command.
type ArgCmd struct {
	Line string `arg:"" help:"Argument declaration line to parse"`
}

// Run parses the line and prints its parts.
func (c *ArgCmd) Run(g *Globals) error {
	arg, err := markdown.ParseArgument(c.Line)
	if err != nil {
		return err
	}
	g.printf("name: %s\ntype: %s\ndescription: %s\n", arg.Name, arg.Type, arg.Description)
	return nil
}

// BrowseCmd implements the 'browse' command.
type BrowseCmd struct {
	File  string `arg:"" type:"existingfile" help:"Document to browse"`
	Width int    `help:"Column budget (defaults to max_columns)"`
}

// Run starts the outline browser.
func (c *BrowseCmd) Run(g *Globals) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	doc, err := document.Parse(c.File, string(data))
	if err != nil {
		return err
	}
	return tui.RunBrowse(doc, string(data), g.width(c.Width))
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

// Run prints the version.
func (c *VersionCmd) Run(g *Globals) error {
	g.printf("refdoc v%s\n", Version)
	return nil
}
