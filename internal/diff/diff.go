package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatPlain prints the unified diff as is
	FormatPlain Format = iota
	// FormatPretty renders the diff through glamour for terminals
	FormatPretty
)

// Unified returns a unified diff turning before into after, or "" when the
// two are identical.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}

	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(path, path+" (formatted)", before, edits))
}

// Generate diffs a document against its formatted form
func Generate(path, before, after string, format Format) (string, error) {
	unified := Unified(path, before, after)
	if unified == "" {
		return "", nil
	}

	switch format {
	case FormatPlain:
		return unified, nil
	case FormatPretty:
		return pretty(unified), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// pretty wraps the diff in a fence and renders it with glamour, falling
// back to the fenced text when rendering fails.
func pretty(unified string) string {
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
