package markdown

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMaxColumns is the wrap width used by Render.
const DefaultMaxColumns = 120

const indentUnit = "  "

// Renderer serializes a forest back to dialect text.
type Renderer struct {
	MaxColumns int
}

// NewRenderer creates a renderer wrapping paragraphs at maxColumns display
// columns. A non-positive width selects DefaultMaxColumns.
func NewRenderer(maxColumns int) *Renderer {
	if maxColumns <= 0 {
		maxColumns = DefaultMaxColumns
	}
	return &Renderer{MaxColumns: maxColumns}
}

// Render renders forest with DefaultMaxColumns.
func Render(forest []Node) string {
	return NewRenderer(DefaultMaxColumns).Render(forest)
}

// Render returns the text for forest, terminated by a single newline.
func (r *Renderer) Render(forest []Node) string {
	s := &renderState{maxColumns: r.MaxColumns}
	if s.maxColumns <= 0 {
		s.maxColumns = DefaultMaxColumns
	}
	s.nodes(forest, "")

	out := s.out
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

type renderState struct {
	maxColumns int
	out        []string
}

// separate emits a blank line unless the output is empty or already ends
// with one.
func (s *renderState) separate() {
	if len(s.out) > 0 && s.out[len(s.out)-1] != "" {
		s.out = append(s.out, "")
	}
}

func (s *renderState) nodes(nodes []Node, indent string) {
	var prev Node
	for _, n := range nodes {
		s.node(n, prev, indent)
		prev = n
	}
}

func (s *renderState) node(n, prev Node, indent string) {
	switch n := n.(type) {
	case *Header:
		s.separate()
		line := strings.Repeat(headerMarker, n.Depth)
		if n.Text != "" {
			line += " " + n.Text
		}
		s.out = append(s.out, line)
		s.nodes(n.Children, "")
	case *Text:
		if p, ok := prev.(*Text); !ok || !isQuote(p.Text) || !isQuote(n.Text) {
			s.separate()
		}
		s.text(n.Text, indent)
	case *Code:
		s.separate()
		s.out = append(s.out, fenceMarker+n.Lang)
		s.out = append(s.out, n.Lines...)
		s.out = append(s.out, fenceMarker)
		s.separate()
	case *Generator:
		s.separate()
		s.out = append(s.out, n.Lines...)
		s.separate()
	case *ListItem:
		s.out = append(s.out, indent+n.Type.Marker()+" "+n.Text)
		s.nodes(n.Children, indent+indentUnit)
	default:
		panic(fmt.Sprintf("markdown: unexpected node type %T", n))
	}
}

func (s *renderState) text(text, indent string) {
	if isQuote(text) || isTag(text) {
		s.out = append(s.out, indent+text)
		return
	}
	for _, line := range Wrap(text, s.maxColumns-runewidth.StringWidth(indent)) {
		s.out = append(s.out, indent+line)
	}
}

// Wrap breaks text into lines of at most width display columns. It breaks
// at the last space that fits, or failing that at the first space past the
// boundary; a single token wider than width is never split. Breaks that
// would start a line with a list marker, header, quote, tag or fence are
// skipped so the wrapped text parses back to the same paragraph.
func Wrap(text string, width int) []string {
	var lines []string
	start, seg := 0, 0
	col := 0 // display width of text[start:seg]
	last, lastCol := -1, 0

	cut := func(at int) {
		lines = append(lines, text[start:at])
		start = at + 1
	}

	for i := 0; i < len(text); i++ {
		if text[i] != ' ' {
			continue
		}
		col += runewidth.StringWidth(text[seg:i])
		seg = i
		if !safeBreak(text[i+1:]) {
			continue
		}
		if col > width && last >= 0 {
			cut(last)
			col -= lastCol + 1
			last = -1
		}
		if col > width {
			cut(i)
			col, seg = 0, i+1
			continue
		}
		last, lastCol = i, col
	}

	col += runewidth.StringWidth(text[seg:])
	if col > width && last >= 0 {
		cut(last)
	}
	return append(lines, text[start:])
}

func safeBreak(rest string) bool {
	return strings.TrimSpace(rest) != "" && !startsStructure(rest)
}
