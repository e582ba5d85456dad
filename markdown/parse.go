package markdown

import (
	"fmt"
	"strings"
)

// Parse parses a reference document into a forest of top-level nodes.
func Parse(text string) ([]Node, error) {
	return Build(Normalize(text))
}

// Build turns logical lines into a forest. Headers nest by depth; list items
// nest by indentation (two spaces per level) below the current header.
func Build(lines []Line) ([]Node, error) {
	b := newBuilder(lines)
	for b.pos < len(b.lines) {
		if err := b.step(); err != nil {
			return nil, err
		}
	}
	return b.root.Children, nil
}

// builder owns the nesting state of a single Build call.
type builder struct {
	lines []Line
	pos   int

	root    *Header
	headers []*Header
	// lists[0] is the open header; lists[d+1] is the last item at depth d.
	lists []Node
}

func newBuilder(lines []Line) *builder {
	root := &Header{}
	return &builder{
		lines:   lines,
		root:    root,
		headers: []*Header{root},
	}
}

func (b *builder) step() error {
	line := b.lines[b.pos]
	text := line.Text

	switch {
	case strings.TrimSpace(text) == "":
		b.pos++
		return nil
	case isFence(text):
		return b.code(line)
	case isGeneratorMarker(text):
		return b.generator(line)
	case isHeader(text):
		return b.header(line)
	case isListItem(text):
		return b.listItem(line)
	default:
		return b.text(line)
	}
}

func (b *builder) code(open Line) error {
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(open.Text, " \t"), fenceMarker))
	node := &Code{Lang: lang, Lines: []string{}}
	for b.pos++; b.pos < len(b.lines); b.pos++ {
		if isFence(b.lines[b.pos].Text) {
			b.pos++
			b.top().Children = append(b.top().Children, node)
			return nil
		}
		node.Lines = append(node.Lines, b.lines[b.pos].Text)
	}
	return structureError(open, "unterminated code fence")
}

func (b *builder) generator(open Line) error {
	node := &Generator{Lines: []string{open.Text}}
	for b.pos++; b.pos < len(b.lines); b.pos++ {
		text := b.lines[b.pos].Text
		node.Lines = append(node.Lines, text)
		if isGeneratorMarker(text) {
			b.pos++
			b.top().Children = append(b.top().Children, node)
			return nil
		}
	}
	return structureError(open, "unterminated generator block")
}

func (b *builder) header(line Line) error {
	m := headerRe.FindStringSubmatch(line.Text)
	if m == nil {
		return structureError(line, "malformed header")
	}
	node := &Header{Depth: len(m[1]), Text: m[2]}
	for len(b.headers) > 1 && b.top().Depth >= node.Depth {
		b.headers = b.headers[:len(b.headers)-1]
	}
	b.top().Children = append(b.top().Children, node)
	b.headers = append(b.headers, node)
	b.lists = []Node{node}
	b.pos++
	return nil
}

func (b *builder) listItem(line Line) error {
	m := listRe.FindStringSubmatch(line.Text)
	indent := len(m[1])
	if indent%2 != 0 {
		return structureError(line, fmt.Sprintf("odd indentation of %d spaces", indent))
	}
	depth := indent / 2
	if depth >= len(b.lists) {
		if len(b.lists) == 0 {
			return structureError(line, "list item before any header")
		}
		return structureError(line, fmt.Sprintf("list item at depth %d has no parent", depth))
	}

	node := &ListItem{Text: line.Text[len(m[0]):], Type: listTypeOf(m[2])}
	attach(b.lists[depth], node)
	b.lists = append(b.lists[:depth+1], node)
	b.pos++
	return nil
}

func (b *builder) text(line Line) error {
	if len(b.lists) == 0 {
		return structureError(line, "text before any header")
	}
	attach(b.lists[0], &Text{Text: line.Text})
	b.lists = b.lists[:1]
	b.pos++
	return nil
}

func (b *builder) top() *Header {
	return b.headers[len(b.headers)-1]
}

func listTypeOf(marker string) ListType {
	switch marker[0] {
	case '1':
		return ListOrdinal
	case '*':
		return ListBullet
	default:
		return ListDefault
	}
}

// attach appends child to a node that can hold children.
func attach(parent, child Node) {
	switch p := parent.(type) {
	case *Header:
		p.Children = append(p.Children, child)
	case *ListItem:
		p.Children = append(p.Children, child)
	default:
		panic(fmt.Sprintf("markdown: %s node cannot hold children", parent.Kind()))
	}
}

func structureError(line Line, reason string) error {
	return &ParseError{
		Line: line.Num,
		Text: line.Text,
		Err:  fmt.Errorf("%w: %s", ErrStructure, reason),
	}
}
