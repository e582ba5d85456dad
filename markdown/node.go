package markdown

import "fmt"

// Kind discriminates the node variants of a parsed document.
type Kind int

const (
	KindHeader Kind = iota
	KindText
	KindCode
	KindGenerator
	KindListItem
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindText:
		return "text"
	case KindCode:
		return "code"
	case KindGenerator:
		return "generator"
	case KindListItem:
		return "li"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one of *Header, *Text, *Code, *Generator or *ListItem.
type Node interface {
	Kind() Kind
	node()
}

// Header is a `#` section. Depth 0 is reserved for the synthetic root and
// never appears in a parsed forest.
type Header struct {
	Depth    int
	Text     string
	Children []Node
}

// Text is a single logical line of paragraph, quote or tag text.
type Text struct {
	Text string
}

// Code is a fenced block; Lines are kept verbatim.
type Code struct {
	Lang  string
	Lines []string
}

// Generator is an opaque `<!-- GEN` block. Lines include both markers.
type Generator struct {
	Lines []string
}

// ListType records which marker introduced a list item.
type ListType int

const (
	ListDefault ListType = iota // -
	ListBullet                  // *
	ListOrdinal                 // 1.
)

// Marker returns the source marker for the list type.
func (t ListType) Marker() string {
	switch t {
	case ListBullet:
		return "*"
	case ListOrdinal:
		return "1."
	default:
		return "-"
	}
}

func (t ListType) String() string {
	switch t {
	case ListBullet:
		return "bullet"
	case ListOrdinal:
		return "ordinal"
	default:
		return "default"
	}
}

// ListItem is a `-`, `*` or `1.` item. Children are nested items.
type ListItem struct {
	Type     ListType
	Text     string
	Children []Node
}

func (*Header) Kind() Kind    { return KindHeader }
func (*Text) Kind() Kind      { return KindText }
func (*Code) Kind() Kind      { return KindCode }
func (*Generator) Kind() Kind { return KindGenerator }
func (*ListItem) Kind() Kind  { return KindListItem }

func (*Header) node()    {}
func (*Text) node()      {}
func (*Code) node()      {}
func (*Generator) node() {}
func (*ListItem) node()  {}

// Clone returns a deep copy of n. The copy shares no slices with n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Header:
		return &Header{Depth: n.Depth, Text: n.Text, Children: CloneAll(n.Children)}
	case *Text:
		return &Text{Text: n.Text}
	case *Code:
		return &Code{Lang: n.Lang, Lines: cloneLines(n.Lines)}
	case *Generator:
		return &Generator{Lines: cloneLines(n.Lines)}
	case *ListItem:
		return &ListItem{Type: n.Type, Text: n.Text, Children: CloneAll(n.Children)}
	default:
		panic(fmt.Sprintf("markdown: unexpected node type %T", n))
	}
}

// CloneAll deep-copies every node of a forest.
func CloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

func cloneLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	return append([]string(nil), lines...)
}

// TextOf returns the text of a node, or "" for Code and Generator.
func TextOf(n Node) string {
	switch n := n.(type) {
	case *Header:
		return n.Text
	case *Text:
		return n.Text
	case *ListItem:
		return n.Text
	default:
		return ""
	}
}

// ChildrenOf returns the children of a node, or nil for leaf variants.
func ChildrenOf(n Node) []Node {
	switch n := n.(type) {
	case *Header:
		return n.Children
	case *ListItem:
		return n.Children
	default:
		return nil
	}
}

// Walk visits the forest in document order. Returning false from fn skips
// the node's children.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(ChildrenOf(n), depth+1, fn)
		}
	}
}
