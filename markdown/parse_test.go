package markdown

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderNesting(t *testing.T) {
	forest, err := Parse("# a\n## b\n### c\n## d\n# e\n")
	require.NoError(t, err)

	require.Len(t, forest, 2)
	a := forest[0].(*Header)
	e := forest[1].(*Header)
	assert.Equal(t, 1, a.Depth)
	assert.Equal(t, "a", a.Text)
	assert.Equal(t, "e", e.Text)

	require.Len(t, a.Children, 2)
	b := a.Children[0].(*Header)
	d := a.Children[1].(*Header)
	assert.Equal(t, 2, b.Depth)
	require.Len(t, b.Children, 1)
	c := b.Children[0].(*Header)
	assert.Equal(t, 3, c.Depth)
	assert.Equal(t, "c", c.Text)
	assert.Empty(t, d.Children)
	assert.Empty(t, e.Children)
}

func TestParseHeaderNestingDeep(t *testing.T) {
	forest, err := Parse("# a\n## b\n### c\n## d\n### e\n# f\n## g\n")
	require.NoError(t, err)

	require.Len(t, forest, 2)
	a := forest[0].(*Header)
	require.Len(t, a.Children, 2)
	assert.Len(t, a.Children[0].(*Header).Children, 1)
	assert.Len(t, a.Children[1].(*Header).Children, 1)

	f := forest[1].(*Header)
	require.Len(t, f.Children, 1)
	assert.Empty(t, f.Children[0].(*Header).Children)
}

func TestParseListNesting(t *testing.T) {
	forest, err := Parse("# h\n- a\n  - b\n- c\n")
	require.NoError(t, err)

	h := forest[0].(*Header)
	require.Len(t, h.Children, 2)
	a := h.Children[0].(*ListItem)
	c := h.Children[1].(*ListItem)
	assert.Equal(t, "a", a.Text)
	assert.Equal(t, "c", c.Text)
	require.Len(t, a.Children, 1)
	assert.Equal(t, "b", a.Children[0].(*ListItem).Text)
	assert.Empty(t, c.Children)
}

func TestParseListTypes(t *testing.T) {
	forest, err := Parse("# h\n- dash\n* star\n1. one\n")
	require.NoError(t, err)

	h := forest[0].(*Header)
	require.Len(t, h.Children, 3)
	assert.Equal(t, ListDefault, h.Children[0].(*ListItem).Type)
	assert.Equal(t, ListBullet, h.Children[1].(*ListItem).Type)
	assert.Equal(t, ListOrdinal, h.Children[2].(*ListItem).Type)
	assert.Equal(t, "one", h.Children[2].(*ListItem).Text)
}

func TestParseListResetsAtHeader(t *testing.T) {
	forest, err := Parse("# one\n- a\n# two\n  - b\n")
	require.Error(t, err)
	assert.Nil(t, forest)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestParseTextInterleavesWithList(t *testing.T) {
	forest, err := Parse("# h\n- a\n  - b\n\nparagraph\n\n- c\n")
	require.NoError(t, err)

	h := forest[0].(*Header)
	require.Len(t, h.Children, 3)
	assert.Equal(t, KindListItem, h.Children[0].Kind())
	assert.Equal(t, &Text{Text: "paragraph"}, h.Children[1])
	assert.Equal(t, "c", h.Children[2].(*ListItem).Text)
}

func TestParseCodeAttachesToHeader(t *testing.T) {
	input := "# h\n- item\n  ```ts\n  const x = 1;\n\n  ```\n  - nested\n"
	forest, err := Parse(input)
	require.NoError(t, err)

	h := forest[0].(*Header)
	require.Len(t, h.Children, 2)
	item := h.Children[0].(*ListItem)
	assert.Equal(t, &Code{Lang: "ts", Lines: []string{"  const x = 1;", ""}}, h.Children[1])
	require.Len(t, item.Children, 1)
	assert.Equal(t, "nested", item.Children[0].(*ListItem).Text)
}

func TestParseGenerator(t *testing.T) {
	input := "# h\n<!-- GEN:toc -->\n- [a](#a)\n\n  raw\n<!-- GEN:stop -->\ntext\n"
	forest, err := Parse(input)
	require.NoError(t, err)

	h := forest[0].(*Header)
	require.Len(t, h.Children, 2)
	assert.Equal(t, &Generator{Lines: []string{
		"<!-- GEN:toc -->", "- [a](#a)", "", "  raw", "<!-- GEN:stop -->",
	}}, h.Children[0])
	assert.Equal(t, &Text{Text: "text"}, h.Children[1])
}

func TestParseCodeBeforeHeader(t *testing.T) {
	forest, err := Parse("```\nx\n```\n# h\n")
	require.NoError(t, err)

	require.Len(t, forest, 2)
	assert.Equal(t, KindCode, forest[0].Kind())
	assert.Equal(t, KindHeader, forest[1].Kind())
}

func TestParseEmptyHeader(t *testing.T) {
	forest, err := Parse("##\n")
	require.NoError(t, err)
	assert.Equal(t, []Node{&Header{Depth: 2}}, forest)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "list item before header", input: "- a\n", line: 1},
		{name: "text before header", input: "hello\n# h\n", line: 1},
		{name: "odd indentation", input: "# h\n- a\n   - b\n", line: 3},
		{name: "skipped depth", input: "# h\n- a\n    - b\n", line: 3},
		{name: "stale depth after shallower item", input: "# h\n- a\n  - b\n- c\n    - d\n", line: 5},
		{name: "nested item after paragraph", input: "# h\n- a\n\ntext\n\n  - b\n", line: 6},
		{name: "unterminated fence", input: "# h\n```js\ncode\n", line: 2},
		{name: "unterminated generator", input: "# h\n<!-- GEN:x -->\nbody\n", line: 2},
		{name: "header without space", input: "#title\n", line: 1},
		{name: "header too deep", input: "####### deep\n", line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructure)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParseFixture(t *testing.T) {
	content, err := os.ReadFile("testdata/api.md")
	require.NoError(t, err)

	forest, err := Parse(string(content))
	require.NoError(t, err)
	require.Len(t, forest, 1)

	page := forest[0].(*Header)
	assert.Equal(t, "class: Page", page.Text)

	kinds := make([]Kind, len(page.Children))
	for i, c := range page.Children {
		kinds[i] = c.Kind()
	}
	assert.Equal(t, []Kind{
		KindListItem, KindText, KindText, KindText, KindCode, KindGenerator, KindHeader, KindHeader,
	}, kinds)

	goTo := page.Children[6].(*Header)
	assert.Equal(t, "async method: Page.goto", goTo.Text)
	returns := goTo.Children[0].(*ListItem)
	assert.Equal(t, "returns: <[Promise]<[null]|[Response]>> resolves to the main resource response.", returns.Text)

	waitUntil := goTo.Children[3].(*Header)
	require.Len(t, waitUntil.Children, 3)
	assert.Len(t, waitUntil.Children[0].(*ListItem).Children, 2)
	second := waitUntil.Children[2].(*ListItem)
	assert.Equal(t, ListOrdinal, second.Type)
	assert.Equal(t, "Second step", second.Text)
	assert.Len(t, second.Children, 1)

	closeMethod := page.Children[7].(*Header)
	gen := closeMethod.Children[1].(*Generator)
	assert.Equal(t, []string{
		"<!-- GEN:example -->", "", "  indented content is kept as is", "", "<!-- GEN:stop -->",
	}, gen.Lines)
}

func TestWalk(t *testing.T) {
	forest, err := Parse("# a\n- x\n  - y\n## b\ntext\n")
	require.NoError(t, err)

	var visited []string
	Walk(forest, func(n Node, depth int) bool {
		visited = append(visited, n.Kind().String()+":"+TextOf(n))
		return n.Kind() != KindListItem
	})
	assert.Equal(t, []string{"header:a", "li:x", "header:b", "text:text"}, visited)
}

func TestParseIndentedHashContinuation(t *testing.T) {
	src := "# h\nSome text\n  #define flag\n"
	forest, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, forest, 1)
	h := forest[0].(*Header)
	require.Len(t, h.Children, 1)
	assert.Equal(t, "Some text #define flag", h.Children[0].(*Text).Text)

	out := NewRenderer(12).Render(forest)
	assert.Equal(t, "# h\n\nSome\ntext #define\nflag\n", out)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, forest, again)
}
