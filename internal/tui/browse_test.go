package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/markdown"
)

const source = "# class: Page\nIntro\ntext.\n## method: Page.close\n- `options` <[Object]>\n  - `force` <[boolean]>\n```js\nawait page.close();\n```\n"

func newTestModel(t *testing.T) BrowseModel {
	t.Helper()
	doc, err := document.Parse("page.md", source)
	require.NoError(t, err)
	m := NewBrowseModel(doc, source, 80)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(BrowseModel)
}

func press(t *testing.T, m BrowseModel, key tea.KeyMsg) (BrowseModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key)
	return updated.(BrowseModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOutline(t *testing.T) {
	doc, err := document.Parse("page.md", source)
	require.NoError(t, err)

	rows := Outline(doc.Forest)
	require.Len(t, rows, 6)

	var labels []string
	var depths []int
	for _, r := range rows {
		labels = append(labels, Label(r.Node))
		depths = append(depths, r.Depth)
	}
	assert.Equal(t, []string{
		"# class: Page",
		"Intro text.",
		"## method: Page.close",
		"- `options` <[Object]>",
		"- `force` <[boolean]>",
		"```js (1 lines)",
	}, labels)
	assert.Equal(t, []int{0, 1, 1, 2, 3, 2}, depths)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "#", Label(&markdown.Header{Depth: 1}))
	assert.Equal(t, "1. step", Label(&markdown.ListItem{Type: markdown.ListOrdinal, Text: "step"}))
	assert.Equal(t, "<!-- GEN:toc -->", Label(&markdown.Generator{Lines: []string{"  <!-- GEN:toc -->", "<!-- GEN:stop -->"}}))
}

func TestBrowseShowsNode(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Nodes: 6")
	assert.Contains(t, m.View(), "class: Page")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "method: Page.close", markdown.TextOf(row.Node))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, viewNode, m.view)
	view := m.View()
	assert.Contains(t, view, "header: ## method: Page.close")
	assert.Contains(t, view, "`force` <[boolean]>")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewOutline, m.view)
}

func TestBrowseDiff(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, viewDiff, m.view)

	msg := cmd()
	diffMsg, ok := msg.(DiffMsg)
	require.True(t, ok)
	require.NoError(t, diffMsg.Err)
	assert.NotEmpty(t, diffMsg.Content)

	updated, _ := m.Update(diffMsg)
	m = updated.(BrowseModel)
	assert.Contains(t, m.View(), "Formatting diff: page.md")
}

func TestBrowseQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
