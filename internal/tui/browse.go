package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/refdoc/internal/diff"
	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/internal/styles"
	"github.com/gerunddev/refdoc/markdown"
)

const labelWidth = 60

// OutlineRow is one node of the flattened document outline
type OutlineRow struct {
	Node  markdown.Node
	Depth int
}

// DiffMsg is sent when the formatting diff is ready
type DiffMsg struct {
	Content string
	Err     error
}

type view int

const (
	viewOutline view = iota
	viewNode
	viewDiff
)

// BrowseModel is an interactive outline of one document
type BrowseModel struct {
	table    table.Model
	viewport viewport.Model
	doc      *document.Document
	source   string
	rows     []OutlineRow
	columns  int
	view     view
	selected *OutlineRow
	err      error
	width    int
	height   int
}

// NewBrowseModel builds the outline of doc. source is the file content the
// document was parsed from; columns is the render width.
func NewBrowseModel(doc *document.Document, source string, columns int) BrowseModel {
	tcols := []table.Column{
		{Title: "Node", Width: labelWidth},
		{Title: "Kind", Width: 10},
		{Title: "Children", Width: 8},
	}

	t := table.New(
		table.WithColumns(tcols),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.DetailStyle

	m := BrowseModel{
		table:    t,
		viewport: vp,
		doc:      doc,
		source:   source,
		columns:  columns,
	}
	m.rows = Outline(doc.Forest)
	m.table.SetRows(m.tableRows())
	return m
}

// Outline flattens forest in document order
func Outline(forest []markdown.Node) []OutlineRow {
	var rows []OutlineRow
	markdown.Walk(forest, func(n markdown.Node, depth int) bool {
		rows = append(rows, OutlineRow{Node: n, Depth: depth})
		return true
	})
	return rows
}

// Label summarizes a node on one line
func Label(n markdown.Node) string {
	switch n := n.(type) {
	case *markdown.Header:
		return strings.TrimSpace(strings.Repeat("#", n.Depth) + " " + n.Text)
	case *markdown.ListItem:
		return n.Type.Marker() + " " + n.Text
	case *markdown.Code:
		return fmt.Sprintf("```%s (%d lines)", n.Lang, len(n.Lines))
	case *markdown.Generator:
		if len(n.Lines) > 0 {
			return strings.TrimSpace(n.Lines[0])
		}
		return "generator"
	default:
		return markdown.TextOf(n)
	}
}

func (m BrowseModel) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		label := strings.Repeat("  ", r.Depth) + Label(r.Node)
		rows = append(rows, table.Row{
			runewidth.Truncate(label, labelWidth, "…"),
			r.Node.Kind().String(),
			fmt.Sprint(len(markdown.ChildrenOf(r.Node))),
		})
	}
	return rows
}

// Selected returns the row under the cursor, if any
func (m BrowseModel) Selected() (OutlineRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return OutlineRow{}, false
	}
	return m.rows[i], true
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-8, 3))
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-6, 3)

	case tea.KeyMsg:
		if m.view != viewOutline {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q", "esc":
				m.view = viewOutline
				return m, nil
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if row, ok := m.Selected(); ok {
				m.selected = &row
				m.view = viewNode
				m.viewport.SetContent(markdown.NewRenderer(m.columns).Render([]markdown.Node{row.Node}))
				m.viewport.GotoTop()
			}
			return m, nil
		case "d":
			m.view = viewDiff
			m.viewport.SetContent("computing diff…")
			return m, m.loadDiff()
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case DiffMsg:
		m.err = msg.Err
		content := msg.Content
		if content == "" && msg.Err == nil {
			content = "document is already formatted"
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// loadDiff diffs the source against its canonical rendering
func (m BrowseModel) loadDiff() tea.Cmd {
	return func() tea.Msg {
		formatted := m.doc.Render(m.columns)
		out, err := diff.Generate(m.doc.Path, m.source, formatted, diff.FormatPretty)
		return DiffMsg{Content: out, Err: err}
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := m.doc.Title()
	if title == "" {
		title = m.doc.Path
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	switch m.view {
	case viewNode:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s: %s", m.selected.Node.Kind(), Label(m.selected.Node))))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
	case viewDiff:
		b.WriteString(styles.DimStyle.Render("Formatting diff: " + m.doc.Path))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
	default:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Nodes: %d", len(m.rows))))
		b.WriteString("\n\n")
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter show node • d diff • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// RunBrowse starts the outline browser for doc
func RunBrowse(doc *document.Document, source string, columns int) error {
	p := tea.NewProgram(NewBrowseModel(doc, source, columns), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
