package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/refdoc/internal/batch"
	"github.com/gerunddev/refdoc/internal/styles"
)

// RunMsg is sent when a batch run completes
type RunMsg struct {
	Result *batch.Result
	Err    error
}

// ProgressModel shows a spinner while documents are formatted
type ProgressModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *batch.Result
	err      error
}

// NewProgressModel creates a progress display for a run over files documents
func NewProgressModel(files int) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Red))

	return ProgressModel{
		spinner: s,
		status:  fmt.Sprintf("Formatting %d document(s)...", files),
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case RunMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProgressModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Run failed: "+m.err.Error()) + "\n"
	}

	duration := m.result.EndTime.Sub(m.result.StartTime).Round(time.Millisecond)
	changed := len(m.result.Changed())

	var msg string
	if changed == 0 {
		msg = styles.SuccessStyle.Render("✓ Everything is formatted")
	} else {
		msg = styles.SuccessStyle.Render(fmt.Sprintf("✓ Reformatted %d document(s)", changed))
	}
	if skipped := m.result.Skipped(); skipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d cached", skipped))
	}
	if errs := len(m.result.Errors()); errs > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", errs))
	}
	msg += "\n" + styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", duration)) + "\n"

	return msg
}

// Done reports whether the run finished
func (m ProgressModel) Done() bool {
	return m.complete
}

// Result returns the outcome of a finished run
func (m ProgressModel) Result() (*batch.Result, error) {
	return m.result, m.err
}
