package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/refdoc/markdown"
)

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188"
	Orange  = "#FC9867"
	Yellow  = "#FFD866"
	Green   = "#A9DC76"
	Cyan    = "#78DCE8"
	Purple  = "#AB9DF2"
	Comment = "#727072"
	Border  = "#5B595C"
)

// Common styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Red))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	DetailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)

var kindColors = map[markdown.Kind]string{
	markdown.KindHeader:    Red,
	markdown.KindListItem:  Cyan,
	markdown.KindText:      Foreground,
	markdown.KindCode:      Green,
	markdown.KindGenerator: Purple,
}

// KindStyle returns the style used to label nodes of kind k
func KindStyle(k markdown.Kind) lipgloss.Style {
	color, ok := kindColors[k]
	if !ok {
		color = Foreground
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
