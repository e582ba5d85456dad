package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/refdoc/internal/styles"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	useColor bool
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(useColor bool) *TextFormatter {
	return &TextFormatter{useColor: useColor}
}

func (f *TextFormatter) style(s lipgloss.Style, text string) string {
	if !f.useColor {
		return text
	}
	return s.Render(text)
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result) error {
	for _, issue := range result.Issues {
		if err := f.formatIssue(w, issue); err != nil {
			return err
		}
	}

	if len(result.Issues) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d file%s checked, %d error%s, %d warning%s",
		result.FilesTotal, pluralize(result.FilesTotal),
		result.ErrorCount(), pluralize(result.ErrorCount()),
		result.WarningCount(), pluralize(result.WarningCount()))

	switch {
	case result.HasErrors():
		summary = f.style(styles.ErrorStyle, summary)
	case result.HasWarnings():
		summary = f.style(styles.WarningStyle, summary)
	default:
		summary = f.style(styles.SuccessStyle, summary)
	}

	_, err := fmt.Fprintln(w, summary)
	return err
}

// formatIssue formats a single issue as path:line: SEVERITY [rule] message.
func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) error {
	location := issue.FilePath
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", location, issue.Line)
	}

	severity := issue.Severity.String()
	switch issue.Severity {
	case SeverityError:
		severity = f.style(styles.ErrorStyle, severity)
	case SeverityWarning:
		severity = f.style(styles.WarningStyle, severity)
	}

	if _, err := fmt.Fprintf(w, "%s: %s [%s] %s\n", location, severity, issue.Rule, issue.Message); err != nil {
		return err
	}

	if issue.Section != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", f.style(styles.DimStyle, "in "+issue.Section)); err != nil {
			return err
		}
	}

	return nil
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath string `json:"file_path"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Section  string `json:"section,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	output := JSONOutput{
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       []JSONIssue{},
	}

	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath: issue.FilePath,
			Severity: strings.ToLower(issue.Severity.String()),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Section:  issue.Section,
			Line:     issue.Line,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, useColor bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(useColor)
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
