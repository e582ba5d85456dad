// Package lint checks reference documents for problems the formatter cannot
// fix on its own.
package lint

import (
	"strings"

	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/markdown"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo is informational only.
	SeverityInfo Severity = iota
	// SeverityWarning should be fixed but does not fail the run.
	SeverityWarning
	// SeverityError fails the run.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a document.
type Issue struct {
	FilePath string
	Severity Severity
	Rule     string
	Message  string
	// Section is the header path leading to the offending node.
	Section string
	// Line is the 1-based line in the file, or 0 when unknown.
	Line int
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// ExitCode maps the result to a process exit code: 2 with errors, 1 with
// only warnings, 0 otherwise.
func (r *Result) ExitCode() int {
	switch {
	case r.HasErrors():
		return 2
	case r.HasWarnings():
		return 1
	default:
		return 0
	}
}

// Input is a parsed document handed to every rule.
type Input struct {
	Doc        *document.Document
	Body       string
	MaxColumns int

	lines map[string][]int
}

// Rule defines a linting rule applied to a parsed document.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check inspects a document and returns any issues found.
	Check(in *Input) []Issue
}

func newInput(doc *document.Document, body string, maxColumns int) *Input {
	in := &Input{
		Doc:        doc,
		Body:       body,
		MaxColumns: maxColumns,
		lines:      make(map[string][]int),
	}

	offset := strings.Count(doc.Frontmatter, "\n")
	for _, l := range markdown.Normalize(body) {
		key := logicalKey(l.Text)
		in.lines[key] = append(in.lines[key], l.Num+offset)
	}
	return in
}

// LineOf returns the file line where a logical line with the given content
// starts, or 0 when it cannot be located.
func (in *Input) LineOf(text string) int {
	if nums := in.lines[logicalKey(text)]; len(nums) > 0 {
		return nums[0]
	}
	return 0
}

// logicalKey strips indentation and a list marker so that node text and
// normalized source lines compare equal.
func logicalKey(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"- ", "* ", "1. "} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(s[len(marker):])
		}
	}
	return s
}
