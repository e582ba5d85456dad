package lint

import (
	"errors"
	"os"
	"strings"

	"github.com/gerunddev/refdoc/internal/document"
	"github.com/gerunddev/refdoc/markdown"
)

// Linter runs rules over documents.
type Linter struct {
	maxColumns int
	rules      []Rule
}

// NewLinter creates a linter with the default rules. A non-positive
// maxColumns falls back to the renderer default.
func NewLinter(maxColumns int) *Linter {
	if maxColumns <= 0 {
		maxColumns = markdown.DefaultMaxColumns
	}
	return &Linter{
		maxColumns: maxColumns,
		rules:      DefaultRules(),
	}
}

// LintFiles lints a list of files. Read failures abort the run; parse
// failures are reported as issues.
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{
		Issues: []Issue{},
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return result, err
		}
		result.FilesTotal++
		result.Issues = append(result.Issues, l.LintSource(file, string(data))...)
	}

	return result, nil
}

// LintSource lints the content of one document.
func (l *Linter) LintSource(path, content string) []Issue {
	doc, err := document.Parse(path, content)
	if err != nil {
		return []Issue{parseIssue(path, err)}
	}

	body := strings.ReplaceAll(content, "\r\n", "\n")
	body = strings.TrimPrefix(body, doc.Frontmatter)
	in := newInput(doc, body, l.maxColumns)

	var issues []Issue
	for _, rule := range l.rules {
		issues = append(issues, rule.Check(in)...)
	}
	return issues
}

func parseIssue(path string, err error) Issue {
	issue := Issue{
		FilePath: path,
		Severity: SeverityError,
		Rule:     "parse",
		Message:  err.Error(),
	}
	var perr *markdown.ParseError
	if errors.As(err, &perr) {
		issue.Line = perr.Line
		issue.Message = perr.Error()
	}
	return issue
}
