package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintSource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		rule     string
		severity Severity
		line     int
		section  string
	}{
		{
			name:     "malformed argument",
			source:   "# method: Page.goto\n- `url` <string> URL to navigate.\n- `timeout` missing type\n",
			rule:     "argument",
			severity: SeverityError,
			line:     3,
			section:  "method: Page.goto",
		},
		{
			name:     "empty header",
			source:   "# h\n##\n- a\n",
			rule:     "empty-header",
			severity: SeverityWarning,
			line:     2,
			section:  "h",
		},
		{
			name:     "overlong token",
			source:   "# h\n" + strings.Repeat("x", 130) + "\n",
			rule:     "line-length",
			severity: SeverityWarning,
			line:     2,
			section:  "h",
		},
		{
			name:     "heading hidden in generator block",
			source:   "# class: Page\n<!-- GEN:toc -->\n# not a header\n<!-- GEN:stop -->\n",
			rule:     "commonmark-heading",
			severity: SeverityWarning,
			line:     3,
		},
		{
			name:     "parse failure",
			source:   "# h\n   - odd\n",
			rule:     "parse",
			severity: SeverityError,
			line:     2,
		},
		{
			name:     "line numbers count frontmatter",
			source:   "---\ntitle: x\n---\n# h\n- `x` bad\n",
			rule:     "argument",
			severity: SeverityError,
			line:     5,
			section:  "h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := NewLinter(120).LintSource("api.md", tt.source)
			require.Len(t, issues, 1, "issues: %+v", issues)

			issue := issues[0]
			assert.Equal(t, "api.md", issue.FilePath)
			assert.Equal(t, tt.rule, issue.Rule)
			assert.Equal(t, tt.severity, issue.Severity)
			assert.Equal(t, tt.line, issue.Line)
			assert.Equal(t, tt.section, issue.Section)
		})
	}
}

func TestLintSourceClean(t *testing.T) {
	source := strings.Join([]string{
		"# class: Page",
		"* since: v1.8",
		"",
		"Page provides methods to interact with a tab.",
		"",
		"## async method: Page.goto",
		"- returns: <[null]|[Response]>",
		"- `url` <[string]> URL to navigate to.",
		"- `options` <[Object]> = %%-navigation-options-%%",
		"- extra-inline- = %%-extras-%%",
		"",
		"```js",
		"# not a heading inside code",
		"```",
	}, "\n") + "\n"

	assert.Empty(t, NewLinter(120).LintSource("page.md", source))
}

func TestLintFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	bad := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(good, []byte("# h\n- `a` <int> fine\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("# h\n- `a` no type\n##\n"), 0644))

	result, err := NewLinter(0).LintFiles([]string{good, bad})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesTotal)
	assert.Equal(t, 1, result.ErrorCount())
	assert.Equal(t, 1, result.WarningCount())
	assert.Equal(t, 2, result.ExitCode())

	_, err = NewLinter(0).LintFiles([]string{filepath.Join(dir, "missing.md")})
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, (&Result{}).ExitCode())
	assert.Equal(t, 1, (&Result{Issues: []Issue{{Severity: SeverityWarning}}}).ExitCode())
	assert.Equal(t, 2, (&Result{Issues: []Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}}).ExitCode())
	assert.Equal(t, 0, (&Result{Issues: []Issue{{Severity: SeverityInfo}}}).ExitCode())
}

func sampleResult() *Result {
	return &Result{
		FilesTotal: 2,
		Issues: []Issue{
			{FilePath: "a.md", Line: 3, Severity: SeverityError, Rule: "argument", Message: "bad signature", Section: "class: A"},
			{FilePath: "b.md", Severity: SeverityWarning, Rule: "empty-header", Message: "level 2 header has no text"},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text", false).Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "a.md:3: ERROR [argument] bad signature\n")
	assert.Contains(t, out, "  in class: A\n")
	assert.Contains(t, out, "b.md: WARNING [empty-header] level 2 header has no text\n")
	assert.Contains(t, out, "2 files checked, 1 error, 1 warning\n")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json", false).Format(&buf, sampleResult()))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, 2, output.FilesTotal)
	assert.Equal(t, 1, output.ErrorCount)
	assert.Equal(t, 1, output.WarningCount)
	require.Len(t, output.Issues, 2)
	assert.Equal(t, "error", output.Issues[0].Severity)
	assert.Equal(t, 3, output.Issues[0].Line)
	assert.Equal(t, "class: A", output.Issues[0].Section)
}
