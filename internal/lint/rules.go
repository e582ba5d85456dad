package lint

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gerunddev/refdoc/markdown"
)

// DefaultRules returns every rule in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		&ArgumentRule{},
		&EmptyHeaderRule{},
		&LineLengthRule{},
		&CommonMarkHeadingRule{},
	}
}

// walkSections visits every node along with the " > "-joined texts of the
// headers enclosing it.
func walkSections(forest []markdown.Node, fn func(n markdown.Node, section string)) {
	var visit func(nodes []markdown.Node, path []string)
	visit = func(nodes []markdown.Node, path []string) {
		for _, n := range nodes {
			fn(n, strings.Join(path, " > "))
			next := path
			if h, ok := n.(*markdown.Header); ok {
				next = append(path[:len(path):len(path)], h.Text)
			}
			visit(markdown.ChildrenOf(n), next)
		}
	}
	visit(forest, nil)
}

func headerLine(h *markdown.Header) string {
	line := strings.Repeat("#", h.Depth)
	if h.Text != "" {
		line += " " + h.Text
	}
	return line
}

// ArgumentRule reports list items that look like argument declarations but
// do not follow the `name` <Type> description signature.
type ArgumentRule struct{}

// Name returns the rule identifier.
func (r *ArgumentRule) Name() string {
	return "argument"
}

// Check validates argument signatures.
func (r *ArgumentRule) Check(in *Input) []Issue {
	var issues []Issue
	walkSections(in.Doc.Forest, func(n markdown.Node, section string) {
		item, ok := n.(*markdown.ListItem)
		if !ok || !strings.HasPrefix(item.Text, "`") || strings.Contains(item.Text, "%%") {
			return
		}
		if _, err := markdown.ParseArgument(item.Text); err != nil {
			issues = append(issues, Issue{
				FilePath: in.Doc.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  err.Error(),
				Section:  section,
				Line:     in.LineOf(item.Text),
			})
		}
	})
	return issues
}

// EmptyHeaderRule reports headers without text.
type EmptyHeaderRule struct{}

// Name returns the rule identifier.
func (r *EmptyHeaderRule) Name() string {
	return "empty-header"
}

// Check finds empty headers.
func (r *EmptyHeaderRule) Check(in *Input) []Issue {
	var issues []Issue
	walkSections(in.Doc.Forest, func(n markdown.Node, section string) {
		h, ok := n.(*markdown.Header)
		if !ok || strings.TrimSpace(h.Text) != "" {
			return
		}
		issues = append(issues, Issue{
			FilePath: in.Doc.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("level %d header has no text", h.Depth),
			Section:  section,
			Line:     in.LineOf(headerLine(h)),
		})
	})
	return issues
}

// LineLengthRule reports paragraph text that stays wider than the column
// budget after wrapping, which happens when a single token is too long.
type LineLengthRule struct{}

// Name returns the rule identifier.
func (r *LineLengthRule) Name() string {
	return "line-length"
}

// Check wraps every paragraph and measures the result.
func (r *LineLengthRule) Check(in *Input) []Issue {
	var issues []Issue
	walkSections(in.Doc.Forest, func(n markdown.Node, section string) {
		t, ok := n.(*markdown.Text)
		if !ok || strings.HasPrefix(t.Text, ">") || strings.HasPrefix(t.Text, "<") {
			return
		}
		for _, line := range markdown.Wrap(t.Text, in.MaxColumns) {
			if w := runewidth.StringWidth(line); w > in.MaxColumns {
				issues = append(issues, Issue{
					FilePath: in.Doc.Path,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("line is %d columns wide, limit is %d", w, in.MaxColumns),
					Section:  section,
					Line:     in.LineOf(t.Text),
				})
			}
		}
	})
	return issues
}

// CommonMarkHeadingRule compares the header outline against what a
// CommonMark parser sees, catching headers that other renderers would
// treat differently.
type CommonMarkHeadingRule struct{}

// Name returns the rule identifier.
func (r *CommonMarkHeadingRule) Name() string {
	return "commonmark-heading"
}

type heading struct {
	level int
	text  string
}

func (h heading) String() string {
	return fmt.Sprintf("%s %s", strings.Repeat("#", h.level), h.text)
}

// Check parses the body with goldmark and diffs the two heading lists.
func (r *CommonMarkHeadingRule) Check(in *Input) []Issue {
	ours := dialectHeadings(in.Doc.Forest)
	theirs := commonMarkHeadings([]byte(in.Body))

	var issues []Issue
	report := func(msg string, h heading) {
		issues = append(issues, Issue{
			FilePath: in.Doc.Path,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  msg,
			Line:     in.LineOf(h.String()),
		})
	}

	i, j := 0, 0
	for i < len(ours) && j < len(theirs) {
		if ours[i] == theirs[j] {
			i++
			j++
			continue
		}
		if containsHeading(theirs[j+1:], ours[i]) {
			report(fmt.Sprintf("CommonMark sees an extra heading %q", theirs[j].String()), theirs[j])
			j++
			continue
		}
		report(fmt.Sprintf("heading %q is not a CommonMark heading", ours[i].String()), ours[i])
		i++
	}
	for ; i < len(ours); i++ {
		report(fmt.Sprintf("heading %q is not a CommonMark heading", ours[i].String()), ours[i])
	}
	for ; j < len(theirs); j++ {
		report(fmt.Sprintf("CommonMark sees an extra heading %q", theirs[j].String()), theirs[j])
	}

	return issues
}

func containsHeading(list []heading, h heading) bool {
	for _, x := range list {
		if x == h {
			return true
		}
	}
	return false
}

func dialectHeadings(forest []markdown.Node) []heading {
	var out []heading
	markdown.Walk(forest, func(n markdown.Node, _ int) bool {
		if h, ok := n.(*markdown.Header); ok {
			out = append(out, heading{level: h.Depth, text: h.Text})
		}
		return true
	})
	return out
}

func commonMarkHeadings(body []byte) []heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var out []heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			out = append(out, heading{
				level: h.Level,
				text:  strings.TrimSpace(string(h.Lines().Value(body))),
			})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}
