// Package document reads and writes reference documents on disk: optional
// YAML frontmatter followed by a body in the reference dialect.
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/refdoc/markdown"
)

const frontmatterDelimiter = "---"

// Document is a parsed reference document
type Document struct {
	Path string

	// Frontmatter holds the raw frontmatter block including both
	// delimiter lines, or "" when the document has none.
	Frontmatter string
	Meta        map[string]any

	Forest []markdown.Node
}

// Load reads and parses the document at path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(data))
}

// Parse splits frontmatter from content and parses the body. Errors name
// the path and, for parse errors, the line number in the whole file.
func Parse(path, content string) (*Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	doc := &Document{Path: path}

	front, bodyStart, err := splitFrontmatter(lines)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if front != nil {
		doc.Frontmatter = strings.Join(front, "\n") + "\n"
		meta, err := decodeMeta(front[1 : len(front)-1])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		doc.Meta = meta
	}

	body := strings.Join(lines[bodyStart:], "\n")
	forest, err := markdown.Parse(body)
	if err != nil {
		var perr *markdown.ParseError
		if errors.As(err, &perr) {
			perr.Line += bodyStart
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	doc.Forest = forest

	return doc, nil
}

// Render returns the canonical text of the document. Frontmatter is kept
// byte for byte.
func (d *Document) Render(maxColumns int) string {
	body := markdown.NewRenderer(maxColumns).Render(d.Forest)
	if d.Frontmatter == "" {
		return body
	}
	if body == "" {
		return d.Frontmatter
	}
	return d.Frontmatter + "\n" + body
}

// Title returns the frontmatter title, falling back to the first header.
func (d *Document) Title() string {
	if title, ok := d.Meta["title"].(string); ok && title != "" {
		return title
	}
	for _, n := range d.Forest {
		if h, ok := n.(*markdown.Header); ok {
			return h.Text
		}
	}
	return ""
}

// splitFrontmatter returns the frontmatter lines including delimiters and
// the index of the first body line.
func splitFrontmatter(lines []string) ([]string, int, error) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return nil, 0, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			return lines[:i+1], i + 1, nil
		}
	}

	return nil, 0, errors.New("unterminated frontmatter")
}

func decodeMeta(lines []string) (map[string]any, error) {
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &meta); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return meta, nil
}
