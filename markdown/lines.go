package markdown

import (
	"regexp"
	"strings"
)

const (
	fenceMarker     = "```"
	generatorMarker = "<!-- GEN"
	quoteMarker     = ">"
	tagMarker       = "<"
	headerMarker    = "#"
)

var (
	listRe   = regexp.MustCompile(`^(\s*)(-|1.|\*) `)
	headerRe = regexp.MustCompile(`^(#{1,6})(?: (.*))?$`)
)

// Line is a logical line: one structural line or a folded paragraph.
type Line struct {
	Num  int // 1-based line in the source where the logical line starts
	Text string
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), fenceMarker)
}

func isGeneratorMarker(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), generatorMarker)
}

func isQuote(line string) bool { return strings.HasPrefix(line, quoteMarker) }

func isTag(line string) bool { return strings.HasPrefix(line, tagMarker) }

func isHeader(line string) bool { return strings.HasPrefix(line, headerMarker) }

func isListItem(line string) bool { return listRe.MatchString(line) }

// startsStructure reports whether a line with this content would be read as
// something other than paragraph text.
func startsStructure(s string) bool {
	t := strings.TrimLeft(s, " \t")
	return isHeader(t) || isQuote(t) || isTag(t) || isFence(t) || isListItem(s)
}
