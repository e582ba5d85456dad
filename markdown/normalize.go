package markdown

import "strings"

// Normalize folds raw text into logical lines. Soft-wrapped paragraph and
// list item text is joined with single spaces; headers, quotes, tags, fences
// and everything inside fenced code or generator blocks stay one per line.
func Normalize(text string) []Line {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var n normalizer
	for i, line := range raw {
		n.add(i+1, line)
	}
	n.flush()
	return n.out
}

type normalizer struct {
	out    []Line
	tokens []string
	start  int

	inCode      bool
	inGenerator bool
}

func (n *normalizer) add(num int, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case n.inGenerator:
		n.emit(num, line)
		if isGeneratorMarker(trimmed) {
			n.inGenerator = false
		}
		return
	case isFence(trimmed):
		n.inCode = !n.inCode
		n.emit(num, line)
		return
	case n.inCode:
		n.emit(num, line)
		return
	case isGeneratorMarker(trimmed):
		n.inGenerator = true
		n.emit(num, line)
		return
	}

	switch {
	case trimmed == "":
		n.flush()
	case isHeader(line), isQuote(trimmed), isTag(trimmed):
		n.emit(num, trimmed)
	case isHeader(trimmed) && len(n.tokens) == 0:
		// An indented # only continues a paragraph already in progress.
		n.emit(num, trimmed)
	case isListItem(line):
		// Indentation carries the nesting depth, so only the text is trimmed.
		n.flush()
		marker := listRe.FindString(line)
		n.start = num
		n.tokens = append(n.tokens, marker+strings.TrimSpace(line[len(marker):]))
	default:
		if len(n.tokens) == 0 {
			n.start = num
		}
		n.tokens = append(n.tokens, trimmed)
	}
}

// emit flushes the paragraph in progress and appends line on its own.
func (n *normalizer) emit(num int, line string) {
	n.flush()
	n.out = append(n.out, Line{Num: num, Text: line})
}

func (n *normalizer) flush() {
	if len(n.tokens) == 0 {
		return
	}
	n.out = append(n.out, Line{Num: n.start, Text: strings.Join(n.tokens, " ")})
	n.tokens = n.tokens[:0]
}
