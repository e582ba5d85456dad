package markdown

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure reports text that the grammar cannot place in the tree:
	// content outside any header, a list item without a parent, odd
	// indentation, a malformed header or an unterminated block.
	ErrStructure = errors.New("structural nesting violation")

	ErrMalformedArgument   = errors.New("malformed argument")
	ErrUnresolvedReference = errors.New("unresolved template reference")
	ErrMalformedMacro      = errors.New("malformed template macro")
	ErrDuplicateTemplate   = errors.New("duplicate template")
	ErrTemplateCycle       = errors.New("recursive template reference")
	ErrTemplateTarget      = errors.New("template target cannot hold children")
)

// ParseError locates a structural failure at a logical line.
type ParseError struct {
	Line int // 1-based source line, 0 when unknown
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TemplateError is returned by ExpandTemplates.
type TemplateError struct {
	Ref  string
	Text string // text of the node holding the macro
	Err  error
}

func (e *TemplateError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%v in %q", e.Err, e.Text)
	}
	return fmt.Sprintf("%v %q in %q", e.Err, e.Ref, e.Text)
}

func (e *TemplateError) Unwrap() error { return e.Err }
