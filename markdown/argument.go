package markdown

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Argument is a parsed argument signature:
//
//	`name` <type> description
//	returns: <type> description
//	type: <type> description
type Argument struct {
	Name        string
	Type        string
	Description string
}

var argumentRes = []*regexp.Regexp{
	regexp.MustCompile("^`([^`]+)` (.*)$"),
	regexp.MustCompile(`^(returns): (.*)$`),
	regexp.MustCompile(`^(type): (.*)$`),
}

// ParseArgument parses one argument signature. The type is delimited by the
// outermost pair of angle brackets and may contain nested generics.
func ParseArgument(line string) (Argument, error) {
	var m []string
	for _, re := range argumentRes {
		if m = re.FindStringSubmatch(line); m != nil {
			break
		}
	}
	if m == nil {
		return Argument{}, fmt.Errorf("%w: %q has no `name`, returns: or type: prefix", ErrMalformedArgument, line)
	}

	name, rest := m[1], m[2]
	if len(rest) == 0 || rest[0] != '<' {
		return Argument{}, fmt.Errorf("%w: type of %q must start with '<'", ErrMalformedArgument, name)
	}

	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			depth++
		case '>':
			depth--
		}
		if depth != 0 {
			continue
		}
		desc := rest[i+1:]
		if desc != "" {
			_, size := utf8.DecodeRuneInString(desc)
			desc = desc[size:]
		}
		return Argument{Name: name, Type: rest[1:i], Description: desc}, nil
	}
	return Argument{}, fmt.Errorf("%w: unbalanced angle brackets in type of %q", ErrMalformedArgument, name)
}
