package markdown

import (
	"fmt"
	"slices"
	"strings"
)

const (
	fanOutToken     = "-inline- = %%"
	substituteToken = " = %%"
	refPrefix       = "%%-"
	refSuffix       = "-%%"
)

// instruction is a macro parsed from node text.
type instruction interface{ macro() }

// substitute rewrites "name = %%-ref-%%" to "name" and appends the
// template's children.
type substitute struct {
	name string
	ref  string
}

// fanOut replaces "prefix-inline- = %%-ref-%%" with one sibling per entry of
// the list template ref.
type fanOut struct {
	prefix string
	ref    string
}

func (substitute) macro() {}
func (fanOut) macro()     {}

// parseInstruction returns nil when text holds no macro.
func parseInstruction(text string) (instruction, error) {
	if i := strings.Index(text, fanOutToken); i >= 0 {
		ref, ok := parseRef(text[i+len(fanOutToken)-2:])
		if !ok {
			return nil, ErrMalformedMacro
		}
		return fanOut{prefix: text[:i], ref: ref}, nil
	}
	if i := strings.Index(text, substituteToken); i >= 0 {
		ref, ok := parseRef(text[i+len(substituteToken)-2:])
		if !ok {
			return nil, ErrMalformedMacro
		}
		return substitute{name: text[:i], ref: ref}, nil
	}
	return nil, nil
}

// parseRef unwraps "%%-name-%%".
func parseRef(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if len(key) <= len(refPrefix)+len(refSuffix) || !strings.HasPrefix(key, refPrefix) || !strings.HasSuffix(key, refSuffix) {
		return "", false
	}
	return key[len(refPrefix) : len(key)-len(refSuffix)], true
}

// refName accepts both "%%-name-%%" and a bare "name".
func refName(text string) string {
	if ref, ok := parseRef(text); ok {
		return ref
	}
	return strings.TrimSpace(text)
}

// ExpandTemplates resolves template macros in forest against params and
// returns the expanded forest. params are *ListItem or *Header nodes whose
// text names the template and whose children are its payload.
//
// The forest is mutated in place; the returned slice must replace it since
// top-level fan-out may grow it. Any unresolved reference aborts the whole
// expansion.
func ExpandTemplates(forest []Node, params []Node) ([]Node, error) {
	templates := make(map[string]Node, len(params))
	for _, p := range params {
		switch p.(type) {
		case *ListItem, *Header:
		default:
			return nil, &TemplateError{Text: TextOf(p), Err: fmt.Errorf("%w: %s parameter", ErrTemplateTarget, p.Kind())}
		}
		name := refName(TextOf(p))
		if _, dup := templates[name]; dup {
			return nil, &TemplateError{Ref: name, Text: TextOf(p), Err: ErrDuplicateTemplate}
		}
		templates[name] = p
	}

	e := &expander{
		templates: templates,
		origin:    make(map[Node][]string),
		triggers:  make(map[Node]bool),
	}
	root := &Header{Children: forest}
	if err := e.visitChildren(root, nil); err != nil {
		return nil, err
	}
	return root.Children, nil
}

type expander struct {
	templates map[string]Node
	// origin holds the chain of references that produced an expanded node.
	origin map[Node][]string
	// triggers are fan-out nodes, removed once their siblings exist.
	triggers map[Node]bool
}

func (e *expander) visit(n, parent Node, chain []string) error {
	text := TextOf(n)
	ins, err := parseInstruction(text)
	if err != nil {
		return &TemplateError{Text: text, Err: err}
	}

	switch ins := ins.(type) {
	case fanOut:
		if err := e.fanOut(n, parent, ins, chain); err != nil {
			return err
		}
		e.triggers[n] = true
		return nil
	case substitute:
		if err := e.substitute(n, ins, chain); err != nil {
			return err
		}
	}
	return e.visitChildren(n, chain)
}

// visitChildren re-reads the child list on every step so siblings appended
// by fan-out are expanded too.
func (e *expander) visitChildren(n Node, chain []string) error {
	for i := 0; i < len(ChildrenOf(n)); i++ {
		child := ChildrenOf(n)[i]
		childChain := chain
		if o, ok := e.origin[child]; ok {
			childChain = o
		}
		if err := e.visit(child, n, childChain); err != nil {
			return err
		}
	}
	e.dropTriggers(n)
	return nil
}

func (e *expander) substitute(n Node, ins substitute, chain []string) error {
	tmpl, err := e.resolve(ins.ref, TextOf(n), chain)
	if err != nil {
		return err
	}
	clones := CloneAll(ChildrenOf(tmpl))
	switch n := n.(type) {
	case *Header:
		n.Text = ins.name
		n.Children = append(n.Children, clones...)
	case *ListItem:
		n.Text = ins.name
		n.Children = append(n.Children, clones...)
	default:
		return &TemplateError{Ref: ins.ref, Text: TextOf(n), Err: ErrTemplateTarget}
	}
	next := extend(chain, ins.ref)
	for _, c := range clones {
		e.origin[c] = next
	}
	return nil
}

func (e *expander) fanOut(trigger, parent Node, ins fanOut, chain []string) error {
	text := TextOf(trigger)
	if trigger.Kind() == KindText {
		return &TemplateError{Ref: ins.ref, Text: text, Err: ErrTemplateTarget}
	}
	list, err := e.resolve(ins.ref, text, chain)
	if err != nil {
		return err
	}
	next := extend(chain, ins.ref)

	for _, entry := range ChildrenOf(list) {
		ref := refName(TextOf(entry))
		tmpl, err := e.resolve(ref, text, next)
		if err != nil {
			return err
		}
		payload := ChildrenOf(tmpl)
		if len(payload) == 0 {
			return &TemplateError{Ref: ref, Text: text, Err: fmt.Errorf("%w: template has no argument line", ErrMalformedArgument)}
		}
		arg, err := ParseArgument(TextOf(payload[0]))
		if err != nil {
			return &TemplateError{Ref: ref, Text: text, Err: err}
		}

		var sibling Node
		switch t := trigger.(type) {
		case *ListItem:
			sibling = &ListItem{Type: t.Type, Text: ins.prefix + arg.Name, Children: CloneAll(payload)}
		case *Header:
			sibling = &Header{Depth: t.Depth, Text: ins.prefix + arg.Name, Children: CloneAll(payload)}
		}
		attach(parent, sibling)
		e.origin[sibling] = extend(next, ref)
	}
	return nil
}

func (e *expander) resolve(ref, text string, chain []string) (Node, error) {
	if slices.Contains(chain, ref) {
		return nil, &TemplateError{Ref: ref, Text: text, Err: ErrTemplateCycle}
	}
	tmpl, ok := e.templates[ref]
	if !ok {
		return nil, &TemplateError{Ref: ref, Text: text, Err: ErrUnresolvedReference}
	}
	return tmpl, nil
}

func (e *expander) dropTriggers(n Node) {
	keep := func(children []Node) []Node {
		return slices.DeleteFunc(children, func(c Node) bool { return e.triggers[c] })
	}
	switch n := n.(type) {
	case *Header:
		n.Children = keep(n.Children)
	case *ListItem:
		n.Children = keep(n.Children)
	}
}

func extend(chain []string, ref string) []string {
	out := make([]string, len(chain), len(chain)+1)
	copy(out, chain)
	return append(out, ref)
}
