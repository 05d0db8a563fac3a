package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Layout carries the presentation hints of a section. Only the Form kind
// changes data semantics.
type Layout struct {
	Kind SectionKind `json:"kind" yaml:"kind"`
	// Columns is the column count of a columns layout.
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`
	// Expanded opens an expander on first draw.
	Expanded bool `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	// Border draws a frame around a container.
	Border bool `json:"border,omitempty" yaml:"border,omitempty"`
}

// Plain is the layout of sections that only group their children.
var Plain = Layout{Kind: SectionPlain}

// Columns returns a columns layout with n columns.
func Columns(n int) Layout { return Layout{Kind: SectionColumns, Columns: n} }

// Form returns the layout of a staged form section.
func Form() Layout { return Layout{Kind: SectionForm} }

// ParseLayout parses layout notations such as "tabs", "columns(3)" or
// "bordered-container".
func ParseLayout(raw string) (Layout, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	name, args, hasArgs := strings.Cut(trimmed, "(")
	if hasArgs {
		if !strings.HasSuffix(args, ")") {
			return Layout{}, fmt.Errorf("model: layout %q: missing closing parenthesis", raw)
		}
		args = strings.TrimSpace(strings.TrimSuffix(args, ")"))
	}

	kind, err := ParseSectionKind(name)
	if err != nil {
		return Layout{}, err
	}
	layout := Layout{Kind: kind, Border: strings.TrimSpace(name) == "bordered-container"}

	switch kind {
	case SectionColumns:
		if !hasArgs {
			return Layout{}, fmt.Errorf("model: layout %q: columns need a count, e.g. columns(2)", raw)
		}
		n, err := strconv.Atoi(args)
		if err != nil {
			return Layout{}, fmt.Errorf("model: layout %q: invalid column count: %w", raw, err)
		}
		layout.Columns = n
	default:
		if hasArgs {
			return Layout{}, fmt.Errorf("model: layout %q: %s takes no arguments", raw, kind)
		}
	}
	if err := layout.validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

func (l Layout) validate() error {
	if _, err := ParseSectionKind(string(l.Kind)); err != nil {
		return err
	}
	if l.Kind == SectionColumns && l.Columns < 1 {
		return fmt.Errorf("model: columns layout needs at least one column, got %d", l.Columns)
	}
	if l.Kind != SectionColumns && l.Columns != 0 {
		return fmt.Errorf("model: %s layout does not take a column count", l.Kind)
	}
	return nil
}

func (l Layout) String() string {
	switch {
	case l.Kind == SectionColumns:
		return fmt.Sprintf("columns(%d)", l.Columns)
	case l.Kind == SectionContainer && l.Border:
		return "bordered-container"
	case l.Kind == "":
		return string(SectionPlain)
	}
	return string(l.Kind)
}

// Section is an immutable node of the catalog tree holding widgets and nested
// sections in document order.
type Section struct {
	id          string
	title       string
	layout      Layout
	visibleWhen string
	children    []Node
}

func (s *Section) NodeID() string { return s.id }
func (*Section) isNode()          {}

func (s *Section) ID() string          { return s.id }
func (s *Section) Title() string       { return s.title }
func (s *Section) Layout() Layout      { return s.layout }
func (s *Section) Kind() SectionKind   { return s.layout.Kind }
func (s *Section) IsForm() bool        { return s.layout.Kind == SectionForm }
func (s *Section) VisibleWhen() string { return s.visibleWhen }
func (s *Section) Len() int            { return len(s.children) }

// Children returns the child nodes in order. The slice is a copy; the nodes
// themselves are immutable.
func (s *Section) Children() []Node {
	return append([]Node(nil), s.children...)
}

// SectionBuilder assembles a section. Construction errors are collected and
// reported by Build so calls can be chained.
type SectionBuilder struct {
	id          string
	title       string
	layout      Layout
	visibleWhen string
	children    []Node
	errs        []error
}

// NewSectionBuilder starts a section with the given identifier, title and
// layout.
func NewSectionBuilder(id, title string, layout Layout) *SectionBuilder {
	b := &SectionBuilder{id: id, title: title, layout: layout}
	if layout.Kind == "" {
		b.layout.Kind = SectionPlain
	}
	if err := validateIdentifier(id); err != nil {
		b.errs = append(b.errs, err)
	}
	if err := b.layout.validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("model: section %q: %w", id, err))
	}
	return b
}

// Widget constructs a descriptor and appends it.
func (b *SectionBuilder) Widget(id string, kind WidgetKind, options ...DescriptorOption) *SectionBuilder {
	d, err := NewDescriptor(id, kind, options...)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.children = append(b.children, d)
	return b
}

// Text appends a text-display widget with the given style and body.
func (b *SectionBuilder) Text(id string, style TextStyle, body string, options ...DescriptorOption) *SectionBuilder {
	opts := append([]DescriptorOption{WithTextStyle(style), WithDefault(body)}, options...)
	return b.Widget(id, KindTextDisplay, opts...)
}

// Section builds child and appends the result.
func (b *SectionBuilder) Section(child *SectionBuilder) *SectionBuilder {
	if child == nil {
		return b
	}
	section, err := child.Build()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.children = append(b.children, section)
	return b
}

// Add appends already constructed nodes.
func (b *SectionBuilder) Add(nodes ...Node) *SectionBuilder {
	for _, node := range nodes {
		if node == nil {
			b.errs = append(b.errs, fmt.Errorf("model: section %q: nil child", b.id))
			continue
		}
		b.children = append(b.children, node)
	}
	return b
}

// VisibleWhen attaches a visibility expression to the section.
func (b *SectionBuilder) VisibleWhen(expr string) *SectionBuilder {
	b.visibleWhen = strings.TrimSpace(expr)
	return b
}

// Build returns the immutable section. Any identifier repeated in the subtree
// yields *DuplicateIdentifierError.
func (b *SectionBuilder) Build() (*Section, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	section := &Section{
		id:          b.id,
		title:       b.title,
		layout:      b.layout,
		visibleWhen: b.visibleWhen,
		children:    append([]Node(nil), b.children...),
	}
	seen := make(map[string]struct{})
	if err := walkNodes(section, nil, func(node Node, _ []*Section) error {
		if _, dup := seen[node.NodeID()]; dup {
			return &DuplicateIdentifierError{ID: node.NodeID()}
		}
		seen[node.NodeID()] = struct{}{}
		return nil
	}); err != nil {
		return nil, err
	}
	return section, nil
}

// MustBuild panics when Build fails.
func (b *SectionBuilder) MustBuild() *Section {
	section, err := b.Build()
	if err != nil {
		panic(err)
	}
	return section
}

// walkNodes visits node and its descendants depth-first in child order. The
// ancestors slice lists enclosing sections, outermost first.
func walkNodes(node Node, ancestors []*Section, fn func(Node, []*Section) error) error {
	if err := fn(node, ancestors); err != nil {
		return err
	}
	section, ok := node.(*Section)
	if !ok {
		return nil
	}
	path := append(append([]*Section(nil), ancestors...), section)
	for _, child := range section.children {
		if err := walkNodes(child, path, fn); err != nil {
			return err
		}
	}
	return nil
}
