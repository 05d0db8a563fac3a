package model

import "fmt"

// ReservedIdentifiers name the helpers visibility rules and text bodies see
// next to widget values. No node may use them.
var ReservedIdentifiers = []string{"values", "submitted", "pressed", "extras"}

func isReserved(id string) bool {
	for _, name := range ReservedIdentifiers {
		if id == name {
			return true
		}
	}
	return false
}

// Catalog is an indexed, validated section tree. It is safe for concurrent
// reads.
type Catalog struct {
	root        *Section
	nodes       map[string]Node
	order       []string
	formOf      map[string]string
	forms       []string
	descriptors []*Descriptor
}

// NewCatalog indexes root and enforces the tree wide rules: unique
// identifiers, no reserved identifiers, no nested forms, submit buttons only inside forms and every
// form owning at least one submit button.
func NewCatalog(root *Section) (*Catalog, error) {
	if root == nil {
		return nil, fmt.Errorf("model: catalog root section is required")
	}
	c := &Catalog{
		root:   root,
		nodes:  make(map[string]Node),
		formOf: make(map[string]string),
	}
	submits := make(map[string]int)

	err := walkNodes(root, nil, func(node Node, ancestors []*Section) error {
		id := node.NodeID()
		if isReserved(id) {
			return fmt.Errorf("%w: %q", ErrReservedIdentifier, id)
		}
		if _, dup := c.nodes[id]; dup {
			return &DuplicateIdentifierError{ID: id}
		}
		c.nodes[id] = node
		c.order = append(c.order, id)

		form := enclosingForm(ancestors)
		switch n := node.(type) {
		case *Section:
			if n.IsForm() {
				if form != "" {
					return fmt.Errorf("%w: %q inside %q", ErrNestedForm, id, form)
				}
				c.forms = append(c.forms, id)
				submits[id] = 0
			}
		case *Descriptor:
			c.descriptors = append(c.descriptors, n)
			if form != "" {
				c.formOf[id] = form
			}
			if n.Kind() == KindSubmitButton {
				if form == "" {
					return fmt.Errorf("%w: %q", ErrSubmitOutsideForm, id)
				}
				submits[form]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, form := range c.forms {
		if submits[form] == 0 {
			return nil, fmt.Errorf("%w: %q", ErrFormWithoutSubmit, form)
		}
	}
	return c, nil
}

func enclosingForm(ancestors []*Section) string {
	for idx := len(ancestors) - 1; idx >= 0; idx-- {
		if ancestors[idx].IsForm() {
			return ancestors[idx].ID()
		}
	}
	return ""
}

// Root returns the root section.
func (c *Catalog) Root() *Section { return c.root }

// Len returns the number of nodes, sections included.
func (c *Catalog) Len() int { return len(c.order) }

// Node returns the node with the given identifier.
func (c *Catalog) Node(id string) (Node, error) {
	node, ok := c.nodes[id]
	if !ok {
		return nil, &UnknownIdentifierError{ID: id}
	}
	return node, nil
}

// Descriptor returns the widget descriptor with the given identifier.
func (c *Catalog) Descriptor(id string) (*Descriptor, error) {
	node, err := c.Node(id)
	if err != nil {
		return nil, err
	}
	d, ok := node.(*Descriptor)
	if !ok {
		return nil, &UnknownIdentifierError{ID: id, Expect: "widget"}
	}
	return d, nil
}

// Section returns the section with the given identifier.
func (c *Catalog) Section(id string) (*Section, error) {
	node, err := c.Node(id)
	if err != nil {
		return nil, err
	}
	s, ok := node.(*Section)
	if !ok {
		return nil, &UnknownIdentifierError{ID: id, Expect: "section"}
	}
	return s, nil
}

// Form returns the form section with the given identifier.
func (c *Catalog) Form(id string) (*Section, error) {
	s, err := c.Section(id)
	if err != nil {
		return nil, err
	}
	if !s.IsForm() {
		return nil, &UnknownIdentifierError{ID: id, Expect: "form"}
	}
	return s, nil
}

// FormOf reports the form enclosing the widget id, if any.
func (c *Catalog) FormOf(id string) (string, bool) {
	form, ok := c.formOf[id]
	return form, ok
}

// Forms lists form identifiers in document order.
func (c *Catalog) Forms() []string {
	return append([]string(nil), c.forms...)
}

// FormMembers lists the widget identifiers inside form in document order.
func (c *Catalog) FormMembers(form string) []string {
	var out []string
	for _, d := range c.descriptors {
		if c.formOf[d.ID()] == form {
			out = append(out, d.ID())
		}
	}
	return out
}

// Descriptors lists every widget descriptor in document order.
func (c *Catalog) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), c.descriptors...)
}

// WalkFunc is called for every node. depth is 0 for the root.
type WalkFunc func(node Node, depth int) error

// Walk visits every node depth-first in child order, stopping at the first
// error.
func (c *Catalog) Walk(fn WalkFunc) error {
	return walkNodes(c.root, nil, func(node Node, ancestors []*Section) error {
		return fn(node, len(ancestors))
	})
}
