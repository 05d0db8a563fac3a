package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// Encode writes catalog as a document in the given format. Every descriptor
// carries its resolved default, so parsing the output rebuilds the same
// catalog regardless of the clock.
func Encode(catalog *model.Catalog, format Format) ([]byte, error) {
	if catalog == nil {
		return nil, fmt.Errorf("loader: catalog is required")
	}
	doc := EncodeNode(catalog.Root())

	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("loader: encode json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("loader: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("loader: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("loader: unknown format %q", format)
}

// EncodeNode converts a catalog node to its document form.
func EncodeNode(node model.Node) Node {
	switch n := node.(type) {
	case *model.Section:
		layout := n.Layout()
		out := Node{
			ID:          n.ID(),
			Title:       n.Title(),
			Kind:        string(layout.Kind),
			Columns:     layout.Columns,
			Expanded:    layout.Expanded,
			Border:      layout.Border,
			VisibleWhen: n.VisibleWhen(),
			Children:    []Node{},
		}
		for _, child := range n.Children() {
			out.Children = append(out.Children, EncodeNode(child))
		}
		return out
	case *model.Descriptor:
		return encodeDescriptor(n)
	}
	return Node{}
}

func encodeDescriptor(d *model.Descriptor) Node {
	out := Node{
		ID:          d.ID(),
		Kind:        string(d.Kind()),
		Label:       d.Label(),
		Help:        d.Help(),
		Placeholder: d.Placeholder(),
		Language:    d.Language(),
		VisibleWhen: d.VisibleWhen(),
		Hints:       d.Hints(),
		Constraints: encodeConstraints(d.Constraints()),
	}
	if d.Kind() == model.KindTextDisplay {
		out.Style = string(d.TextStyle())
		out.Body, _ = d.Default().(string)
		return out
	}
	out.Default = encodeValue(d.Default())
	return out
}

func encodeConstraints(c model.Constraints) *Constraints {
	out := &Constraints{
		Min:       c.Min,
		Max:       c.Max,
		Step:      c.Step,
		Options:   c.Options,
		Accept:    c.Accept,
		MaxLength: c.MaxLength,
	}
	if c.MinDate != nil {
		out.MinDate = c.MinDate.String()
	}
	if c.MaxDate != nil {
		out.MaxDate = c.MaxDate.String()
	}
	if out.empty() {
		return nil
	}
	return out
}

func encodeValue(value any) any {
	switch v := value.(type) {
	case model.Date:
		return v.String()
	case model.TimeOfDay:
		return v.String()
	case *model.File:
		if v == nil {
			return nil
		}
		return *v
	}
	return value
}
