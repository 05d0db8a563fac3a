package loader

import (
	"fmt"
	"strings"
)

// Format selects the serialisation of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("loader: unknown format %q (want json or yaml)", raw)
}

// Node is the document form of a catalog node. A node whose kind is a
// section kind, that declares a layout, or that has children is a section;
// every other node is a widget.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Section layout. Layout accepts the compact notation ("columns(3)",
	// "bordered-container") and takes precedence over Kind.
	Layout   string `json:"layout,omitempty" yaml:"layout,omitempty"`
	Columns  int    `json:"columns,omitempty" yaml:"columns,omitempty"`
	Expanded bool   `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Border   bool   `json:"border,omitempty" yaml:"border,omitempty"`

	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Style       string            `json:"style,omitempty" yaml:"style,omitempty"`
	Language    string            `json:"language,omitempty" yaml:"language,omitempty"`
	VisibleWhen string            `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Hints       map[string]string `json:"hints,omitempty" yaml:"hints,omitempty"`
	Constraints *Constraints      `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	// Body is the text of a text-display widget; it is shorthand for Default.
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`

	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Constraints mirrors model.Constraints with dates kept as ISO strings.
type Constraints struct {
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step      *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Options   []string `json:"options,omitempty" yaml:"options,omitempty"`
	Accept    []string `json:"accept,omitempty" yaml:"accept,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinDate   string   `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate   string   `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
}

func (c *Constraints) empty() bool {
	return c == nil || (c.Min == nil && c.Max == nil && c.Step == nil && len(c.Options) == 0 &&
		len(c.Accept) == 0 && c.MaxLength == nil && c.MinDate == "" && c.MaxDate == "")
}
