package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/visibility/expr"
)

// Option configures parsing.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for implicit date/time defaults and for the
// "today" and "now" default keywords.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string, opts ...Option) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// LoadFS reads and parses a catalog document from fsys.
func LoadFS(fsys fs.FS, path string, opts ...Option) (*model.Catalog, error) {
	if fsys == nil {
		return nil, errors.New("loader: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// Parse decodes a JSON or YAML document and builds the catalog it describes.
// source names the document in error messages; a .json/.yaml/.yml extension
// fixes the format, otherwise it is sniffed from the content.
func Parse(data []byte, source string, opts ...Option) (*model.Catalog, error) {
	cfg := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	root, err := Decode(data, source)
	if err != nil {
		return nil, err
	}
	if !root.isSection() {
		return nil, fmt.Errorf("loader: %s: root node %q must be a section", source, root.ID)
	}

	b := &builder{opts: cfg}
	section, err := b.section(root)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", source, err)
	}
	catalog, err := model.NewCatalog(section)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", source, err)
	}
	return catalog, nil
}

// Decode parses the document into its node tree without building a catalog.
func Decode(data []byte, source string) (Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Node{}, fmt.Errorf("loader: file %s is empty", source)
	}

	var root Node
	if detectFormat(source, trimmed) == FormatJSON {
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return Node{}, fmt.Errorf("loader: parse %s as JSON: %w", source, err)
		}
		return root, nil
	}
	if err := yaml.Unmarshal(trimmed, &root); err != nil {
		return Node{}, fmt.Errorf("loader: parse %s as YAML: %w", source, err)
	}
	return root, nil
}

func detectFormat(source string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	if data[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

func (n Node) isSection() bool {
	if n.Children != nil || strings.TrimSpace(n.Layout) != "" {
		return true
	}
	if strings.TrimSpace(n.Kind) == "" {
		return false
	}
	_, err := model.ParseSectionKind(n.Kind)
	return err == nil
}

type builder struct {
	opts options
}

func (b *builder) section(n Node) (*model.Section, error) {
	layout, err := sectionLayout(n)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", n.ID, err)
	}
	if err := checkRule(n.ID, n.VisibleWhen); err != nil {
		return nil, err
	}

	sb := model.NewSectionBuilder(n.ID, n.Title, layout).VisibleWhen(n.VisibleWhen)
	var errs []error
	for _, child := range n.Children {
		node, err := b.node(child)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sb.Add(node)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sb.Build()
}

func (b *builder) node(n Node) (model.Node, error) {
	if n.isSection() {
		return b.section(n)
	}
	return b.widget(n)
}

func (b *builder) widget(n Node) (*model.Descriptor, error) {
	if strings.TrimSpace(n.Kind) == "" {
		return nil, fmt.Errorf("widget %q: kind is required", n.ID)
	}
	kind, err := model.ParseWidgetKind(n.Kind)
	if err != nil {
		return nil, fmt.Errorf("widget %q: %w", n.ID, err)
	}
	if err := checkRule(n.ID, n.VisibleWhen); err != nil {
		return nil, err
	}
	constraints, err := n.Constraints.model()
	if err != nil {
		return nil, fmt.Errorf("widget %q: %w", n.ID, err)
	}

	opts := []model.DescriptorOption{
		model.WithLabel(n.Label),
		model.WithHelp(n.Help),
		model.WithPlaceholder(n.Placeholder),
		model.WithTextStyle(model.TextStyle(n.Style)),
		model.WithLanguage(n.Language),
		model.WithVisibleWhen(n.VisibleWhen),
		model.WithHints(n.Hints),
		model.WithConstraints(constraints),
		model.WithClock(b.opts.now),
	}
	switch {
	case n.Default != nil:
		opts = append(opts, model.WithDefault(b.keyword(kind, n.Default)))
	case n.Body != "":
		opts = append(opts, model.WithDefault(n.Body))
	}
	return model.NewDescriptor(n.ID, kind, opts...)
}

// keyword resolves "today" and "now" against the configured clock.
func (b *builder) keyword(kind model.WidgetKind, value any) any {
	word, ok := value.(string)
	if !ok {
		return value
	}
	switch {
	case kind == model.KindDateInput && strings.EqualFold(word, "today"):
		return model.DateOf(b.opts.now())
	case kind == model.KindTimeInput && strings.EqualFold(word, "now"):
		return model.TimeOf(b.opts.now())
	}
	return value
}

func sectionLayout(n Node) (model.Layout, error) {
	if raw := strings.TrimSpace(n.Layout); raw != "" {
		layout, err := model.ParseLayout(raw)
		if err != nil {
			return model.Layout{}, err
		}
		layout.Expanded = layout.Expanded || n.Expanded
		layout.Border = layout.Border || n.Border
		return layout, nil
	}
	kind, err := model.ParseSectionKind(n.Kind)
	if err != nil {
		return model.Layout{}, err
	}
	return model.Layout{
		Kind:     kind,
		Columns:  n.Columns,
		Expanded: n.Expanded,
		Border:   n.Border || strings.EqualFold(strings.TrimSpace(n.Kind), "bordered-container"),
	}, nil
}

func checkRule(id, rule string) error {
	if strings.TrimSpace(rule) == "" {
		return nil
	}
	if _, err := expr.Compile(rule); err != nil {
		return fmt.Errorf("node %q: visibleWhen: %w", id, err)
	}
	return nil
}

func (c *Constraints) model() (model.Constraints, error) {
	if c == nil {
		return model.Constraints{}, nil
	}
	out := model.Constraints{
		Min:       c.Min,
		Max:       c.Max,
		Step:      c.Step,
		Options:   append([]string(nil), c.Options...),
		Accept:    append([]string(nil), c.Accept...),
		MaxLength: c.MaxLength,
	}
	if c.MinDate != "" {
		d, err := model.ParseDate(c.MinDate)
		if err != nil {
			return model.Constraints{}, fmt.Errorf("minDate: %w", err)
		}
		out.MinDate = &d
	}
	if c.MaxDate != "" {
		d, err := model.ParseDate(c.MaxDate)
		if err != nil {
			return model.Constraints{}, fmt.Errorf("maxDate: %w", err)
		}
		out.MaxDate = &d
	}
	return out, nil
}
