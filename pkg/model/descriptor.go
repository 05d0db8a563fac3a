package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// Node is either a *Descriptor or a *Section.
type Node interface {
	NodeID() string
	isNode()
}

// Descriptor describes one widget: its kind, presentation strings, constraints
// and default value. Descriptors are immutable once constructed; accessors
// return copies of mutable data.
type Descriptor struct {
	id          string
	kind        WidgetKind
	label       string
	help        string
	placeholder string
	style       TextStyle
	language    string
	visibleWhen string
	hints       map[string]string
	constraints Constraints
	def         any
}

// DescriptorOption configures a descriptor before validation.
type DescriptorOption func(*descriptorConfig)

type descriptorConfig struct {
	label       string
	help        string
	placeholder string
	style       string
	language    string
	visibleWhen string
	hints       map[string]string
	constraints Constraints
	def         any
	hasDefault  bool
	now         func() time.Time
}

// WithLabel sets the label shown next to the widget. When omitted the label
// is derived from the identifier.
func WithLabel(label string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.label = label
	}
}

// WithHelp sets tooltip/help text.
func WithHelp(help string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.help = help
	}
}

// WithPlaceholder sets placeholder text for input widgets.
func WithPlaceholder(placeholder string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.placeholder = placeholder
	}
}

// WithConstraints sets the kind-specific constraints.
func WithConstraints(c Constraints) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.constraints = c
	}
}

// WithOptions is shorthand for constraints carrying only an option list.
func WithOptions(options ...string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.constraints.Options = append([]string(nil), options...)
	}
}

// WithDefault sets the default value. The value is coerced to the kind's Go
// type and must satisfy the constraints.
func WithDefault(value any) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.def = value
		cfg.hasDefault = true
	}
}

// WithTextStyle sets the presentation of a text-display widget.
func WithTextStyle(style TextStyle) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.style = string(style)
	}
}

// WithLanguage sets the syntax language of code text.
func WithLanguage(language string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.language = strings.TrimSpace(language)
	}
}

// WithVisibleWhen attaches a visibility expression evaluated on every pass.
func WithVisibleWhen(expr string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		cfg.visibleWhen = strings.TrimSpace(expr)
	}
}

// WithHints attaches free-form surface hints (for example "widget" or
// "height"). Later calls merge over earlier ones.
func WithHints(hints map[string]string) DescriptorOption {
	return func(cfg *descriptorConfig) {
		if len(hints) == 0 {
			return
		}
		if cfg.hints == nil {
			cfg.hints = make(map[string]string, len(hints))
		}
		for key, value := range hints {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				cfg.hints[trimmed] = value
			}
		}
	}
}

// WithClock overrides the clock used to derive date-input and time-input
// defaults when no default is given.
func WithClock(now func() time.Time) DescriptorOption {
	return func(cfg *descriptorConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// NewDescriptor validates and constructs a descriptor. Any mismatch between
// the default and the kind or its constraints yields *InvalidDefaultError.
func NewDescriptor(id string, kind WidgetKind, options ...DescriptorOption) (*Descriptor, error) {
	if err := validateIdentifier(id); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("model: widget %q: unknown kind %q", id, kind)
	}

	cfg := descriptorConfig{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	style, err := ParseTextStyle(cfg.style)
	if err != nil {
		return nil, fmt.Errorf("model: widget %q: %w", id, err)
	}

	constraints := cfg.constraints.normalise(kind)
	if err := constraints.check(kind); err != nil {
		return nil, &InvalidDefaultError{ID: id, Kind: kind, Reason: fmt.Errorf("constraints: %w", err)}
	}

	raw := cfg.def
	if !cfg.hasDefault {
		raw = implicitDefault(kind, constraints, cfg.now)
	}
	value, err := Coerce(kind, raw)
	if err != nil {
		return nil, &InvalidDefaultError{ID: id, Kind: kind, Reason: err}
	}
	if err := constraints.Validate(kind, value); err != nil {
		return nil, &InvalidDefaultError{ID: id, Kind: kind, Reason: err}
	}
	if kind.Momentary() && value.(bool) {
		return nil, &InvalidDefaultError{ID: id, Kind: kind, Reason: errors.New("buttons cannot default to pressed")}
	}

	label := cfg.label
	if label == "" && kind != KindTextDisplay {
		label = DefaultLabeler(id)
	}

	return &Descriptor{
		id:          id,
		kind:        kind,
		label:       label,
		help:        cfg.help,
		placeholder: cfg.placeholder,
		style:       style,
		language:    cfg.language,
		visibleWhen: cfg.visibleWhen,
		hints:       cloneHints(cfg.hints),
		constraints: constraints,
		def:         value,
	}, nil
}

// MustDescriptor panics when NewDescriptor fails. Useful for static catalogs.
func MustDescriptor(id string, kind WidgetKind, options ...DescriptorOption) *Descriptor {
	d, err := NewDescriptor(id, kind, options...)
	if err != nil {
		panic(err)
	}
	return d
}

// implicitBelow returns the largest value at or under limit that sits on
// the step grid anchored at zero.
func implicitBelow(limit float64, step *float64) float64 {
	if step == nil || *step <= 0 {
		return limit
	}
	return math.Floor(limit / *step) * *step
}

func implicitDefault(kind WidgetKind, c Constraints, now func() time.Time) any {
	switch kind {
	case KindNumericInput, KindSlider, KindProgress:
		if c.Min != nil {
			return *c.Min
		}
		if c.Max != nil && *c.Max < 0 {
			return implicitBelow(*c.Max, c.Step)
		}
		return 0.0
	case KindSingleSelect, KindRadio:
		if len(c.Options) > 0 {
			return c.Options[0]
		}
		return ""
	case KindDateInput:
		return DateOf(now())
	case KindTimeInput:
		return TimeOf(now())
	case KindColorInput:
		return "#000000"
	case KindMetric:
		return Metric{}
	case KindTable:
		return Table{}
	case KindChart:
		return Chart{Type: ChartLine}
	}
	return nil
}

func validateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("model: identifier is required")
	}
	for _, r := range id {
		if unicode.IsSpace(r) {
			return fmt.Errorf("model: identifier %q must not contain whitespace", id)
		}
	}
	return nil
}

func cloneHints(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func (d *Descriptor) NodeID() string { return d.id }
func (*Descriptor) isNode()          {}

// ID returns the identifier, unique across the catalog.
func (d *Descriptor) ID() string { return d.id }

// Kind returns the widget kind.
func (d *Descriptor) Kind() WidgetKind { return d.kind }

// Label returns the display label.
func (d *Descriptor) Label() string { return d.label }

// Help returns the help text.
func (d *Descriptor) Help() string { return d.help }

// Placeholder returns the placeholder text.
func (d *Descriptor) Placeholder() string { return d.placeholder }

// TextStyle returns the text-display presentation.
func (d *Descriptor) TextStyle() TextStyle { return d.style }

// Language returns the code language for code text.
func (d *Descriptor) Language() string { return d.language }

// VisibleWhen returns the visibility expression, empty when always visible.
func (d *Descriptor) VisibleWhen() string { return d.visibleWhen }

// Hint returns a surface hint.
func (d *Descriptor) Hint(key string) string { return d.hints[key] }

// Hints returns a copy of all surface hints.
func (d *Descriptor) Hints() map[string]string { return cloneHints(d.hints) }

// Constraints returns a copy of the normalised constraints.
func (d *Descriptor) Constraints() Constraints { return d.constraints.clone() }

// Default returns a copy of the default value.
func (d *Descriptor) Default() any { return Clone(d.def) }

// Validate coerces value to the descriptor's kind and checks its constraints,
// returning the coerced value. Failures yield *ConstraintViolationError.
func (d *Descriptor) Validate(value any) (any, error) {
	coerced, err := Coerce(d.kind, value)
	if err != nil {
		return nil, &ConstraintViolationError{ID: d.id, Kind: d.kind, Value: value, Reason: err}
	}
	if err := d.constraints.Validate(d.kind, coerced); err != nil {
		return nil, &ConstraintViolationError{ID: d.id, Kind: d.kind, Value: value, Reason: err}
	}
	return coerced, nil
}
