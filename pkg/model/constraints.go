package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	sliderDefaultMax = 100
	progressMax      = 100
	stepTolerance    = 1e-9
)

// Constraints holds the kind-specific limits of a descriptor. Only the fields
// relevant to the descriptor's kind are consulted.
type Constraints struct {
	// Min, Max and Step bound numeric-input, slider and progress values.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	// Options lists the choices of single-select, radio and multi-select.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	// Accept lists file extensions (without dot) accepted by file-input.
	Accept []string `json:"accept,omitempty" yaml:"accept,omitempty"`
	// MaxLength caps the rune count of text inputs.
	MaxLength *int `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	// MinDate and MaxDate bound date-input values.
	MinDate *Date `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate *Date `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
}

// Float returns a pointer to v, convenient for literal constraints.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func (c Constraints) clone() Constraints {
	out := c
	if c.Min != nil {
		out.Min = Float(*c.Min)
	}
	if c.Max != nil {
		out.Max = Float(*c.Max)
	}
	if c.Step != nil {
		out.Step = Float(*c.Step)
	}
	if c.MaxLength != nil {
		out.MaxLength = Int(*c.MaxLength)
	}
	if c.MinDate != nil {
		d := *c.MinDate
		out.MinDate = &d
	}
	if c.MaxDate != nil {
		d := *c.MaxDate
		out.MaxDate = &d
	}
	if c.Options != nil {
		out.Options = append([]string{}, c.Options...)
	}
	if c.Accept != nil {
		out.Accept = make([]string, len(c.Accept))
		for idx, ext := range c.Accept {
			out.Accept[idx] = normaliseExtension(ext)
		}
	}
	return out
}

// normalise fills kind-specific implicit limits.
func (c Constraints) normalise(kind WidgetKind) Constraints {
	out := c.clone()
	switch kind {
	case KindSlider:
		if out.Min == nil {
			out.Min = Float(0)
		}
		if out.Max == nil {
			out.Max = Float(sliderDefaultMax)
		}
	case KindProgress:
		if out.Min == nil {
			out.Min = Float(0)
		}
		if out.Max == nil {
			out.Max = Float(progressMax)
		}
	}
	return out
}

// check verifies that the constraint set itself is coherent for kind.
func (c Constraints) check(kind WidgetKind) error {
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("min %v is greater than max %v", *c.Min, *c.Max)
	}
	if c.Step != nil && *c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", *c.Step)
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return fmt.Errorf("maxLength must not be negative, got %d", *c.MaxLength)
	}
	if c.MinDate != nil && c.MaxDate != nil && c.MaxDate.Before(*c.MinDate) {
		return fmt.Errorf("minDate %s is after maxDate %s", c.MinDate, c.MaxDate)
	}
	switch kind {
	case KindSingleSelect, KindRadio, KindMultiSelect:
		if len(c.Options) == 0 && kind != KindMultiSelect {
			return errors.New("options are required")
		}
		seen := make(map[string]struct{}, len(c.Options))
		for _, option := range c.Options {
			if _, dup := seen[option]; dup {
				return fmt.Errorf("option %q is listed twice", option)
			}
			seen[option] = struct{}{}
		}
	case KindProgress:
		if *c.Min < 0 || *c.Max > progressMax {
			return fmt.Errorf("progress bounds must stay within [0, %d]", progressMax)
		}
	}
	return nil
}

// Validate checks a value already coerced to kind's Go type against c.
func (c Constraints) Validate(kind WidgetKind, value any) error {
	switch kind {
	case KindTextDisplay:
		_, err := as[string](value)
		return err
	case KindSingleLineInput, KindMultiLineInput:
		s, err := as[string](value)
		if err != nil {
			return err
		}
		if c.MaxLength != nil && utf8.RuneCountInString(s) > *c.MaxLength {
			return fmt.Errorf("length %d exceeds maxLength %d", utf8.RuneCountInString(s), *c.MaxLength)
		}
		return nil
	case KindNumericInput, KindSlider, KindProgress:
		f, err := as[float64](value)
		if err != nil {
			return err
		}
		return c.validateNumber(f)
	case KindSingleSelect, KindRadio:
		s, err := as[string](value)
		if err != nil {
			return err
		}
		if !contains(c.Options, s) {
			return fmt.Errorf("%q is not one of %s", s, quoteList(c.Options))
		}
		return nil
	case KindMultiSelect:
		list, err := as[[]string](value)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(list))
		for _, s := range list {
			if !contains(c.Options, s) {
				return fmt.Errorf("%q is not one of %s", s, quoteList(c.Options))
			}
			if _, dup := seen[s]; dup {
				return fmt.Errorf("%q is selected twice", s)
			}
			seen[s] = struct{}{}
		}
		return nil
	case KindCheckbox, KindToggle, KindButton, KindSubmitButton:
		_, err := as[bool](value)
		return err
	case KindDateInput:
		d, err := as[Date](value)
		if err != nil {
			return err
		}
		if c.MinDate != nil && d.Before(*c.MinDate) {
			return fmt.Errorf("date %s is before minDate %s", d, c.MinDate)
		}
		if c.MaxDate != nil && c.MaxDate.Before(d) {
			return fmt.Errorf("date %s is after maxDate %s", d, c.MaxDate)
		}
		return nil
	case KindTimeInput:
		t, err := as[TimeOfDay](value)
		if err != nil {
			return err
		}
		if !t.valid() {
			return fmt.Errorf("time %s out of range", t)
		}
		return nil
	case KindColorInput:
		s, err := as[string](value)
		if err != nil {
			return err
		}
		if _, err := colorful.Hex(normaliseHex(s)); err != nil {
			return fmt.Errorf("%q is not a hex colour", s)
		}
		return nil
	case KindFileInput:
		file, err := as[*File](value)
		if err != nil {
			return err
		}
		if file == nil || len(c.Accept) == 0 {
			return nil
		}
		if !contains(c.Accept, file.Extension()) {
			return fmt.Errorf("file %q does not match accepted types %s", file.Name, quoteList(c.Accept))
		}
		return nil
	case KindMetric:
		_, err := as[Metric](value)
		return err
	case KindTable:
		table, err := as[Table](value)
		if err != nil {
			return err
		}
		for idx, row := range table.Rows {
			if len(row) != len(table.Columns) {
				return fmt.Errorf("row %d has %d cells, want %d", idx, len(row), len(table.Columns))
			}
		}
		return nil
	case KindChart:
		chart, err := as[Chart](value)
		if err != nil {
			return err
		}
		switch chart.Type {
		case ChartLine, ChartBar, ChartScatter, ChartArea:
		default:
			return fmt.Errorf("unknown chart type %q", chart.Type)
		}
		if chart.Type == ChartScatter && len(chart.Series) != 2 {
			return fmt.Errorf("scatter charts need exactly 2 series, got %d", len(chart.Series))
		}
		for idx, point := range chart.Points {
			if len(point) != len(chart.Series) {
				return fmt.Errorf("point %d has %d values, want %d", idx, len(point), len(chart.Series))
			}
		}
		return nil
	}
	return fmt.Errorf("unknown widget kind %q", kind)
}

func (c Constraints) validateNumber(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%v is not a finite number", v)
	}
	if c.Min != nil && v < *c.Min {
		return fmt.Errorf("%v is below min %v", v, *c.Min)
	}
	if c.Max != nil && v > *c.Max {
		return fmt.Errorf("%v is above max %v", v, *c.Max)
	}
	if c.Step != nil {
		base := 0.0
		if c.Min != nil {
			base = *c.Min
		}
		steps := (v - base) / *c.Step
		if math.Abs(steps-math.Round(steps)) > stepTolerance {
			return fmt.Errorf("%v is not aligned to step %v", v, *c.Step)
		}
	}
	return nil
}

func as[T any](value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("expected %T, got %T", zero, value)
	}
	return typed, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for idx, item := range list {
		quoted[idx] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func normaliseExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// normaliseHex expands the short #rgb form accepted by colour pickers.
func normaliseHex(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) == 4 && strings.HasPrefix(s, "#") {
		return "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	return s
}
