package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	timeLayoutLong = "15:04:05"
	dateTimeLayout = time.RFC3339
)

// Date is a calendar date without a time zone, the value of date-input widgets.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO 8601 calendar date (2006-01-02).
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall clock time, the value of time-input widgets.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOf returns the wall clock time of t, truncated to the minute.
func TimeOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "15:04" or "15:04:05"; seconds are dropped.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{timeLayout, timeLayoutLong} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return TimeOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("parse time %q: expected HH:MM", raw)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// File describes an uploaded file. The bytes themselves stay with the surface
// that received the upload.
type File struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// Extension returns the lower-cased file extension without the leading dot.
func (f File) Extension() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx < 0 || idx == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[idx+1:])
}

// Metric is the value of a metric widget: a formatted headline and an
// optional delta such as "+12.5%".
type Metric struct {
	Value string `json:"value" yaml:"value"`
	Delta string `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// DeltaDirection returns 1 for a positive delta, -1 for a negative one and 0
// when the delta is empty or unsigned.
func (m Metric) DeltaDirection() int {
	delta := strings.TrimSpace(m.Delta)
	switch {
	case strings.HasPrefix(delta, "+"):
		return 1
	case strings.HasPrefix(delta, "-"):
		return -1
	}
	return 0
}

// Table is the value of a table widget.
type Table struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
	// Static tables render every row without scrolling or sorting.
	Static bool `json:"static,omitempty" yaml:"static,omitempty"`
}

// Head returns a copy of the table limited to the first n rows.
func (t Table) Head(n int) Table {
	out := cloneTable(t)
	if n >= 0 && n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out
}

// ChartType selects the visualisation of a chart widget.
type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
	ChartScatter ChartType = "scatter"
	ChartArea    ChartType = "area"
)

// Chart is the value of a chart widget. Each point holds one value per series;
// scatter charts use two series as the x and y axes.
type Chart struct {
	Type   ChartType   `json:"type" yaml:"type"`
	Series []string    `json:"series" yaml:"series"`
	Points [][]float64 `json:"points" yaml:"points"`
}

// Bounds returns the minimum and maximum value across all points.
func (c Chart) Bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, point := range c.Points {
		for _, v := range point {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// Coerce converts a loosely typed value (decoded JSON/YAML, form posts, prompt
// answers) into the Go type carried by kind. It does not check constraints.
func Coerce(kind WidgetKind, raw any) (any, error) {
	switch kind {
	case KindTextDisplay, KindSingleLineInput, KindMultiLineInput, KindColorInput,
		KindSingleSelect, KindRadio:
		return coerceString(raw)
	case KindNumericInput, KindSlider, KindProgress:
		return coerceNumber(raw)
	case KindMultiSelect:
		return coerceStrings(raw)
	case KindCheckbox, KindToggle, KindButton, KindSubmitButton:
		return coerceBool(raw)
	case KindDateInput:
		return coerceDate(raw)
	case KindTimeInput:
		return coerceTime(raw)
	case KindFileInput:
		return coerceFile(raw)
	case KindMetric:
		return coerceMetric(raw)
	case KindTable:
		var table Table
		if err := decodeStruct(raw, &table); err != nil {
			return nil, err
		}
		return cloneTable(table), nil
	case KindChart:
		var chart Chart
		if err := decodeStruct(raw, &chart); err != nil {
			return nil, err
		}
		return cloneChart(chart), nil
	}
	return nil, fmt.Errorf("unknown widget kind %q", kind)
}

func coerceString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	}
	return nil, fmt.Errorf("expected string, got %T", raw)
}

func coerceNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got %q", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("expected number, got %T", raw)
}

func coerceStrings(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for idx, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string at index %d, got %T", idx, item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}, nil
		}
		return []string{v}, nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", raw)
}

func coerceBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected boolean, got %q", v)
		}
		return b, nil
	}
	return nil, fmt.Errorf("expected boolean, got %T", raw)
}

func coerceDate(raw any) (any, error) {
	switch v := raw.(type) {
	case Date:
		return v, nil
	case *Date:
		if v == nil {
			return nil, errors.New("expected date, got nil")
		}
		return *v, nil
	case time.Time:
		return DateOf(v), nil
	case string:
		if t, err := time.Parse(dateTimeLayout, strings.TrimSpace(v)); err == nil {
			return DateOf(t), nil
		}
		return ParseDate(v)
	}
	return nil, fmt.Errorf("expected date, got %T", raw)
}

func coerceTime(raw any) (any, error) {
	switch v := raw.(type) {
	case TimeOfDay:
		if !v.valid() {
			return nil, fmt.Errorf("time %s out of range", v)
		}
		return v, nil
	case time.Time:
		return TimeOf(v), nil
	case string:
		return ParseTimeOfDay(v)
	}
	return nil, fmt.Errorf("expected time of day, got %T", raw)
}

func coerceFile(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return (*File)(nil), nil
	case *File:
		if v == nil {
			return (*File)(nil), nil
		}
		clone := *v
		return &clone, nil
	case File:
		return &v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return (*File)(nil), nil
		}
		return &File{Name: v}, nil
	}
	var file File
	if err := decodeStruct(raw, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func coerceMetric(raw any) (any, error) {
	switch v := raw.(type) {
	case Metric:
		return v, nil
	case string:
		return Metric{Value: v}, nil
	}
	var metric Metric
	if err := decodeStruct(raw, &metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// decodeStruct copies maps decoded from JSON/YAML (or an already typed value)
// into dest through a JSON round trip.
func decodeStruct(raw any, dest any) error {
	if raw == nil {
		return errors.New("expected object, got nil")
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %T: %w", raw, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode %T: %w", raw, err)
	}
	return nil
}

// Clone deep copies widget values so state snapshots cannot be mutated by
// callers.
func Clone(value any) any {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case *File:
		if v == nil {
			return v
		}
		clone := *v
		return &clone
	case Table:
		return cloneTable(v)
	case Chart:
		return cloneChart(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Clone(item)
		}
		return out
	default:
		return v
	}
}

func cloneTable(t Table) Table {
	out := Table{Static: t.Static}
	if t.Columns != nil {
		out.Columns = append([]string{}, t.Columns...)
	}
	if t.Rows != nil {
		out.Rows = make([][]any, len(t.Rows))
		for idx, row := range t.Rows {
			out.Rows[idx] = append([]any{}, row...)
		}
	}
	return out
}

func cloneChart(c Chart) Chart {
	out := Chart{Type: c.Type}
	if c.Series != nil {
		out.Series = append([]string{}, c.Series...)
	}
	if c.Points != nil {
		out.Points = make([][]float64, len(c.Points))
		for idx, point := range c.Points {
			out.Points[idx] = append([]float64{}, point...)
		}
	}
	return out
}
