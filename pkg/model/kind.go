package model

import (
	"fmt"
	"strings"
)

// WidgetKind tags a descriptor with the widget it describes. The kind decides
// which constraints apply and which Go type its value carries.
type WidgetKind string

const (
	KindTextDisplay     WidgetKind = "text-display"
	KindSingleLineInput WidgetKind = "single-line-input"
	KindMultiLineInput  WidgetKind = "multi-line-input"
	KindNumericInput    WidgetKind = "numeric-input"
	KindSlider          WidgetKind = "slider"
	KindSingleSelect    WidgetKind = "single-select"
	KindMultiSelect     WidgetKind = "multi-select"
	KindRadio           WidgetKind = "radio"
	KindCheckbox        WidgetKind = "checkbox"
	KindToggle          WidgetKind = "toggle"
	KindDateInput       WidgetKind = "date-input"
	KindTimeInput       WidgetKind = "time-input"
	KindColorInput      WidgetKind = "color-input"
	KindButton          WidgetKind = "button"
	KindSubmitButton    WidgetKind = "submit-button"
	KindFileInput       WidgetKind = "file-input"
	KindMetric          WidgetKind = "metric"
	KindProgress        WidgetKind = "progress"
	KindTable           WidgetKind = "table"
	KindChart           WidgetKind = "chart"
)

var widgetKinds = []WidgetKind{
	KindTextDisplay, KindSingleLineInput, KindMultiLineInput, KindNumericInput,
	KindSlider, KindSingleSelect, KindMultiSelect, KindRadio, KindCheckbox,
	KindToggle, KindDateInput, KindTimeInput, KindColorInput, KindButton,
	KindSubmitButton, KindFileInput, KindMetric, KindProgress, KindTable,
	KindChart,
}

// WidgetKinds lists every supported widget kind in declaration order.
func WidgetKinds() []WidgetKind {
	return append([]WidgetKind(nil), widgetKinds...)
}

// ParseWidgetKind resolves a canonical kind name.
func ParseWidgetKind(raw string) (WidgetKind, error) {
	candidate := WidgetKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, kind := range widgetKinds {
		if kind == candidate {
			return kind, nil
		}
	}
	return "", fmt.Errorf("model: unknown widget kind %q", raw)
}

// Valid reports whether k is one of the supported kinds.
func (k WidgetKind) Valid() bool {
	_, err := ParseWidgetKind(string(k))
	return err == nil
}

// Interactive reports whether users can produce events for widgets of this
// kind. Display kinds (text, metric, progress, table, chart) are only updated
// by host code.
func (k WidgetKind) Interactive() bool {
	switch k {
	case KindTextDisplay, KindMetric, KindProgress, KindTable, KindChart:
		return false
	default:
		return k.Valid()
	}
}

// Momentary reports whether the kind models a button whose value is only true
// for the pass following its activation.
func (k WidgetKind) Momentary() bool {
	return k == KindButton || k == KindSubmitButton
}

// TextStyle selects how a text-display widget is presented.
type TextStyle string

const (
	TextPlain     TextStyle = "text"
	TextTitle     TextStyle = "title"
	TextHeader    TextStyle = "header"
	TextSubheader TextStyle = "subheader"
	TextCaption   TextStyle = "caption"
	TextCode      TextStyle = "code"
	TextMarkdown  TextStyle = "markdown"
	TextDivider   TextStyle = "divider"
	TextSuccess   TextStyle = "success"
	TextInfo      TextStyle = "info"
	TextWarning   TextStyle = "warning"
	TextError     TextStyle = "error"
)

// ParseTextStyle resolves a text style name; empty input maps to TextPlain.
func ParseTextStyle(raw string) (TextStyle, error) {
	style := TextStyle(strings.ToLower(strings.TrimSpace(raw)))
	switch style {
	case "":
		return TextPlain, nil
	case TextPlain, TextTitle, TextHeader, TextSubheader, TextCaption, TextCode,
		TextMarkdown, TextDivider, TextSuccess, TextInfo, TextWarning, TextError:
		return style, nil
	}
	return "", fmt.Errorf("model: unknown text style %q", raw)
}

// Alert reports whether the style renders as a status message box.
func (s TextStyle) Alert() bool {
	switch s {
	case TextSuccess, TextInfo, TextWarning, TextError:
		return true
	}
	return false
}

// SectionKind is the layout tag of a section. It is a hint for surfaces and
// never changes data semantics, except for forms which stage their edits.
type SectionKind string

const (
	SectionPlain     SectionKind = "plain"
	SectionColumns   SectionKind = "columns"
	SectionTabs      SectionKind = "tabs"
	SectionSidebar   SectionKind = "sidebar"
	SectionExpander  SectionKind = "expander"
	SectionContainer SectionKind = "container"
	SectionForm      SectionKind = "form"
)

// ParseSectionKind resolves a section kind; empty input maps to SectionPlain.
func ParseSectionKind(raw string) (SectionKind, error) {
	kind := SectionKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case "":
		return SectionPlain, nil
	case SectionPlain, SectionColumns, SectionTabs, SectionSidebar,
		SectionExpander, SectionContainer, SectionForm:
		return kind, nil
	case "bordered-container":
		return SectionContainer, nil
	}
	return "", fmt.Errorf("model: unknown section kind %q", raw)
}
