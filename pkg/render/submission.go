package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Hidden field names used by surfaces that post a whole page back, so the
// host can tell which form was submitted and which pass the page showed.
const (
	FieldForm = "_form"
	FieldPass = "_pass"
)

// HiddenField is a hidden input emitted next to the visible widgets.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// FormField names the form a posted page belongs to.
func FormField(form string) HiddenField {
	return Hidden(FieldForm, form)
}

// PassField records the pass a page was drawn in.
func PassField(pass uint64) HiddenField {
	return Hidden(FieldPass, strconv.FormatUint(pass, 10))
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns fields sorted by name for deterministic output.
// Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			result = append(result, HiddenField{Name: key, Value: value})
		}
	}
	if len(result) == 0 {
		return nil
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// IsHiddenField reports whether a posted name is reserved for hidden fields.
func IsHiddenField(name string) bool {
	return strings.HasPrefix(name, "_")
}
