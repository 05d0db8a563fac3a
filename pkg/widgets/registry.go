package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// HintWidget is the descriptor hint that names a component explicitly.
const HintWidget = "widget"

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle    = "toggle"
	WidgetSegmented = "segmented"
	WidgetChips     = "chips"
	WidgetSelect    = "select"
	WidgetTextarea  = "textarea"
	WidgetAlert     = "alert"
	WidgetCode      = "code"
	WidgetMarkdown  = "markdown"
	WidgetBar       = "bar"
	WidgetGrid      = "grid"
)

// segmentedLimit is the largest option count still drawn as a segmented control.
const segmentedLimit = 4

// Matcher decides whether a widget renderer should handle the supplied descriptor.
type Matcher func(d *model.Descriptor) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects component names for descriptors based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the component name for a descriptor. An explicit `widget`
// hint is honoured before matcher evaluation.
func (r *Registry) Resolve(d *model.Descriptor) (string, bool) {
	if d == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(d.Hint(HintWidget)); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(d) {
			return entry.name, true
		}
	}
	return "", false
}

// Assign resolves every descriptor of the catalog and returns the component
// name per widget identifier. Unresolved widgets are left out so surfaces can
// fall back to their per-kind default.
func (r *Registry) Assign(catalog *model.Catalog) map[string]string {
	if catalog == nil {
		return nil
	}
	out := make(map[string]string)
	for _, d := range catalog.Descriptors() {
		if widget, ok := r.Resolve(d); ok && widget != "" {
			out[d.ID()] = widget
		}
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindToggle
	})

	r.Register(WidgetSegmented, 85, func(d *model.Descriptor) bool {
		if d.Kind() != model.KindRadio {
			return false
		}
		count := len(d.Constraints().Options)
		return count > 0 && count <= segmentedLimit
	})

	r.Register(WidgetChips, 80, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindMultiSelect
	})

	r.Register(WidgetSelect, 70, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindSingleSelect || d.Kind() == model.KindRadio
	})

	r.Register(WidgetTextarea, 65, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindMultiLineInput
	})

	r.Register(WidgetAlert, 60, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindTextDisplay && d.TextStyle().Alert()
	})

	r.Register(WidgetCode, 55, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindTextDisplay && d.TextStyle() == model.TextCode
	})

	r.Register(WidgetMarkdown, 50, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindTextDisplay && d.TextStyle() == model.TextMarkdown
	})

	r.Register(WidgetBar, 40, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindProgress
	})

	r.Register(WidgetGrid, 30, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindTable
	})
}
