package render

import (
	"context"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/state"
)

// Surface is the boundary to whatever actually shows the catalog. Draw is
// called exactly once per node per pass in document order; PollEvents is
// called once after each pass and returns the interactions collected since,
// in the order they happened.
type Surface interface {
	Draw(ctx context.Context, frame Frame) error
	PollEvents(ctx context.Context) ([]Event, error)
}

// PassHooks is implemented by surfaces that batch a pass, for example to
// clear a screen before drawing or flush a page once the pass is complete.
type PassHooks interface {
	BeginPass(ctx context.Context, pass uint64) error
	EndPass(ctx context.Context, pass uint64) error
}

// Frame is one draw call.
type Frame struct {
	// Pass numbers passes from 1.
	Pass uint64
	// Index is the position of the node in the pass, starting at 0 for the
	// root section.
	Index int
	// Depth is 0 for the root section.
	Depth int
	Node  model.Node
	// Value is the resolved widget value; nil for sections.
	Value any
	// Text is the interpolated body of visible text-display widgets.
	Text string
	// Visible is false when the node's rule, or an ancestor's, hides it.
	Visible bool
	// Form is the enclosing form, or the form itself for form sections.
	Form       string
	FormStatus state.FormStatus
	// Errors carries messages attached to the widget since the last pass.
	Errors []string
}

// Descriptor returns the frame's widget descriptor, if the node is a widget.
func (f Frame) Descriptor() (*model.Descriptor, bool) {
	d, ok := f.Node.(*model.Descriptor)
	return d, ok
}

// Section returns the frame's section, if the node is a section.
func (f Frame) Section() (*model.Section, bool) {
	s, ok := f.Node.(*model.Section)
	return s, ok
}

// ID returns the node identifier.
func (f Frame) ID() string {
	if f.Node == nil {
		return ""
	}
	return f.Node.NodeID()
}

// Event is a user interaction: the widget and its new value. Activating a
// button or submit button is an event whose value is true (or nil).
type Event struct {
	WidgetID string `json:"widget" yaml:"widget"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Press returns the event activating a button.
func Press(id string) Event { return Event{WidgetID: id, Value: true} }

// Change returns the event setting a widget to value.
func Change(id string, value any) Event { return Event{WidgetID: id, Value: value} }
