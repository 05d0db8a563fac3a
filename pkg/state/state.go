package state

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// FormStatus is the per-form lifecycle state.
type FormStatus string

const (
	// StatusEditing is the resting state of every form.
	StatusEditing FormStatus = "editing"
	// StatusSubmitted holds for exactly one pass after a submit.
	StatusSubmitted FormStatus = "submitted-this-pass"
)

// FormState owns the mutable values of one session: committed values for
// every widget, staged edits per form, and the one-pass flags raised by
// submits, button presses and rejected events. It is not safe for concurrent
// use; a session drives it from a single goroutine.
type FormState struct {
	catalog   *model.Catalog
	committed map[string]any
	staged    map[string]map[string]any
	submitted map[string]uint64
	pressed   map[string]uint64
	errors    map[string]flaggedErrors
	pass      uint64
}

type flaggedErrors struct {
	raised   uint64
	messages []string
}

// New seeds a state with the descriptor defaults of catalog.
func New(catalog *model.Catalog) *FormState {
	s := &FormState{
		catalog:   catalog,
		committed: make(map[string]any),
		staged:    make(map[string]map[string]any),
		submitted: make(map[string]uint64),
		pressed:   make(map[string]uint64),
		errors:    make(map[string]flaggedErrors),
	}
	for _, d := range catalog.Descriptors() {
		if d.Kind().Momentary() {
			continue
		}
		s.committed[d.ID()] = d.Default()
	}
	return s
}

// Catalog returns the catalog the state was created for.
func (s *FormState) Catalog() *model.Catalog { return s.catalog }

// Pass returns the number of passes begun so far.
func (s *FormState) Pass() uint64 { return s.pass }

// Get returns the resolved value of a widget: its staged edit when the widget
// sits in a form with a pending edit, otherwise its committed value. Buttons
// resolve to whether they were pressed for the current pass.
func (s *FormState) Get(id string) (any, error) {
	d, err := s.catalog.Descriptor(id)
	if err != nil {
		return nil, err
	}
	return model.Clone(s.resolve(d)), nil
}

// Committed returns the committed value of a widget, ignoring staged edits.
func (s *FormState) Committed(id string) (any, error) {
	d, err := s.catalog.Descriptor(id)
	if err != nil {
		return nil, err
	}
	if d.Kind().Momentary() {
		return s.isPressed(id), nil
	}
	return model.Clone(s.committed[id]), nil
}

func (s *FormState) resolve(d *model.Descriptor) any {
	id := d.ID()
	if d.Kind().Momentary() {
		return s.isPressed(id)
	}
	if form, ok := s.catalog.FormOf(id); ok {
		if value, staged := s.staged[form][id]; staged {
			return value
		}
	}
	return s.committed[id]
}

// Set validates value against the widget's descriptor and stores it. Widgets
// inside a form only receive a staged edit. Setting a button to true presses
// it; setting it to false releases it.
func (s *FormState) Set(id string, value any) error {
	d, err := s.catalog.Descriptor(id)
	if err != nil {
		return err
	}
	coerced, err := d.Validate(value)
	if err != nil {
		return err
	}
	if d.Kind().Momentary() {
		if coerced.(bool) {
			s.pressed[id] = s.pass
		} else {
			delete(s.pressed, id)
		}
		return nil
	}
	if form, ok := s.catalog.FormOf(id); ok {
		if s.staged[form] == nil {
			s.staged[form] = make(map[string]any)
		}
		s.staged[form][id] = coerced
		return nil
	}
	s.committed[id] = coerced
	return nil
}

// Press records the momentary activation of a button or submit button.
func (s *FormState) Press(id string) error {
	d, err := s.catalog.Descriptor(id)
	if err != nil {
		return err
	}
	if !d.Kind().Momentary() {
		return &model.UnknownIdentifierError{ID: id, Expect: "button"}
	}
	s.pressed[id] = s.pass
	return nil
}

// Pressed reports whether the button was activated for the current pass.
func (s *FormState) Pressed(id string) (bool, error) {
	d, err := s.catalog.Descriptor(id)
	if err != nil {
		return false, err
	}
	if !d.Kind().Momentary() {
		return false, &model.UnknownIdentifierError{ID: id, Expect: "button"}
	}
	return s.isPressed(id), nil
}

func (s *FormState) isPressed(id string) bool {
	_, ok := s.pressed[id]
	return ok
}

// Submit commits the staged edits of a form in one step and marks the form
// submitted for the next pass.
func (s *FormState) Submit(formID string) error {
	if _, err := s.catalog.Form(formID); err != nil {
		return err
	}
	for id, value := range s.staged[formID] {
		s.committed[id] = value
	}
	delete(s.staged, formID)
	s.submitted[formID] = s.pass
	return nil
}

// Reset drops the staged edits of a form so Get falls back to the last
// committed values.
func (s *FormState) Reset(formID string) error {
	if _, err := s.catalog.Form(formID); err != nil {
		return err
	}
	delete(s.staged, formID)
	return nil
}

// Status reports the lifecycle state of a form.
func (s *FormState) Status(formID string) (FormStatus, error) {
	if _, err := s.catalog.Form(formID); err != nil {
		return "", err
	}
	if _, ok := s.submitted[formID]; ok {
		return StatusSubmitted, nil
	}
	return StatusEditing, nil
}

// Staged returns a copy of the pending edits of a form.
func (s *FormState) Staged(formID string) (map[string]any, error) {
	if _, err := s.catalog.Form(formID); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.staged[formID]))
	for id, value := range s.staged[formID] {
		out[id] = model.Clone(value)
	}
	return out, nil
}

// BeginPass starts a new render pass. Flags raised since the previous pass
// began stay visible for this pass; older flags are cleared, so a submit or a
// press is observed by exactly one pass.
func (s *FormState) BeginPass() uint64 {
	s.pass++
	keep := s.pass - 1
	for id, raised := range s.submitted {
		if raised < keep {
			delete(s.submitted, id)
		}
	}
	for id, raised := range s.pressed {
		if raised < keep {
			delete(s.pressed, id)
		}
	}
	for id, entry := range s.errors {
		if entry.raised < keep {
			delete(s.errors, id)
		}
	}
	return s.pass
}

// Snapshot returns the resolved value of every widget, deep copied.
func (s *FormState) Snapshot() map[string]any {
	descriptors := s.catalog.Descriptors()
	out := make(map[string]any, len(descriptors))
	for _, d := range descriptors {
		out[d.ID()] = model.Clone(s.resolve(d))
	}
	return out
}

// Extras exposes the one-pass flags for visibility expressions and templates
// as {"submitted": {form: bool}, "pressed": {button: bool}}. Every form and
// button is listed so lookups never miss.
func (s *FormState) Extras() map[string]any {
	submitted := make(map[string]any)
	for _, form := range s.catalog.Forms() {
		_, ok := s.submitted[form]
		submitted[form] = ok
	}
	pressed := make(map[string]any)
	for _, d := range s.catalog.Descriptors() {
		if d.Kind().Momentary() {
			pressed[d.ID()] = s.isPressed(d.ID())
		}
	}
	return map[string]any{
		"submitted": submitted,
		"pressed":   pressed,
	}
}

// AddError attaches a message to a widget for the next pass. Unknown
// identifiers are attached as-is so hosts can report rejected events.
func (s *FormState) AddError(id string, message string) {
	entry := s.errors[id]
	if entry.raised != s.pass {
		entry = flaggedErrors{raised: s.pass}
	}
	entry.messages = append(entry.messages, message)
	s.errors[id] = entry
}

// Errors returns the messages attached to a widget for the current pass.
func (s *FormState) Errors(id string) []string {
	return append([]string(nil), s.errors[id].messages...)
}

// ErrorIDs lists identifiers carrying messages, sorted.
func (s *FormState) ErrorIDs() []string {
	ids := make([]string, 0, len(s.errors))
	for id := range s.errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *FormState) String() string {
	return fmt.Sprintf("state(pass=%d, committed=%d, staged forms=%d)", s.pass, len(s.committed), len(s.staged))
}
