package html

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
)

// Submit turns a posted page into events queued for the next PollEvents.
//
// A post naming a form through _form carries that form's members only; a
// post without it carries the widgets outside every form. Fields the last
// page did not show are ignored. A _pass value other than the last rendered
// pass fails with ErrStaleSubmission and queues nothing.
func (s *Surface) Submit(values url.Values) ([]render.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw := values.Get(render.FieldPass); raw != "" && raw != passString(s.page.pass) {
		return nil, fmt.Errorf("%w: posted pass %s, current pass %d", ErrStaleSubmission, raw, s.page.pass)
	}
	form := strings.TrimSpace(values.Get(render.FieldForm))
	if form != "" && !s.page.forms[form] {
		return nil, fmt.Errorf("html: submission names unknown form %q", form)
	}

	known := make(map[string]bool, len(s.page.fields))
	var events []render.Event
	for _, f := range s.page.fields {
		known[f.id] = true
		if f.form != form {
			continue
		}
		raw, ok := values[f.id]
		if !ok {
			continue
		}
		if event, ok := fieldEvent(f, raw); ok {
			events = append(events, event)
		}
	}
	for name := range values {
		if !known[name] && !render.IsHiddenField(name) {
			s.logger.Debug("html_field_ignored", "field", name, "pass", s.page.pass)
		}
	}

	s.queued = append(s.queued, events...)
	return events, nil
}

// fieldEvent reads the posted values of one field. Checkboxes and toggles
// post a hidden "false" before the control, so the last value wins;
// multi-selects post an empty marker that is dropped.
func fieldEvent(f field, raw []string) (render.Event, bool) {
	last := ""
	if len(raw) > 0 {
		last = raw[len(raw)-1]
	}
	switch f.kind {
	case model.KindCheckbox, model.KindToggle:
		return render.Change(f.id, last == "true" || last == "on"), true
	case model.KindButton, model.KindSubmitButton:
		return render.Press(f.id), true
	case model.KindMultiSelect:
		picked := make([]string, 0, len(raw))
		for _, v := range raw {
			if v != "" {
				picked = append(picked, v)
			}
		}
		return render.Change(f.id, picked), true
	case model.KindNumericInput, model.KindSlider, model.KindDateInput, model.KindTimeInput:
		if strings.TrimSpace(last) == "" {
			return render.Event{}, false
		}
	case model.KindFileInput:
		if strings.TrimSpace(last) == "" {
			return render.Event{}, false
		}
		return render.Change(f.id, model.File{Name: last}), true
	}
	return render.Change(f.id, last), true
}
