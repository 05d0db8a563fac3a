// Package prompt runs a catalog interactively in a terminal. Each pass is
// shown through a display surface, then the user picks one widget to change
// (or quits) and enters its new value. One interaction is one event, so
// every change triggers a fresh pass.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/text"
)

// ErrAborted reports that the user interrupted a prompt (Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

const defaultQuitLabel = "Quit"

// Option configures the surface.
type Option func(*Surface)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(s *Surface) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithDisplay overrides the surface that shows each pass. The text surface
// on the output writer is used otherwise.
func WithDisplay(display render.Surface) Option {
	return func(s *Surface) {
		if display != nil {
			s.display = display
		}
	}
}

// WithQuitLabel renames the menu entry that ends the session.
func WithQuitLabel(label string) Option {
	return func(s *Surface) {
		if strings.TrimSpace(label) != "" {
			s.quit = label
		}
	}
}

// WithLogger sets the logger for interactions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Surface is an interactive render.Surface.
type Surface struct {
	mu      sync.Mutex
	driver  Driver
	display render.Surface
	logger  *slog.Logger
	quit    string

	// editable holds the visible interactive widgets of the last pass.
	editable []render.Frame
	quitted  bool
}

var (
	_ render.Surface   = (*Surface)(nil)
	_ render.PassHooks = (*Surface)(nil)
)

// New returns a prompt surface printing passes to out.
func New(out io.Writer, opts ...Option) *Surface {
	if out == nil {
		out = os.Stdout
	}
	s := &Surface{quit: defaultQuitLabel}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.display == nil {
		s.display = text.New(out)
	}
	if s.driver == nil {
		w, _ := out.(terminal.FileWriter)
		s.driver = NewSurveyDriver(nil, w)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Factory adapts New to render.SurfaceFactory. The input must be a terminal
// file when set.
func Factory(cfg render.SurfaceConfig) (render.Surface, error) {
	var in terminal.FileReader
	if cfg.Input != nil {
		reader, ok := cfg.Input.(terminal.FileReader)
		if !ok {
			return nil, fmt.Errorf("prompt: input %T is not a terminal file", cfg.Input)
		}
		in = reader
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	w, _ := out.(terminal.FileWriter)
	return New(out, WithDriver(NewSurveyDriver(in, w)), WithLogger(cfg.Logger)), nil
}

// Quitted reports whether the user chose to end the session.
func (s *Surface) Quitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quitted
}

func (s *Surface) BeginPass(ctx context.Context, pass uint64) error {
	s.mu.Lock()
	s.editable = s.editable[:0]
	s.mu.Unlock()
	if hooks, ok := s.display.(render.PassHooks); ok {
		return hooks.BeginPass(ctx, pass)
	}
	return nil
}

func (s *Surface) Draw(ctx context.Context, frame render.Frame) error {
	if d, ok := frame.Descriptor(); ok && frame.Visible && d.Kind().Interactive() {
		s.mu.Lock()
		s.editable = append(s.editable, frame)
		s.mu.Unlock()
	}
	return s.display.Draw(ctx, frame)
}

func (s *Surface) EndPass(ctx context.Context, pass uint64) error {
	if hooks, ok := s.display.(render.PassHooks); ok {
		return hooks.EndPass(ctx, pass)
	}
	return nil
}

// PollEvents asks for one change. Choosing the quit entry returns no events,
// which ends the render loop.
func (s *Surface) PollEvents(ctx context.Context) ([]render.Event, error) {
	s.mu.Lock()
	editable := slices.Clone(s.editable)
	s.mu.Unlock()

	if len(editable) == 0 {
		return nil, nil
	}

	entries := make([]string, 0, len(editable)+1)
	for _, frame := range editable {
		entries = append(entries, menuEntry(frame))
	}
	entries = append(entries, s.quit)

	choice, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Change a widget",
		Options:      entries,
		DefaultIndex: len(entries) - 1,
		PageSize:     min(len(entries), 15),
	})
	if err != nil {
		return nil, err
	}
	if choice < 0 || choice >= len(editable) {
		s.mu.Lock()
		s.quitted = true
		s.mu.Unlock()
		return nil, nil
	}

	frame := editable[choice]
	d, _ := frame.Descriptor()
	event, err := s.ask(ctx, d, frame.Value)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "prompt_event", "widget", event.WidgetID, "pass", frame.Pass)
	return []render.Event{event}, nil
}

func (s *Surface) ask(ctx context.Context, d *model.Descriptor, current any) (render.Event, error) {
	id := d.ID()
	message := d.Label()
	help := d.Help()
	options := d.Constraints().Options

	validate := func(answer string) error {
		_, err := d.Validate(answer)
		return err
	}

	switch d.Kind() {
	case model.KindButton, model.KindSubmitButton:
		return render.Press(id), nil
	case model.KindCheckbox, model.KindToggle:
		on, _ := current.(bool)
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: on, Help: help})
		if err != nil {
			return render.Event{}, err
		}
		return render.Change(id, answer), nil
	case model.KindSingleSelect, model.KindRadio:
		selected, _ := current.(string)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, selected),
			Help:         help,
		})
		if err != nil {
			return render.Event{}, err
		}
		if idx < 0 || idx >= len(options) {
			return render.Change(id, selected), nil
		}
		return render.Change(id, options[idx]), nil
	case model.KindMultiSelect:
		picked, _ := current.([]string)
		var defaults []int
		for _, v := range picked {
			if idx := indexOf(options, v); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: defaults,
			Help:     help,
		})
		if err != nil {
			return render.Event{}, err
		}
		chosen := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				chosen = append(chosen, options[idx])
			}
		}
		return render.Change(id, chosen), nil
	case model.KindMultiLineInput:
		value, _ := current.(string)
		answer, err := s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: value, Help: help})
		if err != nil {
			return render.Event{}, err
		}
		return render.Change(id, answer), nil
	case model.KindFileInput:
		name := ""
		if file, _ := current.(*model.File); file != nil {
			name = file.Name
		}
		answer, err := s.driver.Input(ctx, InputConfig{Message: message + " (file name)", Default: name, Help: help, Validator: validate})
		if err != nil {
			return render.Event{}, err
		}
		return render.Change(id, answer), nil
	}

	answer, err := s.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   currentText(current),
		Help:      help,
		Validator: validate,
	})
	if err != nil {
		return render.Event{}, err
	}
	return render.Change(id, answer), nil
}

func menuEntry(frame render.Frame) string {
	d, _ := frame.Descriptor()
	if d.Kind().Momentary() {
		return "[" + d.Label() + "]"
	}
	value := currentText(frame.Value)
	if list, ok := frame.Value.([]string); ok {
		value = strings.Join(list, ", ")
	}
	if value == "" {
		return d.Label()
	}
	return fmt.Sprintf("%s (%s)", d.Label(), value)
}

func currentText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *model.File:
		if v == nil {
			return ""
		}
		return v.Name
	}
	return fmt.Sprint(value)
}
