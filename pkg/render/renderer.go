package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render/template"
	"github.com/goliatone/go-uicatalog/pkg/render/template/gotemplate"
	"github.com/goliatone/go-uicatalog/pkg/state"
	"github.com/goliatone/go-uicatalog/pkg/visibility"
	"github.com/goliatone/go-uicatalog/pkg/visibility/expr"
)

var (
	// ErrPassLimit is returned by Render when events keep arriving after the
	// configured number of passes.
	ErrPassLimit = errors.New("render: pass limit reached")
	// ErrNilSurface is returned when no surface is supplied.
	ErrNilSurface = errors.New("render: surface is required")
	// ErrNotInteractive is the reason attached to events targeting display
	// widgets such as metrics or tables.
	ErrNotInteractive = errors.New("widget does not accept user events")
)

// Renderer drives render passes over a catalog. It holds no per-session
// state, so one Renderer can serve many sessions as long as each session's
// passes run one at a time.
type Renderer struct {
	logger       *slog.Logger
	evaluator    visibility.Evaluator
	templates    template.TemplateRenderer
	maxPasses    int
	onEventError EventErrorHandler

	fallbackOnce sync.Once
	fallback     template.TemplateRenderer
	fallbackErr  error
}

// New returns a Renderer. By default it logs nowhere, evaluates visibility
// with the expr package, interpolates text with a raw pongo2 engine and
// aborts on the first rejected event.
func New(options ...Option) *Renderer {
	r := &Renderer{
		logger:       slog.New(slog.DiscardHandler),
		evaluator:    expr.New(),
		maxPasses:    DefaultMaxPasses,
		onEventError: AbortOnError,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// AbortOnError is the default event policy: the first rejected event stops
// the run.
func AbortOnError(_ Event, err error) error { return err }

// PassResult describes one completed pass.
type PassResult struct {
	Pass     uint64
	Nodes    int
	Visible  int
	Duration time.Duration
}

// Summary describes a completed Render loop.
type Summary struct {
	Passes    int
	Events    int
	Submitted []string
}

// Pass begins a new pass on st and draws every node of catalog once, depth
// first in child order, starting with the root section.
func (r *Renderer) Pass(ctx context.Context, catalog *model.Catalog, st *state.FormState, surface Surface) (PassResult, error) {
	if surface == nil {
		return PassResult{}, ErrNilSurface
	}
	if catalog == nil || st == nil {
		return PassResult{}, errors.New("render: catalog and state are required")
	}
	if err := ctx.Err(); err != nil {
		return PassResult{}, err
	}

	started := time.Now()
	pass := st.BeginPass()
	hooks, _ := surface.(PassHooks)
	if hooks != nil {
		if err := hooks.BeginPass(ctx, pass); err != nil {
			return PassResult{}, fmt.Errorf("render: begin pass %d: %w", pass, err)
		}
	}

	w := &passWalker{
		renderer: r,
		ctx:      ctx,
		state:    st,
		surface:  surface,
		pass:     pass,
		vis: visibility.Context{
			Values: st.Snapshot(),
			Extras: st.Extras(),
		},
	}
	if err := w.visit(catalog.Root(), 0, true, ""); err != nil {
		return PassResult{}, err
	}

	if hooks != nil {
		if err := hooks.EndPass(ctx, pass); err != nil {
			return PassResult{}, fmt.Errorf("render: end pass %d: %w", pass, err)
		}
	}

	result := PassResult{Pass: pass, Nodes: w.index, Visible: w.visible, Duration: time.Since(started)}
	r.logger.DebugContext(ctx, "render_pass",
		"pass", result.Pass,
		"nodes", result.Nodes,
		"visible", result.Visible,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// Apply feeds events to st in order. Events on submit buttons collect their
// form; once every event is applied each collected form is submitted once,
// in order of first activation. Rejected events go through the configured
// EventErrorHandler.
func (r *Renderer) Apply(st *state.FormState, events []Event) ([]string, error) {
	if st == nil {
		return nil, errors.New("render: state is required")
	}
	catalog := st.Catalog()

	var forms []string
	seen := make(map[string]struct{})
	for _, event := range events {
		form, err := applyEvent(catalog, st, event)
		if err != nil {
			if handled := r.onEventError(event, err); handled != nil {
				return nil, fmt.Errorf("render: apply event %q: %w", event.WidgetID, handled)
			}
			r.logger.Warn("render_event_skipped", "widget", event.WidgetID, "error", err.Error())
			continue
		}
		if form == "" {
			continue
		}
		if _, ok := seen[form]; !ok {
			seen[form] = struct{}{}
			forms = append(forms, form)
		}
	}

	for _, form := range forms {
		if err := st.Submit(form); err != nil {
			return nil, fmt.Errorf("render: submit %q: %w", form, err)
		}
	}
	if len(events) > 0 {
		r.logger.Debug("render_events", "events", len(events), "submitted", forms)
	}
	return forms, nil
}

// applyEvent sets one value and returns the form to submit, if the event
// activated a submit button.
func applyEvent(catalog *model.Catalog, st *state.FormState, event Event) (string, error) {
	d, err := catalog.Descriptor(event.WidgetID)
	if err != nil {
		return "", err
	}
	kind := d.Kind()
	if !kind.Interactive() {
		return "", &model.ConstraintViolationError{ID: d.ID(), Kind: kind, Value: event.Value, Reason: ErrNotInteractive}
	}
	value := event.Value
	if kind.Momentary() && value == nil {
		value = true
	}
	if err := st.Set(d.ID(), value); err != nil {
		return "", err
	}
	if kind != model.KindSubmitButton {
		return "", nil
	}
	if activated, _ := model.Coerce(kind, value); activated != true {
		return "", nil
	}
	form, _ := catalog.FormOf(d.ID())
	return form, nil
}

// Render loops Pass, PollEvents and Apply until a pass yields no events.
// Every pass redraws the whole tree. The loop stops with ErrPassLimit when
// the pass budget is spent while events are still arriving, and with the
// context error once ctx is done.
func (r *Renderer) Render(ctx context.Context, catalog *model.Catalog, st *state.FormState, surface Surface) (Summary, error) {
	var summary Summary
	for {
		if r.maxPasses > 0 && summary.Passes >= r.maxPasses {
			return summary, fmt.Errorf("%w after %d passes", ErrPassLimit, summary.Passes)
		}
		if _, err := r.Pass(ctx, catalog, st, surface); err != nil {
			return summary, err
		}
		summary.Passes++

		events, err := surface.PollEvents(ctx)
		if err != nil {
			return summary, fmt.Errorf("render: poll events: %w", err)
		}
		if len(events) == 0 {
			return summary, nil
		}
		summary.Events += len(events)

		submitted, err := r.Apply(st, events)
		summary.Submitted = append(summary.Submitted, submitted...)
		if err != nil {
			return summary, err
		}
	}
}

func (r *Renderer) textEngine() (template.TemplateRenderer, error) {
	if r.templates != nil {
		return r.templates, nil
	}
	r.fallbackOnce.Do(func() {
		engine, err := gotemplate.New(gotemplate.WithRawStrings())
		if err != nil {
			r.fallbackErr = fmt.Errorf("render: text template engine: %w", err)
			return
		}
		r.fallback = engine
	})
	return r.fallback, r.fallbackErr
}

type passWalker struct {
	renderer *Renderer
	ctx      context.Context
	state    *state.FormState
	surface  Surface
	pass     uint64
	vis      visibility.Context
	data     map[string]any
	index    int
	visible  int
}

func (w *passWalker) visit(node model.Node, depth int, parentVisible bool, form string) error {
	frame := Frame{
		Pass:  w.pass,
		Index: w.index,
		Depth: depth,
		Node:  node,
	}
	w.index++

	visible := parentVisible
	var rule string
	var section *model.Section

	switch n := node.(type) {
	case *model.Section:
		section = n
		rule = n.VisibleWhen()
		if n.IsForm() {
			form = n.ID()
		}
	case *model.Descriptor:
		value, err := w.state.Get(n.ID())
		if err != nil {
			return fmt.Errorf("render: resolve %q: %w", n.ID(), err)
		}
		frame.Value = value
		frame.Errors = w.state.Errors(n.ID())
		rule = n.VisibleWhen()
	default:
		return fmt.Errorf("render: unsupported node %T", node)
	}

	if visible && rule != "" {
		ok, err := w.renderer.evaluator.Eval(node.NodeID(), rule, w.vis)
		if err != nil {
			return fmt.Errorf("render: visibility of %q: %w", node.NodeID(), err)
		}
		visible = ok
	}
	frame.Visible = visible
	if visible {
		w.visible++
	}

	if d, ok := node.(*model.Descriptor); ok && visible && d.Kind() == model.KindTextDisplay {
		text, err := w.interpolate(frame.Value.(string))
		if err != nil {
			return fmt.Errorf("render: text of %q: %w", d.ID(), err)
		}
		frame.Text = text
	}

	if form != "" {
		frame.Form = form
		status, err := w.state.Status(form)
		if err != nil {
			return fmt.Errorf("render: status of %q: %w", form, err)
		}
		frame.FormStatus = status
	}

	if err := w.surface.Draw(w.ctx, frame); err != nil {
		return fmt.Errorf("render: draw %q: %w", node.NodeID(), err)
	}

	if section == nil {
		return nil
	}
	for _, child := range section.Children() {
		if err := w.visit(child, depth+1, visible, form); err != nil {
			return err
		}
	}
	return nil
}

func (w *passWalker) interpolate(body string) (string, error) {
	if !gotemplate.IsTemplateContent(body) {
		return body, nil
	}
	engine, err := w.renderer.textEngine()
	if err != nil {
		return "", err
	}
	if w.data == nil {
		w.data = make(map[string]any, len(w.vis.Values)+len(w.vis.Extras)+1)
		for key, value := range w.vis.Extras {
			w.data[key] = value
		}
		for key, value := range w.vis.Values {
			w.data[key] = value
		}
		w.data["values"] = w.vis.Values
	}
	return engine.RenderString(body, w.data)
}
