// Package session hosts one user's run over a catalog: it owns the session
// identifier, the form state and the renderer, and applies the event error
// policy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/state"
)

// Policy decides what a session does with events the state rejects.
type Policy int

const (
	// AbortOnError ends the run with the first rejected event.
	AbortOnError Policy = iota
	// SkipInvalidEvents drops rejected events, logs them and shows the reason
	// next to the widget on the following pass.
	SkipInvalidEvents
)

func (p Policy) String() string {
	switch p {
	case AbortOnError:
		return "abort"
	case SkipInvalidEvents:
		return "skip"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy accepts "abort" or "skip".
func ParsePolicy(raw string) (Policy, error) {
	switch raw {
	case "abort", "":
		return AbortOnError, nil
	case "skip":
		return SkipInvalidEvents, nil
	}
	return 0, fmt.Errorf("session: unknown policy %q (want abort or skip)", raw)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the parent logger; the session adds its session_id.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPolicy sets the event error policy.
func WithPolicy(policy Policy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithID overrides the generated session identifier.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithRendererOptions forwards options to the session's renderer.
func WithRendererOptions(opts ...render.Option) Option {
	return func(s *Session) {
		s.renderOpts = append(s.renderOpts, opts...)
	}
}

// Session binds a catalog to fresh state for one user.
type Session struct {
	id         string
	catalog    *model.Catalog
	state      *state.FormState
	renderer   *render.Renderer
	logger     *slog.Logger
	policy     Policy
	renderOpts []render.Option
}

// New starts a session over catalog.
func New(catalog *model.Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, errors.New("session: catalog is required")
	}
	s := &Session{
		id:      uuid.NewString(),
		catalog: catalog,
		state:   state.New(catalog),
		logger:  slog.New(slog.DiscardHandler),
		policy:  AbortOnError,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With("session_id", s.id)

	rendererOpts := []render.Option{
		render.WithLogger(s.logger),
		render.WithEventErrorHandler(s.handleEventError),
	}
	s.renderer = render.New(append(rendererOpts, s.renderOpts...)...)
	return s, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Catalog() *model.Catalog { return s.catalog }
func (s *Session) State() *state.FormState { return s.state }
func (s *Session) Renderer() *render.Renderer { return s.renderer }
func (s *Session) Logger() *slog.Logger { return s.logger }
func (s *Session) Policy() Policy { return s.policy }

// Run drives render passes against surface until it stops sending events.
func (s *Session) Run(ctx context.Context, surface render.Surface) (render.Summary, error) {
	s.logger.InfoContext(ctx, "session_started", "widgets", s.catalog.Len(), "policy", s.policy.String())
	summary, err := s.renderer.Render(ctx, s.catalog, s.state, surface)
	if err != nil {
		s.logger.ErrorContext(ctx, "session_failed", "passes", summary.Passes, "error", err.Error())
		return summary, fmt.Errorf("session %s: %w", s.id, err)
	}
	s.logger.InfoContext(ctx, "session_finished",
		"passes", summary.Passes,
		"events", summary.Events,
		"submitted", summary.Submitted,
	)
	return summary, nil
}

// Pass draws a single pass, for hosts that drive the loop themselves.
func (s *Session) Pass(ctx context.Context, surface render.Surface) (render.PassResult, error) {
	return s.renderer.Pass(ctx, s.catalog, s.state, surface)
}

// Apply feeds events collected by the host to the state.
func (s *Session) Apply(events []render.Event) ([]string, error) {
	return s.renderer.Apply(s.state, events)
}

func (s *Session) handleEventError(event render.Event, err error) error {
	if s.policy != SkipInvalidEvents {
		return err
	}
	if !errors.Is(err, model.ErrConstraintViolation) && !errors.Is(err, model.ErrUnknownIdentifier) {
		return err
	}
	s.logger.Warn("session_event_rejected", "widget", event.WidgetID, "error", err.Error())
	s.state.AddError(event.WidgetID, Reason(err))
	return nil
}

// Reason returns the short user-facing message for a rejected event.
func Reason(err error) string {
	var violation *model.ConstraintViolationError
	if errors.As(err, &violation) && violation.Reason != nil {
		return violation.Reason.Error()
	}
	var unknown *model.UnknownIdentifierError
	if errors.As(err, &unknown) {
		return "no such widget"
	}
	return err.Error()
}
