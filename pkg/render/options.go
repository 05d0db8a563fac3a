package render

import (
	"log/slog"

	"github.com/goliatone/go-uicatalog/pkg/render/template"
	"github.com/goliatone/go-uicatalog/pkg/visibility"
)

// DefaultMaxPasses bounds Render when no limit is configured.
const DefaultMaxPasses = 1000

// Option configures a Renderer.
type Option func(*Renderer)

// EventErrorHandler decides what happens to an event rejected by the state.
// Returning nil skips the event; returning an error aborts Apply with it.
type EventErrorHandler func(event Event, err error) error

// WithLogger sets the structured logger. Passes log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEvaluator replaces the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(r *Renderer) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithTemplates replaces the engine interpolating text-display bodies.
func WithTemplates(templates template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if templates != nil {
			r.templates = templates
		}
	}
}

// WithMaxPasses bounds the number of passes Render may draw. Zero or a
// negative value removes the bound.
func WithMaxPasses(n int) Option {
	return func(r *Renderer) {
		r.maxPasses = n
	}
}

// WithEventErrorHandler installs the policy for rejected events.
func WithEventErrorHandler(handler EventErrorHandler) Option {
	return func(r *Renderer) {
		if handler != nil {
			r.onEventError = handler
		}
	}
}
