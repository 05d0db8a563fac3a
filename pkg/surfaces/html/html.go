// Package html draws catalog passes as HTML pages through pongo2 templates
// and turns posted pages back into events.
//
// Every pass produces one complete document. Widgets outside any form belong
// to the page form; members of a catalog form reference that form's own
// <form> element through the HTML form attribute, so posting it carries the
// staged members only, together with the hidden _form and _pass fields.
package html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/goliatone/go-uicatalog/pkg/render"
	rendertemplate "github.com/goliatone/go-uicatalog/pkg/render/template"
	"github.com/goliatone/go-uicatalog/pkg/render/template/gotemplate"
	"github.com/goliatone/go-uicatalog/pkg/widgets"
)

// ContentType is the media type of rendered pages.
const ContentType = "text/html; charset=utf-8"

// ErrStaleSubmission reports a post made from a page drawn in an earlier pass.
var ErrStaleSubmission = errors.New("html: submission is for a stale page")

// Option configures the surface.
type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	widgets    *widgets.Registry
	logger     *slog.Logger
	title      string
	lang       string
	action     string
	stylesheet *string
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template engine. It must resolve the same
// template names as the embedded bundle.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithWidgets sets the registry choosing component templates.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithLogger sets the logger used for ignored submission fields.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTitle overrides the document title. The root section title is used
// otherwise.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang != "" {
			cfg.lang = lang
		}
	}
}

// WithAction sets the URL forms post to.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = action
	}
}

// WithStylesheet replaces the inlined stylesheet; an empty string drops it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Surface renders passes to a writer.
type Surface struct {
	mu sync.Mutex

	out        io.Writer
	templates  rendertemplate.TemplateRenderer
	widgets    *widgets.Registry
	logger     *slog.Logger
	title      string
	lang       string
	action     string
	stylesheet string

	frames []render.Frame
	open   bool

	// page describes the last rendered page; submissions are checked
	// against it.
	page   page
	queued []render.Event
}

var (
	_ render.Surface   = (*Surface)(nil)
	_ render.PassHooks = (*Surface)(nil)
)

// New returns an HTML surface writing one document per pass to out.
func New(out io.Writer, options ...Option) (*Surface, error) {
	cfg := config{lang: "en"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if out == nil {
		out = io.Discard
	}

	templates := cfg.templates
	if templates == nil {
		files := cfg.templateFS
		if files == nil {
			files = TemplatesFS()
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("html: configure template renderer: %w", err)
		}
		templates = engine
	}
	registry := cfg.widgets
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Surface{
		out:        out,
		templates:  templates,
		widgets:    registry,
		logger:     logger,
		title:      cfg.title,
		lang:       cfg.lang,
		action:     cfg.action,
		stylesheet: stylesheet,
	}, nil
}

// Factory adapts New to render.SurfaceFactory.
func Factory(cfg render.SurfaceConfig) (render.Surface, error) {
	if cfg.Output == nil {
		return nil, fmt.Errorf("html: output writer is required")
	}
	return New(cfg.Output, WithLogger(cfg.Logger))
}

// ContentType reports the media type of the documents written.
func (s *Surface) ContentType() string { return ContentType }

func (s *Surface) BeginPass(context.Context, uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = s.frames[:0]
	s.open = true
	return nil
}

// Draw buffers the frame until EndPass.
func (s *Surface) Draw(_ context.Context, frame render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return errors.New("html: draw outside a pass")
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *Surface) EndPass(_ context.Context, pass uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false

	document, built, err := s.render(pass, s.frames)
	if err != nil {
		return err
	}
	s.page = built
	if _, err := io.WriteString(s.out, document); err != nil {
		return fmt.Errorf("html: write: %w", err)
	}
	return nil
}

// Render returns the document for one pass worth of frames without
// recording it as the current page.
func (s *Surface) Render(pass uint64, frames []render.Frame) (string, error) {
	document, _, err := s.render(pass, frames)
	return document, err
}

// PollEvents returns and clears the events queued by Submit.
func (s *Surface) PollEvents(context.Context) ([]render.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.queued
	s.queued = nil
	return events, nil
}

// Pass returns the pass of the last rendered page, or 0 before the first.
func (s *Surface) Pass() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.pass
}

func passString(pass uint64) string {
	return strconv.FormatUint(pass, 10)
}
