// Package uicatalog renders declarative widget catalogs.
//
// The root package re-exports the types most hosts need and offers one-call
// helpers over the loader, session and surface packages. Hosts that drive
// passes themselves should use pkg/session and pkg/render directly.
package uicatalog

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-uicatalog/pkg/loader"
	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/session"
	"github.com/goliatone/go-uicatalog/pkg/showcase"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/html"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/text"
)

// Catalog aliases model.Catalog.
type Catalog = model.Catalog

// Summary aliases render.Summary.
type Summary = render.Summary

// Event aliases render.Event.
type Event = render.Event

// Load reads a catalog definition from a JSON or YAML file.
func Load(path string) (*Catalog, error) {
	return loader.LoadFile(path)
}

// Showcase builds the bundled demonstration catalog.
func Showcase() (*Catalog, error) {
	return showcase.Catalog()
}

// NewSession starts a session over catalog.
func NewSession(catalog *Catalog, options ...session.Option) (*session.Session, error) {
	return session.New(catalog, options...)
}

// RenderText draws the first pass of catalog as styled terminal text.
func RenderText(ctx context.Context, catalog *Catalog, out io.Writer) error {
	return renderOnce(ctx, catalog, text.New(out))
}

// RenderHTML draws the first pass of catalog as a standalone HTML page.
func RenderHTML(ctx context.Context, catalog *Catalog, out io.Writer, options ...html.Option) error {
	surface, err := html.New(out, options...)
	if err != nil {
		return err
	}
	return renderOnce(ctx, catalog, surface)
}

// Replay runs a session against surface until it stops sending events. A
// record surface built with scripted batches replays one batch per pass.
func Replay(ctx context.Context, catalog *Catalog, surface render.Surface, options ...session.Option) (Summary, error) {
	s, err := session.New(catalog, options...)
	if err != nil {
		return Summary{}, err
	}
	return s.Run(ctx, surface)
}

func renderOnce(ctx context.Context, catalog *Catalog, surface render.Surface) error {
	s, err := session.New(catalog)
	if err != nil {
		return err
	}
	if _, err := s.Pass(ctx, surface); err != nil {
		return fmt.Errorf("uicatalog: %w", err)
	}
	return nil
}
