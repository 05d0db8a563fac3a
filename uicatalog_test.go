package uicatalog_test

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/record"
	"github.com/goliatone/go-uicatalog/pkg/testsupport"
)

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := uicatalog.RenderText(testsupport.Context(), testsupport.ExampleCatalog(t), &buf); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(buf.String(), "Age: 25") {
		t.Fatalf("text output missing the age widget:\n%s", buf.String())
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := uicatalog.RenderHTML(testsupport.Context(), testsupport.ExampleCatalog(t), &buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "<!DOCTYPE html>") {
		t.Fatalf("expected a full document, got:\n%s", buf.String())
	}
}

func TestReplay(t *testing.T) {
	surface := record.New(
		[]render.Event{render.Change("name", "Ada")},
		[]render.Event{render.Change("terms", true), render.Press("submit")},
	)
	summary, err := uicatalog.Replay(testsupport.Context(), testsupport.ExampleCatalog(t), surface)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	want := uicatalog.Summary{Passes: 3, Events: 3, Submitted: []string{"signup"}}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestShowcase(t *testing.T) {
	catalog, err := uicatalog.Showcase()
	if err != nil {
		t.Fatalf("Showcase: %v", err)
	}
	if catalog.Len() == 0 {
		t.Fatalf("showcase catalog is empty")
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(uicatalog.EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
	if _, err := fs.ReadFile(uicatalog.AssetsFS(), "uicatalog.css"); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
}
