package template_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render/template/gotemplate"
	"github.com/goliatone/go-uicatalog/pkg/testsupport"
)

var templateFiles = fstest.MapFS{
	"hello.tpl":      {Data: []byte("Hello {{ name }}!")},
	"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
	"use-filter.tpl": {Data: []byte("{{ name|shout_catalog }}")},
	"escape.tpl":     {Data: []byte("<p>{{ body }}</p>")},
	"numbers.tpl":    {Data: []byte("{{ age }}/{{ price }}/{{ langs|join_list }}/{{ brand|lowerfirst }}")},
	"page.html":      {Data: []byte("<title>{{ title }}</title>")},
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templateFiles)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("render template mismatch\nresult: %q\nwritten: %q", result, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_ForwardsGoTemplateOptions(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGoTemplateOptions(
		gotemplatepkg.WithGlobalData(map[string]any{"settings": map[string]any{"env": "production"}}),
	))

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=production" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_ForwardedExtensionOverridesDefault(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGoTemplateOptions(gotemplatepkg.WithExtension("html")))

	result, err := engine.RenderTemplate("page", map[string]any{"title": "Signup"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<title>Signup</title>" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_NamedTemplatesPrintNumbers(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("numbers", map[string]any{
		"age":   40.0,
		"price": 12.5,
		"langs": []string{"Go", "C++"},
		"brand": "Catalog",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "40/12.500000/Go, C++/catalog"; result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderTemplateWithoutSource(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithRawStrings())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error without a template source")
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_catalog", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout_catalog", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_RenderStringWidgetValues(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithRawStrings())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := map[string]any{
		"name":  "<Kim>",
		"age":   40.0,
		"price": 12.5,
		"langs": []string{"Go", "C++"},
		"day":   model.DateOf(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)),
	}
	got, err := engine.RenderString("{{ name }} {{ age }} {{ price }} {{ langs|join_list }} {{ day }} [{{ langs }}] {{ langs|join_list:\"+\" }}", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	want := "<Kim> 40 12.500000 Go, C++ 2026-10-14 [Go, C++] Go+C++"
	if got != want {
		t.Fatalf("render string mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_CommaFilter(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithRawStrings())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("₩{{ price|comma }} / {{ ratio|comma }}", map[string]any{"price": 50000.0, "ratio": 1234.5})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "₩50,000 / 1,234.5"; got != want {
		t.Fatalf("comma mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_EscapesNamedTemplates(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render("escape", map[string]any{"body": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<p>&lt;b&gt;x&lt;/b&gt;</p>" {
		t.Fatalf("expected escaped body, got %q", got)
	}
}
