package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// ExampleCatalog builds the catalog used across package tests: a numeric
// `age` input (0..150, default 25), a `name` input with a greeting that shows
// once a name is typed, and a `signup` form holding `terms` plus a submit
// button, followed by success and warning messages driven by the form.
func ExampleCatalog(t testing.TB) *model.Catalog {
	t.Helper()

	root, err := model.NewSectionBuilder("root", "Example", model.Plain).
		Widget("age", model.KindNumericInput,
			model.WithConstraints(model.Constraints{Min: model.Float(0), Max: model.Float(150)}),
			model.WithDefault(25)).
		Widget("name", model.KindSingleLineInput, model.WithPlaceholder("your name")).
		Text("greeting", model.TextSuccess, "Hello, {{ name }}!", model.WithVisibleWhen("name")).
		Section(model.NewSectionBuilder("signup", "Sign up", model.Form()).
			Widget("terms", model.KindCheckbox).
			Widget("submit", model.KindSubmitButton, model.WithLabel("Join"))).
		Text("welcome", model.TextSuccess, "Welcome aboard", model.WithVisibleWhen("submitted.signup && terms")).
		Text("agree", model.TextWarning, "Please accept the terms", model.WithVisibleWhen("submitted.signup && !terms")).
		Build()
	if err != nil {
		t.Fatalf("testsupport: build example catalog: %v", err)
	}
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatalf("testsupport: index example catalog: %v", err)
	}
	return catalog
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t testing.TB, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (the test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs a render function that writes to an io.Writer
// and returns both the returned string and what was written.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
