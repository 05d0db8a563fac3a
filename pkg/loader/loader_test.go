package loader_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/loader"
	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/testsupport"
)

var fixedNow = func() time.Time { return time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC) }

func TestLoadFS_MatchesBuilderCatalog(t *testing.T) {
	want := encode(t, testsupport.ExampleCatalog(t), loader.FormatJSON)

	for _, path := range []string{"example.yaml", "example.json"} {
		t.Run(path, func(t *testing.T) {
			catalog, err := loader.LoadFS(os.DirFS("testdata"), path)
			if err != nil {
				t.Fatalf("LoadFS: %v", err)
			}
			if diff := cmp.Diff(want, encode(t, catalog, loader.FormatJSON)); diff != "" {
				t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	catalog, err := loader.LoadFile("testdata/example.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := catalog.Forms(); len(got) != 1 || got[0] != "signup" {
		t.Fatalf("forms = %v", got)
	}
	submit, err := catalog.Descriptor("submit")
	if err != nil {
		t.Fatal(err)
	}
	if submit.Label() != "Join" {
		t.Fatalf("label = %q", submit.Label())
	}
}

func TestEncodeThenParse(t *testing.T) {
	catalog := richCatalog(t)

	for _, format := range []loader.Format{loader.FormatJSON, loader.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			first := encode(t, catalog, format)
			parsed, err := loader.Parse([]byte(first), "roundtrip."+string(format), loader.WithClock(time.Now))
			if err != nil {
				t.Fatalf("Parse: %v\n%s", err, first)
			}
			if diff := cmp.Diff(first, encode(t, parsed, format)); diff != "" {
				t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
			}

			for _, want := range catalog.Descriptors() {
				got, err := parsed.Descriptor(want.ID())
				if err != nil {
					t.Fatalf("descriptor %q missing: %v", want.ID(), err)
				}
				if want.Kind() != got.Kind() || want.Label() != got.Label() {
					t.Fatalf("descriptor %q changed: %s/%q vs %s/%q", want.ID(), want.Kind(), want.Label(), got.Kind(), got.Label())
				}
			}
		})
	}
}

func TestParse_Keywords(t *testing.T) {
	doc := `
id: root
children:
  - id: when
    kind: date-input
    default: today
  - id: at
    kind: time-input
    default: now
`
	catalog, err := loader.Parse([]byte(doc), "keywords.yaml", loader.WithClock(fixedNow))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	when, _ := catalog.Descriptor("when")
	if got := when.Default(); got != (model.Date{Year: 2026, Month: time.October, Day: 14}) {
		t.Fatalf("today resolved to %v", got)
	}
	at, _ := catalog.Descriptor("at")
	if got := at.Default(); got != (model.TimeOfDay{Hour: 9, Minute: 30}) {
		t.Fatalf("now resolved to %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"leaf.yaml":      {Data: []byte("id: age\nkind: numeric-input\n")},
		"kind.yaml":      {Data: []byte("id: root\nchildren:\n  - id: x\n    kind: hologram\n")},
		"missing.yaml":   {Data: []byte("id: root\nchildren:\n  - id: x\n")},
		"rule.yaml":      {Data: []byte("id: root\nchildren:\n  - id: x\n    kind: toggle\n    visibleWhen: \"a &&\"\n")},
		"layout.yaml":    {Data: []byte("id: root\nlayout: columns(x)\nchildren: []\n")},
		"empty.yaml":     {Data: []byte("  \n")},
		"broken.json":    {Data: []byte("{\"id\": ")},
		"mindate.yaml":   {Data: []byte("id: root\nchildren:\n  - id: d\n    kind: date-input\n    constraints:\n      minDate: soon\n")},
		"duplicate.yaml": {Data: []byte("id: root\nchildren:\n  - id: x\n    kind: toggle\n  - id: x\n    kind: checkbox\n")},
	}

	cases := map[string]string{
		"leaf.yaml":    "must be a section",
		"kind.yaml":    "unknown widget kind",
		"missing.yaml": "kind is required",
		"rule.yaml":    "visibleWhen",
		"layout.yaml":  "invalid column count",
		"empty.yaml":   "is empty",
		"broken.json":  "as JSON",
		"mindate.yaml": "minDate",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			_, err := loader.LoadFS(fsys, path)
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Fatalf("expected error containing %q, got %v", want, err)
			}
		})
	}

	t.Run("duplicate.yaml", func(t *testing.T) {
		_, err := loader.LoadFS(fsys, "duplicate.yaml")
		var dup *model.DuplicateIdentifierError
		if !errors.As(err, &dup) || dup.ID != "x" {
			t.Fatalf("expected duplicate identifier error, got %v", err)
		}
	})
}

func TestParse_InvalidDefaultSurfacesUnchanged(t *testing.T) {
	_, err := loader.LoadFile("testdata/invalid_default.yaml")
	if !errors.Is(err, model.ErrInvalidDefault) {
		t.Fatalf("expected ErrInvalidDefault, got %v", err)
	}
	var invalid *model.InvalidDefaultError
	if !errors.As(err, &invalid) || invalid.ID != "age" {
		t.Fatalf("expected invalid default for age, got %#v", err)
	}
	if !strings.Contains(err.Error(), "testdata/invalid_default.yaml") {
		t.Fatalf("error should name the document: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]loader.Format{"JSON": loader.FormatJSON, "yml": loader.FormatYAML, " yaml ": loader.FormatYAML} {
		got, err := loader.ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := loader.ParseFormat("toml"); err == nil {
		t.Fatalf("expected error for toml")
	}
}

func richCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	clock := model.WithClock(fixedNow)
	root, err := model.NewSectionBuilder("root", "Everything", model.Plain).
		Text("title", model.TextTitle, "Widgets").
		Text("snippet", model.TextCode, "fmt.Println(1)", model.WithLanguage("go")).
		Section(model.NewSectionBuilder("cols", "", model.Columns(2)).
			Widget("slider", model.KindSlider, model.WithConstraints(model.Constraints{Step: model.Float(5)}), model.WithDefault(50)).
			Widget("langs", model.KindMultiSelect, model.WithOptions("Go", "Rust", "Zig"), model.WithDefault([]string{"Go"}))).
		Section(model.NewSectionBuilder("more", "More", model.Layout{Kind: model.SectionExpander, Expanded: true}).
			Widget("birthday", model.KindDateInput, clock,
				model.WithConstraints(model.Constraints{MinDate: &model.Date{Year: 1900, Month: time.January, Day: 1}})).
			Widget("alarm", model.KindTimeInput, clock).
			Widget("color", model.KindColorInput, model.WithDefault("#1E90FF")).
			Widget("upload", model.KindFileInput, model.WithConstraints(model.Constraints{Accept: []string{"csv", "pdf"}}))).
		Section(model.NewSectionBuilder("box", "", model.Layout{Kind: model.SectionContainer, Border: true}).
			Widget("revenue", model.KindMetric, model.WithDefault(model.Metric{Value: "₩1,234,567", Delta: "+12.5%"})).
			Widget("loading", model.KindProgress, model.WithDefault(100)).
			Widget("people", model.KindTable, model.WithDefault(model.Table{
				Columns: []string{"name", "age"},
				Rows:    [][]any{{"Kim", 30}, {"Lee", 41.5}},
			})).
			Widget("trend", model.KindChart, model.WithDefault(model.Chart{
				Type:   model.ChartBar,
				Series: []string{"a"},
				Points: [][]float64{{1}, {2.5}},
			}))).
		Section(model.NewSectionBuilder("signup", "Sign up", model.Form()).
			Widget("email", model.KindSingleLineInput,
				model.WithHints(map[string]string{"widget": "email"}),
				model.WithConstraints(model.Constraints{MaxLength: model.Int(64)})).
			Widget("go", model.KindSubmitButton)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func encode(t *testing.T, catalog *model.Catalog, format loader.Format) string {
	t.Helper()
	data, err := loader.Encode(catalog, format)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return string(data)
}
