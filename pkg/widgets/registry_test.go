package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	d := model.MustDescriptor("dark_mode", model.KindToggle,
		model.WithHints(map[string]string{HintWidget: "custom-toggle"}))

	if got, ok := reg.Resolve(d); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		desc   *model.Descriptor
		expect string
	}{
		{
			name:   "toggle",
			desc:   model.MustDescriptor("notify", model.KindToggle),
			expect: WidgetToggle,
		},
		{
			name:   "short radio is segmented",
			desc:   model.MustDescriptor("page", model.KindRadio, model.WithOptions("home", "settings", "about", "help")),
			expect: WidgetSegmented,
		},
		{
			name:   "long radio falls back to select",
			desc:   model.MustDescriptor("size", model.KindRadio, model.WithOptions("xs", "s", "m", "l", "xl")),
			expect: WidgetSelect,
		},
		{
			name:   "multi select chips",
			desc:   model.MustDescriptor("langs", model.KindMultiSelect, model.WithOptions("Go", "Rust")),
			expect: WidgetChips,
		},
		{
			name:   "single select",
			desc:   model.MustDescriptor("city", model.KindSingleSelect, model.WithOptions("Seoul")),
			expect: WidgetSelect,
		},
		{
			name:   "textarea",
			desc:   model.MustDescriptor("bio", model.KindMultiLineInput),
			expect: WidgetTextarea,
		},
		{
			name:   "alert text",
			desc:   model.MustDescriptor("done", model.KindTextDisplay, model.WithTextStyle(model.TextSuccess), model.WithDefault("ok")),
			expect: WidgetAlert,
		},
		{
			name:   "code text",
			desc:   model.MustDescriptor("snippet", model.KindTextDisplay, model.WithTextStyle(model.TextCode), model.WithLanguage("go")),
			expect: WidgetCode,
		},
		{
			name:   "markdown text",
			desc:   model.MustDescriptor("notes", model.KindTextDisplay, model.WithTextStyle(model.TextMarkdown)),
			expect: WidgetMarkdown,
		},
		{
			name:   "progress bar",
			desc:   model.MustDescriptor("loading", model.KindProgress),
			expect: WidgetBar,
		},
		{
			name:   "table grid",
			desc:   model.MustDescriptor("employees", model.KindTable),
			expect: WidgetGrid,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.desc)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_Unmatched(t *testing.T) {
	reg := NewRegistry()
	if got, ok := reg.Resolve(model.MustDescriptor("age", model.KindNumericInput)); ok {
		t.Fatalf("numeric input should use the surface default, got %q", got)
	}
	if _, ok := (&Registry{}).Resolve(model.MustDescriptor("notify", model.KindToggle)); ok {
		t.Fatalf("empty registry should never resolve")
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("switch", 999, func(d *model.Descriptor) bool {
		return d.Kind() == model.KindToggle
	})

	got, ok := reg.Resolve(model.MustDescriptor("notify", model.KindToggle))
	if !ok || got != "switch" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
}

func TestAssign_MapsCatalogWidgets(t *testing.T) {
	root := model.NewSectionBuilder("root", "", model.Plain).
		Widget("notify", model.KindToggle).
		Widget("age", model.KindNumericInput).
		Text("intro", model.TextMarkdown, "**hi**").
		MustBuild()
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"notify": WidgetToggle,
		"intro":  WidgetMarkdown,
	}
	if diff := cmp.Diff(want, NewRegistry().Assign(catalog)); diff != "" {
		t.Fatalf("assignment mismatch (-want +got):\n%s", diff)
	}
}
