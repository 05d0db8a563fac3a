package text_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uicatalog/pkg/model"
	"github.com/goliatone/go-uicatalog/pkg/render"
	"github.com/goliatone/go-uicatalog/pkg/showcase"
	"github.com/goliatone/go-uicatalog/pkg/state"
	"github.com/goliatone/go-uicatalog/pkg/surfaces/text"
	"github.com/goliatone/go-uicatalog/pkg/testsupport"
)

func renderPass(t *testing.T, catalog *model.Catalog, st *state.FormState, opts ...text.Option) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := render.New().Pass(testsupport.Context(), catalog, st, text.New(&buf, opts...)); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, fragment := range want {
		if !strings.Contains(output, fragment) {
			t.Fatalf("output is missing %q:\n%s", fragment, output)
		}
	}
}

func assertMissing(t *testing.T, output string, unwanted ...string) {
	t.Helper()
	for _, fragment := range unwanted {
		if strings.Contains(output, fragment) {
			t.Fatalf("output should not contain %q:\n%s", fragment, output)
		}
	}
}

func TestSurface_ExampleCatalogFirstPass(t *testing.T) {
	catalog := testsupport.ExampleCatalog(t)
	output := renderPass(t, catalog, state.New(catalog))

	assertContains(t, output, "Example", "Age: 25", "Name: your name", "Sign up", "[ ] Terms", "[ Join ⏎ ]")
	assertMissing(t, output, "Hello", "Welcome aboard", "Please accept", "── pass")
}

func TestSurface_ReflectsAppliedEvents(t *testing.T) {
	catalog := testsupport.ExampleCatalog(t)
	st := state.New(catalog)
	renderer := render.New()
	var buf bytes.Buffer
	surface := text.New(&buf)
	ctx := testsupport.Context()

	if _, err := renderer.Pass(ctx, catalog, st, surface); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := renderer.Apply(st, []render.Event{
		render.Change("name", "Ada"),
		render.Change("terms", true),
		render.Press("submit"),
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	buf.Reset()
	if _, err := renderer.Pass(ctx, catalog, st, surface); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	output := buf.String()
	assertContains(t, output, "── pass 2 ──", "Name: Ada", "✔ Hello, Ada!", "[x] Terms", "✔ submitted", "✔ Welcome aboard")
	assertMissing(t, output, "Please accept")
}

func TestSurface_ShowcaseWidgets(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC) }
	catalog := showcase.MustCatalog(showcase.WithClock(fixed))
	output := renderPass(t, catalog, state.New(catalog))

	assertContains(t, output,
		"나이 입력: 25",
		"가격 선택: 50,000",
		"선택된 가격: ₩50,000",
		"(•) 옵션 A",
		"[x] 파이썬",
		"● on",
		"날짜 선택: 2026-10-14",
		"시간 선택: 09:30",
		"#00f900",
		"[ 일반 버튼 ]",
		"[ 가입하기 ⏎ ]",
		"김철수",
		"30,000",
		"₩1,234,567",
		"▲ +12.5%",
		"▼ -5%",
		"100%",
		"no file",
		"✔ ",
		"ℹ ",
		"⚠ ",
	)
	assertMissing(t, output, "안녕하세요", "환영합니다")
}

func TestSurface_TablesCapScrollableRows(t *testing.T) {
	rows := [][]any{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}}
	root := model.NewSectionBuilder("root", "", model.Plain).
		Widget("scroll", model.KindTable, model.WithDefault(model.Table{Columns: []string{"key", "n"}, Rows: rows})).
		Widget("static", model.KindTable, model.WithDefault(model.Table{Columns: []string{"name", "count"}, Rows: rows, Static: true})).
		MustBuild()
	catalog, err := model.NewCatalog(root)
	if err != nil {
		t.Fatal(err)
	}

	output := renderPass(t, catalog, state.New(catalog), text.WithMaxRows(2))
	assertContains(t, output, "… 2 more rows", "name", "count")
	if got := strings.Count(output, "more rows"); got != 1 {
		t.Fatalf("only the scrollable table is capped, got %d notes:\n%s", got, output)
	}
	if got := strings.Count(output, "d  "); got != 1 {
		t.Fatalf("static table should print every row:\n%s", output)
	}
}

func TestSurface_ErrorsAreListedUnderWidget(t *testing.T) {
	catalog := testsupport.ExampleCatalog(t)
	st := state.New(catalog)
	st.BeginPass()
	st.AddError("age", "151 is above max 150")

	output := renderPass(t, catalog, st)
	assertContains(t, output, "✖ 151 is above max 150")
}

func TestSurface_DrawOutsidePassPrintsImmediately(t *testing.T) {
	catalog := testsupport.ExampleCatalog(t)
	d, _ := catalog.Descriptor("age")

	var buf bytes.Buffer
	surface := text.New(&buf)
	if err := surface.Draw(testsupport.Context(), render.Frame{Node: d, Value: 42.0, Visible: true}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if diff := cmp.Diff("Age: 42\n", buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSurface_PollEventsIsEmpty(t *testing.T) {
	events, err := text.New(&bytes.Buffer{}).PollEvents(testsupport.Context())
	if err != nil || events != nil {
		t.Fatalf("PollEvents = %v, %v", events, err)
	}
}

func TestFactoryRequiresOutput(t *testing.T) {
	if _, err := text.Factory(render.SurfaceConfig{}); err == nil {
		t.Fatalf("expected an error without an output writer")
	}
	if _, err := text.Factory(render.SurfaceConfig{Output: &bytes.Buffer{}}); err != nil {
		t.Fatalf("Factory: %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		50000:     "50,000",
		-3:        "-3",
		1234.5:    "1,234.5",
		1234567.0: "1,234,567",
	}
	for in, want := range cases {
		if got := text.FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	got := []string{
		text.FormatCell(nil),
		text.FormatCell(45000),
		text.FormatCell(int64(7)),
		text.FormatCell(2.5),
		text.FormatCell("사원"),
		text.FormatCell(true),
	}
	want := []string{"", "45,000", "7", "2.5", "사원", "true"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
}
