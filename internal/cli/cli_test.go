package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-uicatalog/pkg/loader"
	"github.com/goliatone/go-uicatalog/pkg/testsupport"
)

type harness struct {
	app *App
	out *bytes.Buffer
	err *bytes.Buffer
	env map[string]string
}

func testApp(t *testing.T) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, env: map[string]string{}}
	h.app = &App{
		In:            strings.NewReader(""),
		Out:           h.out,
		Err:           h.err,
		IsInteractive: func() bool { return false },
		Surfaces:      DefaultSurfaces(),
		Now:           func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) },
		Getenv:        func(key string) string { return h.env[key] },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(testsupport.Context())
}

func writeExample(t *testing.T, format loader.Format, name string) string {
	t.Helper()
	data, err := loader.Encode(testsupport.ExampleCatalog(t), format)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidate_ReportsCounts(t *testing.T) {
	h := testApp(t)
	path := writeExample(t, loader.FormatYAML, "example.yaml")

	require.NoError(t, h.run("validate", path))

	got := h.out.String()
	assert.True(t, strings.HasPrefix(got, "ok: "+path+": "), got)
	assert.Contains(t, got, "1 forms")
}

func TestValidate_RejectsBrokenFile(t *testing.T) {
	h := testApp(t)
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "root", "children": [{"id": "x", "kind": "no-such-kind"}]}`), 0o644))

	err := h.run("validate", path)
	require.Error(t, err)
	assert.Empty(t, h.out.String())
}

func TestValidate_RequiresFile(t *testing.T) {
	h := testApp(t)
	require.Error(t, h.run("validate"))
}

func TestRender_Text(t *testing.T) {
	h := testApp(t)
	path := writeExample(t, loader.FormatJSON, "example.json")

	require.NoError(t, h.run("render", path))

	got := h.out.String()
	assert.Contains(t, got, "Age: 25")
	assert.Contains(t, got, "[ Join ⏎ ]")
}

func TestRender_HTMLToFile(t *testing.T) {
	h := testApp(t)
	path := writeExample(t, loader.FormatYAML, "example.yaml")
	target := filepath.Join(t.TempDir(), "page.html")

	require.NoError(t, h.run("render", path, "--format", "html", "--output", target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<form id="form-signup"`)
	assert.Empty(t, h.out.String())
}

func TestRender_ShowcaseWithoutFile(t *testing.T) {
	h := testApp(t)

	require.NoError(t, h.run("render"))
	assert.NotEmpty(t, h.out.String())
}

func TestRender_RejectsUnknownAndInteractiveFormats(t *testing.T) {
	h := testApp(t)
	assert.Error(t, h.run("render", "--format", "pdf"))
	assert.Error(t, h.run("render", "--format", "prompt"))
}

func TestExport_RoundTrips(t *testing.T) {
	h := testApp(t)
	path := writeExample(t, loader.FormatYAML, "example.yaml")

	require.NoError(t, h.run("export", path, "--format", "json"))

	catalog, err := loader.Parse(h.out.Bytes(), "export.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"signup"}, catalog.Forms())
}

func TestExport_RejectsUnknownFormat(t *testing.T) {
	h := testApp(t)
	assert.Error(t, h.run("export", "--format", "toml"))
}

func TestRun_RequiresTerminal(t *testing.T) {
	h := testApp(t)
	assert.ErrorIs(t, h.run("run"), ErrNotInteractive)
}

func TestLogLevel_FallsBackToEnv(t *testing.T) {
	h := testApp(t)
	h.env[EnvLogLevel] = "loud"
	assert.Error(t, h.run("render"))

	h = testApp(t)
	h.env[EnvLogLevel] = "loud"
	assert.NoError(t, h.run("render", "--log-level", "error"))
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}

func TestServe_StopsWithContext(t *testing.T) {
	h := testApp(t)
	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()

	cmd := NewRootCmd(h.app)
	cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, h.out.String(), "serving on http://127.0.0.1:")
}

func TestServe_RejectsUnknownPolicy(t *testing.T) {
	h := testApp(t)
	assert.Error(t, h.run("serve", "--policy", "retry"))
}
