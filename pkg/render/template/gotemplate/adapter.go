package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	humanize "github.com/dustin/go-humanize"
	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-uicatalog/pkg/render/template"
)

const (
	defaultExtension = ".tpl"
	// maxCachedStrings bounds the string template cache; text bodies are few
	// and stable, so the cache is simply reset when it fills.
	maxCachedStrings = 512
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	templateFn map[string]any
	globalData map[string]any
	raw        bool
	named      []gotemplatepkg.Option
}

// WithBaseDir loads named templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension appended to names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc registers filters (pongo2.FilterFunction values) or global
// helper functions.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithRawStrings disables HTML escaping for RenderString. Text interpolation
// for plain surfaces uses it; page templates keep escaping on.
func WithRawStrings() Option {
	return func(cfg *config) {
		cfg.raw = true
	}
}

// WithGoTemplateOptions forwards options to the go-template renderer behind
// named templates. They apply after the loader and extension options, so
// they may override them.
func WithGoTemplateOptions(opts ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		for _, opt := range opts {
			if opt != nil {
				cfg.named = append(cfg.named, opt)
			}
		}
	}
}

// Engine implements template.TemplateRenderer. Named templates run on a
// go-template renderer; string templates run on a pongo2 set of their own and
// are cached by source.
type Engine struct {
	mu sync.RWMutex

	named       *gotemplatepkg.Engine
	templateSet *pongo2.TemplateSet
	inline      map[string]*pongo2.Template
	raw         bool
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Without WithBaseDir or WithFS only RenderString
// is usable.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: defaultExtension}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.NewFSLoader(emptyFS{}))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("uicatalog", loaders...),
		inline:      make(map[string]*pongo2.Template),
		raw:         cfg.raw,
	}
	registerDefaultFilters()

	if cfg.baseDir != "" || cfg.templates != nil {
		named, err := newNamedRenderer(cfg)
		if err != nil {
			return nil, err
		}
		engine.named = named
	}

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}
	return engine, nil
}

// Render treats name as inline content when it contains template markup and
// as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if IsTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

func newNamedRenderer(cfg *config) (*gotemplatepkg.Engine, error) {
	opts := []gotemplatepkg.Option{gotemplatepkg.WithExtension(cfg.extension)}
	if cfg.baseDir != "" {
		opts = append(opts, gotemplatepkg.WithBaseDir(cfg.baseDir))
	}
	if cfg.templates != nil {
		opts = append(opts, gotemplatepkg.WithFS(cfg.templates))
	}
	if len(cfg.templateFn) > 0 {
		opts = append(opts, gotemplatepkg.WithTemplateFunc(cfg.templateFn))
	}
	opts = append(opts, cfg.named...)

	named, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: configure named templates: %w", err)
	}
	return named, nil
}

// RenderTemplate executes a named template loaded from the configured
// directory or filesystem. Template data must be JSON encodable.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if e.named == nil {
		return "", fmt.Errorf("gotemplate: template %q: no directory or filesystem configured", name)
	}
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}
	rendered, err := e.named.RenderTemplate(name, textValues(map[string]any(viewContext)), out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %w", err)
	}
	return rendered, nil
}

// RenderString executes inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.stringTemplate(templateContent)
	if err != nil {
		return "", err
	}
	rendered, err := e.execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return rendered, writeAll(rendered, out)
}

func (e *Engine) execute(tmpl *pongo2.Template, data any) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("convert data: %w", err)
	}
	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeAll(rendered string, out []io.Writer) error {
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFilter registers a pongo2 filter backed by fn. Filters are global
// to pongo2, so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}
	if e.named != nil {
		if err := e.named.GlobalContext(textValues(map[string]any(globalCtx))); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}
	if !isCallable(fn) {
		return fmt.Errorf("gotemplate: %T is neither a filter nor a function", fn)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals[trimmed] = fn
	return nil
}

func (e *Engine) stringTemplate(content string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.inline[content]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	source := content
	if e.raw {
		source = "{% autoescape off %}" + content + "{% endautoescape %}"
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.inline[content]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	if len(e.inline) >= maxCachedStrings {
		e.inline = make(map[string]*pongo2.Template)
	}
	e.inline[content] = tmpl
	return tmpl, nil
}

// IsTemplateContent reports whether s contains pongo2 markup.
func IsTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// convertToContext flattens data into plain maps, slices and scalars through
// a JSON round trip so pongo2 sees widget values (dates, files, tables) the
// way they serialise. Whole floats become int64 so "{{ age }}" prints 40
// rather than 40.000000.
func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertMapToContext(map[string]any(v))
	case map[string]any:
		return convertMapToContext(v)
	}
	m, err := jsonToMap(data)
	if err != nil {
		return nil, err
	}
	return convertMapToContext(m)
}

func convertMapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int64:
		return v, nil
	case float64:
		return normaliseFloat(v), nil
	case *pongo2.Value:
		return v, nil
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	case list:
		return convertSlice(v)
	}
	if isCallable(value) {
		return value, nil
	}
	raw, err := jsonToAny(value)
	if err != nil {
		return nil, err
	}
	switch decoded := raw.(type) {
	case map[string]any:
		return convertMap(decoded)
	case []any:
		return convertSlice(decoded)
	case float64:
		return normaliseFloat(decoded), nil
	default:
		return decoded, nil
	}
}

func normaliseFloat(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int64(v)
	}
	return v
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// list is a converted slice. It prints its items joined by ", " so a bare
// "{{ langs }}" reads the same as "{{ langs|join_list }}".
type list []any

func (l list) String() string {
	parts := make([]string, len(l))
	for i, item := range l {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ", ")
}

func convertSlice(in []any) (list, error) {
	out := make(list, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// textValues prints numbers ahead of time for the named renderer, which
// decodes data through JSON and would otherwise print 40 as 40.000000.
func textValues(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = textValues(item)
		}
		return out
	case list:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = textValues(item)
		}
		return out
	case []any:
		return textValues(list(v))
	case *pongo2.Value:
		return textValues(v.Interface())
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return fmt.Sprintf("%f", v)
	}
	return value
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("join_list") {
		_ = pongo2.RegisterFilter("join_list", filterJoinList)
	}
	if !pongo2.FilterExists("comma") {
		_ = pongo2.RegisterFilter("comma", filterComma)
	}
}

// filterComma groups the digits of numbers with commas ("50,000").
func filterComma(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch {
	case in.IsInteger():
		return pongo2.AsValue(humanize.Comma(int64(in.Integer()))), nil
	case in.IsFloat():
		return pongo2.AsValue(humanize.Commaf(in.Float())), nil
	}
	return pongo2.AsValue(in.String()), nil
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterJoinList joins list values with the parameter (", " by default),
// printing multi-select values the way a sentence would.
func filterJoinList(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	sep := ", "
	if param != nil && !param.IsNil() && param.String() != "" {
		sep = param.String()
	}
	if in.IsString() || !in.CanSlice() {
		return pongo2.AsValue(in.String()), nil
	}
	parts := make([]string, 0, in.Len())
	in.Iterate(func(_, _ int, key, _ *pongo2.Value) bool {
		if key.IsNil() {
			parts = append(parts, "")
			return true
		}
		parts = append(parts, fmt.Sprint(key.Interface()))
		return true
	}, func() {})
	return pongo2.AsValue(strings.Join(parts, sep)), nil
}
