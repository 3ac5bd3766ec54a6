package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formbuilder/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
	hooks      *gotemplatepkg.HookChain
}

// WithBaseDir loads templates from a directory on disk. Files found there
// take precedence over the fs.FS bundle so deployments can override single
// templates.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension appended to bare names.
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

// WithPreHooks registers hooks that may rewrite the template name or data
// before a named template executes.
func WithPreHooks(hooks ...gotemplatepkg.PreHook) Option {
	return func(cfg *config) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.hooks.AddPreHook(hook)
			}
		}
	}
}

// WithPostHooks registers hooks that rewrite the output of named templates.
func WithPostHooks(hooks ...gotemplatepkg.PostHook) Option {
	return func(cfg *config) {
		for _, hook := range hooks {
			if hook != nil {
				cfg.hooks.AddPostHook(hook)
			}
		}
	}
}

// Engine renders pongo2 templates from a template set and caches parsed
// templates by path.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
	hooks     *gotemplatepkg.HookChain
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. At least one of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tmpl", hooks: gotemplatepkg.NewHookChain()}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
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

	engine := &Engine{
		set:       pongo2.NewSet("formbuilder", loaders...),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
		hooks:     cfg.hooks,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return engine, nil
}

// RenderTemplate executes the named template. Pre hooks run first and may
// swap the name or data; post hooks then rewrite the output, which is also
// copied to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	hctx := &gotemplatepkg.HookContext{
		TemplateName: name,
		Data:         data,
		Metadata:     map[string]any{"ext": e.ext},
		IsPreHook:    true,
	}
	if err := e.hooks.ExecutePreHooks(hctx); err != nil {
		return "", fmt.Errorf("gotemplate: pre hook for %q: %w", name, err)
	}

	path := hctx.TemplateName
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	rendered, err := e.execute(tmpl, hctx.Data, path, nil)
	if err != nil {
		return "", err
	}

	hctx.IsPreHook = false
	hctx.Output = rendered
	rendered, err = e.hooks.ExecutePostHooks(hctx)
	if err != nil {
		return "", fmt.Errorf("gotemplate: post hook for %q: %w", name, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// RenderString parses and executes inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "inline", out)
}

// RegisterFilter exposes fn as a pongo2 filter. Filters are process-wide in
// pongo2, so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, label string, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// toContext normalises data through JSON so templates address values by
// their JSON keys regardless of the Go types behind them. Functions are
// passed through untouched.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return mapToContext(v)
	case map[string]any:
		return mapToContext(v)
	default:
		return gotemplatepkg.ConvertToContext(v)
	}
}

func mapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value == nil || isFunc(value) {
			out[key] = value
			continue
		}
		switch value.(type) {
		case string, bool, int, int64, float64:
			out[key] = value
			continue
		}
		decoded, err := viaJSON(value)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: convert %q: %w", key, err)
		}
		out[key] = decoded
	}
	return out, nil
}

func isFunc(v any) bool {
	_, ok := v.(func(string) string)
	return ok
}

func viaJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
