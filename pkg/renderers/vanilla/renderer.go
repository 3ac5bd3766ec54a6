// Package vanilla renders the builder as server-side HTML with a small
// dependency-free browser script for drag and drop and the placement dialog.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	overlayDir       string
	text             map[string]string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateOverlayDir resolves templates from dir before the bundle, so
// theme partials can live next to their manifests.
func WithTemplateOverlayDir(dir string) Option {
	return func(cfg *config) {
		cfg.overlayDir = dir
	}
}

// WithText overrides interface copy such as the empty placeholder or the
// submit caption. Keys match DefaultText.
func WithText(text map[string]string) Option {
	return func(cfg *config) {
		for key, value := range text {
			cfg.text[key] = value
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), text: DefaultText()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.overlayDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithGlobalData(map[string]any{"text": cfg.text}),
			gotemplate.WithPostHooks(sanitizePreview),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits either the full page or only the drop zone preview.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	preview, err := r.templates.RenderTemplate(
		templateFor(options.Theme, previewPartial, defaultPreviewTemplate),
		map[string]any{"form": form, "fragment": string(render.FragmentPreview)},
	)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render preview: %w", err)
	}
	if options.Fragment == render.FragmentPreview {
		return []byte(preview), nil
	}

	page, err := r.templates.RenderTemplate(
		templateFor(options.Theme, pagePartial, defaultPageTemplate),
		map[string]any{
			"form":    form,
			"preview": preview,
			"theme":   buildThemeContext(options.Theme),
			"assets": assetContext{
				Stylesheet: assetURL(options.AssetsPrefix, StylesheetName),
				Script:     assetURL(options.AssetsPrefix, ScriptName),
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(page), nil
}

// sanitizePreview runs preview output through the fragment policy before it
// is served alone or inlined into the page.
func sanitizePreview(ctx *gotemplatepkg.HookContext) (string, error) {
	data, ok := ctx.Data.(map[string]any)
	if !ok || data["fragment"] != string(render.FragmentPreview) {
		return ctx.Output, nil
	}
	return render.SanitizeFragment(ctx.Output), nil
}
