package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	pagePartial    = "builder.page"
	previewPartial = "builder.preview"

	defaultPageTemplate    = "templates/page.tmpl"
	defaultPreviewTemplate = "templates/preview.tmpl"

	themeStylesheetKey = "vanilla.stylesheet"
)

// DefaultPartials maps the partial keys a theme may override to the bundled
// templates. Pass it as the fallback map when resolving a theme.
func DefaultPartials() map[string]string {
	return map[string]string{
		pagePartial:    defaultPageTemplate,
		previewPartial: defaultPreviewTemplate,
	}
}

// DefaultText returns the interface copy templates read from the global
// text map.
func DefaultText() map[string]string {
	return map[string]string{
		"palette": "Drag Elements",
		"empty":   "Drag elements here...",
		"submit":  "Submit",
		"cancel":  "Cancel",
		"no":      "No",
		"ok":      "OK",
	}
}

type themeContext struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"cssVarsStyle,omitempty"`
	Stylesheet   string `json:"stylesheet,omitempty"`
}

type assetContext struct {
	Stylesheet string `json:"stylesheet"`
	Script     string `json:"script"`
}

func templateFor(cfg *theme.RendererConfig, partial, fallback string) string {
	if cfg == nil {
		return fallback
	}
	if name := strings.TrimSpace(cfg.Partials[partial]); name != "" {
		return name
	}
	return fallback
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(themeStylesheetKey)
	}
	return ctx
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(vars[key])
		if value == "" || !strings.HasPrefix(key, "--") {
			continue
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, "; ")
}

func assetURL(prefix, name string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = "/assets"
	}
	return prefix + "/" + name
}
