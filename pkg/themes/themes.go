// Package themes resolves go-theme manifests into renderer configuration for
// the builder page: tokens become CSS custom properties, template overrides
// become partials and asset keys resolve to URLs.
package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultTheme names the built-in manifest.
	DefaultTheme = "formbuilder"
	// VariantDark is the dark variant of the built-in manifest.
	VariantDark = "dark"
)

var (
	ErrThemeNotFound   = errors.New("themes: theme not found")
	ErrVariantNotFound = errors.New("themes: variant not found")
)

// Default returns the built-in manifest. Token names match the custom
// properties used by the embedded stylesheet.
func Default() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"fb-brand":    "#0d6efd",
			"fb-muted":    "#6c757d",
			"fb-danger":   "#dc3545",
			"fb-border":   "#dee2e6",
			"fb-hover-bg": "#f8f9fa",
		},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					"fb-brand":    "#6ea8fe",
					"fb-muted":    "#adb5bd",
					"fb-border":   "#495057",
					"fb-hover-bg": "#343a40",
				},
			},
		},
	}
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Selector resolves theme and variant names against registered manifests.
type Selector struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests and records the defaults used when Select
// receives empty names.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	s := &Selector{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	if s.defaultTheme == "" {
		s.defaultTheme = DefaultTheme
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("themes: manifest is nil")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return errors.New("themes: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", name, err)
	}
	s.manifests[name] = manifest
	return nil
}

// Names lists registered themes alphabetically.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	explicitVariant := variant != ""
	if name == "" {
		name = s.defaultTheme
	}
	if !explicitVariant {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			if explicitVariant {
				return nil, fmt.Errorf("%w: %q in theme %q", ErrVariantNotFound, variant, name)
			}
			// default variant only applies to themes that define it
			variant = ""
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// RendererConfig flattens a selection into what renderers consume. Variant
// values override the base manifest, which overrides fallbacks.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant, hasVariant := manifest.Variants[selection.Variant]

	partials := mergeMaps(fallbacks, manifest.Templates)
	tokens := mergeMaps(nil, manifest.Tokens)
	files := mergeMaps(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if hasVariant {
		partials = mergeMaps(partials, variant.Templates)
		tokens = mergeMaps(tokens, variant.Tokens)
		files = mergeMaps(files, variant.Assets.Files)
		if strings.TrimSpace(variant.Assets.Prefix) != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

// Resolve selects name/variant and flattens the result in one step.
func Resolve(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection, fallbacks), nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || strings.TrimSpace(file) == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeMaps(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
