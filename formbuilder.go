// Package formbuilder is the top-level entry point: it mounts builder
// instances and renders them with the bundled renderers.
package formbuilder

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides for renderers.
type RenderOptions = render.RenderOptions

// FieldTemplate is a palette entry.
type FieldTemplate = catalog.FieldTemplate

// PlacedField is a field committed to a draft.
type PlacedField = draft.PlacedField

// Prompt is the question a placement dialog is waiting on.
type Prompt = placement.Prompt

// Builder is one mounted component instance.
type Builder = builder.Builder

// New mounts a builder with an empty draft, mirroring builder.New.
func New(options ...builder.Option) *Builder {
	return builder.New(options...)
}

// NewRegistry returns a registry with the vanilla HTML renderer (the default)
// and the tui text renderer, both behind the label sanitizer.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: %w", err)
	}
	registry := render.NewRegistry(render.Sanitizer())
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(tui.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

// Render snapshots b and renders it with the named renderer from the default
// registry. An empty name selects the vanilla renderer.
func Render(ctx context.Context, b *Builder, rendererName string, options RenderOptions) ([]byte, string, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, "", err
	}
	return registry.Render(ctx, rendererName, b.Model(), options)
}
