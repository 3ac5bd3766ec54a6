package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrRendererNotFound is returned when a renderer name is not registered.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry stores renderers by name. The first registered renderer is the
// default used when callers pass an empty name.
type Registry struct {
	mu         sync.RWMutex
	renderers  map[string]Renderer
	defaultKey string
	decorators []model.Decorator
}

// NewRegistry creates an empty registry. Decorators run on every form before
// it reaches a renderer.
func NewRegistry(decorators ...model.Decorator) *Registry {
	return &Registry{
		renderers:  make(map[string]Renderer),
		decorators: decorators,
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.defaultKey == "" {
		r.defaultKey = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name; an empty name resolves the default.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultKey
	}
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

// Render decorates form and hands it to the named renderer, returning the
// output together with its content type.
func (r *Registry) Render(ctx context.Context, name string, form model.FormModel, options RenderOptions) ([]byte, string, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return nil, "", err
	}
	if err := model.Apply(&form, r.decorators...); err != nil {
		return nil, "", fmt.Errorf("render: decorate form: %w", err)
	}
	if options.Fragment == "" {
		options.Fragment = FragmentPage
	}
	out, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, "", err
	}
	return out, renderer.ContentType(), nil
}
