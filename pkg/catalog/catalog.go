package catalog

import "fmt"

// Catalog is an ordered, immutable list of templates unique by kind.
type Catalog struct {
	templates []FieldTemplate
	index     map[FieldKind]int
}

// Source exposes the catalog currently in effect. Static catalogs and
// Watcher both satisfy it.
type Source interface {
	Current() *Catalog
}

// New validates the templates and builds a catalog preserving their order.
func New(templates ...FieldTemplate) (*Catalog, error) {
	c := &Catalog{
		templates: make([]FieldTemplate, 0, len(templates)),
		index:     make(map[FieldKind]int, len(templates)),
	}
	for _, tpl := range templates {
		if err := tpl.validate(); err != nil {
			return nil, err
		}
		if _, exists := c.index[tpl.kind]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKind, tpl.kind)
		}
		c.index[tpl.kind] = len(c.templates)
		c.templates = append(c.templates, tpl)
	}
	return c, nil
}

// Default returns the built-in contact form palette.
func Default() *Catalog {
	c, err := New(
		MustFieldTemplate(KindText, "Text Input"),
		MustFieldTemplate(KindEmail, "Email Input"),
		MustFieldTemplate(KindTextarea, "Textarea"),
		MustFieldTemplate(KindDate, "Date Input"),
		MustFieldTemplate(KindSelect, "Dropdown", "Option 1", "Option 2", "Option 3"),
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Current lets a static catalog act as a Source.
func (c *Catalog) Current() *Catalog {
	return c
}

// Templates returns the templates in palette order.
func (c *Catalog) Templates() []FieldTemplate {
	if c == nil {
		return nil
	}
	out := make([]FieldTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup returns the template registered for kind.
func (c *Catalog) Lookup(kind FieldKind) (FieldTemplate, error) {
	if c == nil {
		return FieldTemplate{}, fmt.Errorf("%w: %q", ErrNotFound, kind)
	}
	idx, ok := c.index[kind]
	if !ok {
		return FieldTemplate{}, fmt.Errorf("%w: %q", ErrNotFound, kind)
	}
	return c.templates[idx], nil
}

// Has reports whether the catalog offers kind.
func (c *Catalog) Has(kind FieldKind) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[kind]
	return ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.templates)
}
