package catalog

// DefaultOptionsInput is the comma separated value offered when prompting for
// dropdown options.
const DefaultOptionsInput = "Option 1, Option 2, Option 3"

// FieldTemplate describes a placeable kind and its defaults. Values are
// immutable once built; accessors hand out copies.
type FieldTemplate struct {
	kind           FieldKind
	defaultLabel   string
	defaultOptions []string
}

// NewFieldTemplate validates and constructs a template.
func NewFieldTemplate(kind FieldKind, label string, options ...string) (FieldTemplate, error) {
	tpl := FieldTemplate{
		kind:           kind,
		defaultLabel:   label,
		defaultOptions: cloneStrings(options),
	}
	if err := tpl.validate(); err != nil {
		return FieldTemplate{}, err
	}
	return tpl, nil
}

// MustFieldTemplate panics when the template is invalid. Intended for static
// catalogs.
func MustFieldTemplate(kind FieldKind, label string, options ...string) FieldTemplate {
	tpl, err := NewFieldTemplate(kind, label, options...)
	if err != nil {
		panic(err)
	}
	return tpl
}

func (t FieldTemplate) Kind() FieldKind {
	return t.kind
}

func (t FieldTemplate) DefaultLabel() string {
	return t.defaultLabel
}

// DefaultOptions returns a copy of the default option list. It is nil for
// every kind except select.
func (t FieldTemplate) DefaultOptions() []string {
	return cloneStrings(t.defaultOptions)
}

// IsZero reports whether the template was never initialised.
func (t FieldTemplate) IsZero() bool {
	return t.kind == ""
}

func (t FieldTemplate) validate() error {
	if !t.kind.Valid() {
		return invalidTemplate(t.kind, "unknown kind")
	}
	if t.defaultLabel == "" {
		return invalidTemplate(t.kind, "default label is required")
	}
	if len(t.defaultOptions) > 0 && !t.kind.HasOptions() {
		return invalidTemplate(t.kind, "options are only allowed for select")
	}
	return nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
