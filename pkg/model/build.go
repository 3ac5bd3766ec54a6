package model

import (
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/drag"
	"github.com/goliatone/go-formbuilder/pkg/placement"
)

// DefaultTitle heads the drop zone.
const DefaultTitle = "Contact Form Builder"

// Input gathers the component state a FormModel is derived from.
type Input struct {
	Title   string
	Catalog *catalog.Catalog
	Gesture drag.State
	Fields  []draft.PlacedField
	Pending *placement.Prompt
}

// New assembles a FormModel, preserving field order.
func New(in Input) FormModel {
	title := in.Title
	if title == "" {
		title = DefaultTitle
	}

	form := FormModel{
		Title:    title,
		Dragging: in.Gesture.Phase == drag.PhaseDragging,
		Hover:    in.Gesture.Phase == drag.PhaseDragging && in.Gesture.Hover,
		Fields:   FieldsFromDraft(in.Fields),
	}
	for _, tpl := range in.Catalog.Templates() {
		form.Palette = append(form.Palette, PaletteEntry{
			Kind:     tpl.Kind(),
			Label:    tpl.DefaultLabel(),
			Dragging: in.Gesture.Dragging(tpl.Kind()),
		})
	}
	form.Empty = len(form.Fields) == 0
	form.ShowSubmit = !form.Empty
	if in.Pending != nil {
		pending := *in.Pending
		form.Pending = &pending
	}
	return form
}

// FieldsFromDraft converts placed fields into renderable fields.
func FieldsFromDraft(fields []draft.PlacedField) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		field := Field{
			ID:        f.ID,
			Kind:      f.Kind,
			Label:     f.Label,
			Required:  f.Required,
			Control:   f.Kind.Control(),
			InputType: f.Kind.InputType(),
		}
		if f.Kind.HasOptions() {
			field.Options = append([]string{}, f.Options...)
		}
		out = append(out, field)
	}
	return out
}
