package model

import (
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/placement"
)

// PaletteEntry is a draggable catalog entry.
type PaletteEntry struct {
	Kind     catalog.FieldKind `json:"kind"`
	Label    string            `json:"label"`
	Dragging bool              `json:"dragging"`
}

// Field is a placed field ready for rendering.
type Field struct {
	ID       string            `json:"id"`
	Kind     catalog.FieldKind `json:"kind"`
	Label    string            `json:"label"`
	Required bool              `json:"required"`
	Options  []string          `json:"options,omitempty"`
	// Control is one of input, textarea or select.
	Control string `json:"control"`
	// InputType carries the type attribute for input controls.
	InputType string `json:"inputType,omitempty"`
}

// FormModel is the top-level view of a builder instance.
type FormModel struct {
	Title      string            `json:"title"`
	Palette    []PaletteEntry    `json:"palette"`
	Dragging   bool              `json:"dragging"`
	Hover      bool              `json:"hover"`
	Fields     []Field           `json:"fields"`
	Empty      bool              `json:"empty"`
	ShowSubmit bool              `json:"showSubmit"`
	Pending    *placement.Prompt `json:"pending,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
