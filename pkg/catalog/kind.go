package catalog

import (
	"fmt"
	"strings"
)

// FieldKind enumerates the placeable field kinds.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindSelect   FieldKind = "select"
)

// Kinds returns every supported kind in palette order.
func Kinds() []FieldKind {
	return []FieldKind{KindText, KindEmail, KindTextarea, KindDate, KindSelect}
}

// ParseFieldKind resolves a raw identifier into a FieldKind.
func ParseFieldKind(raw string) (FieldKind, error) {
	kind := FieldKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return kind, nil
}

// Valid reports whether the kind belongs to the closed set.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindTextarea, KindDate, KindSelect:
		return true
	default:
		return false
	}
}

// HasOptions reports whether fields of this kind carry an option list.
func (k FieldKind) HasOptions() bool {
	return k == KindSelect
}

// Control names the HTML control family used to render the kind.
func (k FieldKind) Control() string {
	switch k {
	case KindTextarea:
		return "textarea"
	case KindSelect:
		return "select"
	case KindText, KindEmail, KindDate:
		return "input"
	default:
		return ""
	}
}

// InputType returns the type attribute for single-line controls. It is empty
// for kinds rendered with a dedicated element.
func (k FieldKind) InputType() string {
	switch k {
	case KindText, KindEmail, KindDate:
		return string(k)
	default:
		return ""
	}
}

func (k FieldKind) String() string {
	return string(k)
}
